// Package stats keeps a periodically refreshed snapshot of the remote
// service's aggregate metrics.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/log"
)

// Fetcher is the slice of the API client the poller needs.
type Fetcher interface {
	Stats(ctx context.Context) (*client.SystemStats, error)
}

// Poller refreshes system stats on a fixed interval. The reported latency is
// always the locally measured round-trip of the stats call itself; whatever
// the server claims is discarded. A non-2xx response leaves the previous
// snapshot in place; transport errors are logged and never surface as
// notifications.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *log.Logger

	mu      sync.RWMutex
	current client.SystemStats
	haveAny bool

	stopCh    chan struct{}
	ctxCancel context.CancelFunc
	wg        sync.WaitGroup
	running   bool
}

// NewPoller creates a poller refreshing every interval.
func NewPoller(fetcher Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   log.ForService("stats"),
		stopCh:   make(chan struct{}),
	}
}

// Start fires an immediate refresh and then refreshes on the configured
// interval until Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller is already running")
	}
	ctx, p.ctxCancel = context.WithCancel(ctx)
	p.running = true
	p.mu.Unlock()

	p.Refresh(ctx)

	p.wg.Add(1)
	go p.run(ctx)
	return nil
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debugf("poller context cancelled")
			return
		case <-p.stopCh:
			p.logger.Debugf("poller stop signal received")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh fetches stats once and installs the snapshot on success. Safe to
// call from outside the polling loop (upload and delete flows trigger it).
func (p *Poller) Refresh(ctx context.Context) {
	start := time.Now()
	stats, err := p.fetcher.Stats(ctx)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			// Server refused the request; keep the stale snapshot.
			p.logger.Debugf("stats request refused: %v", err)
			return
		}
		p.logger.Errorf("fetching stats: %v", err)
		return
	}
	elapsed := time.Since(start)

	stats.Latency = fmt.Sprintf("%dms", elapsed.Milliseconds())

	p.mu.Lock()
	p.current = *stats
	p.haveAny = true
	p.mu.Unlock()

	p.logger.Debugf("stats refreshed: %d documents, round-trip %v", stats.TotalDocuments, elapsed)
}

// Current returns the latest snapshot and whether any fetch has succeeded yet.
func (p *Poller) Current() (client.SystemStats, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.haveAny
}

// Stop tears the polling loop down and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	if p.ctxCancel != nil {
		p.ctxCancel()
	}
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}
