// Package upload submits batches of files to the remote service. Files are
// uploaded strictly one at a time; a failing file never aborts the rest of
// the batch, it just doesn't count.
package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/log"
	"github.com/jlozano/docsight/pkg/notify"
)

// Uploader is the slice of the API client the processor needs.
type Uploader interface {
	Upload(ctx context.Context, path string) (*client.StatusResponse, error)
}

// Processor runs sequential per-file uploads with partial-failure
// aggregation.
type Processor struct {
	uploader Uploader
	notifier *notify.Center
	refresh  func(context.Context)
	logger   *log.Logger

	mu   sync.Mutex
	busy bool
}

// NewProcessor creates a processor. refresh is invoked after a batch with at
// least one successful upload (typically the stats poller's Refresh); it may
// be nil.
func NewProcessor(uploader Uploader, notifier *notify.Center, refresh func(context.Context)) *Processor {
	return &Processor{
		uploader: uploader,
		notifier: notifier,
		refresh:  refresh,
		logger:   log.ForService("upload"),
	}
}

// Busy reports whether a batch is currently being processed.
func (p *Processor) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Submit uploads the given files sequentially. Empty input is a no-op. The
// outcome is reported through the notification center: one success
// notification carrying the count when anything got through, one generic
// failure notification when nothing did. Per-file errors are logged only.
func (p *Processor) Submit(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		return 0
	}

	p.mu.Lock()
	p.busy = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	batchID := uuid.NewString()
	p.logger.Infof("batch %s: uploading %d file(s)", batchID, len(paths))

	successCount := 0
	for _, path := range paths {
		status, err := p.uploader.Upload(ctx, path)
		if err != nil {
			p.logger.Errorf("batch %s: uploading %s: %v", batchID, path, err)
			continue
		}
		if !status.Success() {
			p.logger.Warnf("batch %s: server rejected %s: %s", batchID, path, status.Message)
			continue
		}
		successCount++
	}

	if successCount > 0 {
		p.notifier.Push(notify.KindSuccess, fmt.Sprintf("Uploaded %d document(s)", successCount))
		if p.refresh != nil {
			p.refresh(ctx)
		}
	} else {
		p.notifier.Push(notify.KindError, "Upload failed")
	}

	p.logger.Infof("batch %s: %d/%d uploaded", batchID, successCount, len(paths))
	return successCount
}
