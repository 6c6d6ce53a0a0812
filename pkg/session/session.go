// Package session implements the interaction controller at the heart of the
// client: it turns user actions (submitted queries, delete requests, scan and
// scrape triggers) into network calls and reconciles their asynchronous,
// possibly overlapping responses into one consistent result set.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/dedup"
	"github.com/jlozano/docsight/pkg/log"
	"github.com/jlozano/docsight/pkg/notify"
)

// View is the active screen of the session.
type View string

const (
	ViewHome    View = "home"
	ViewResults View = "results"
)

// API is the slice of the remote client the controller drives.
type API interface {
	Search(ctx context.Context, query string, limit int) ([]client.SearchResult, error)
	Scan(ctx context.Context) (*client.StatusResponse, error)
	TriggerScrape(ctx context.Context, url string) error
	DeleteDocument(ctx context.Context, filename string) error
}

// Recorder receives submitted query terms (the history store).
type Recorder interface {
	Record(term string) error
}

// ConfirmFunc gates destructive operations. Returning false makes the
// operation a clean no-op.
type ConfirmFunc func(prompt string) bool

// Controller owns the query text, the loading flag and the current result
// set. It is the only writer of "current results": overlapping searches all
// run to completion, but only the most recently submitted one is allowed to
// install its response.
type Controller struct {
	api         API
	history     Recorder
	notifier    *notify.Center
	refresh     func(context.Context)
	confirm     ConfirmFunc
	collapseNav func()
	delay       time.Duration
	limit       int
	logger      *log.Logger

	mu         sync.Mutex
	query      string
	loading    bool
	view       View
	results    []client.SearchResult
	preview    string
	generation uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithPacingDelay sets the fixed delay applied before each search call. The
// delay elapses even when the network would answer faster; it is deliberate
// pacing, not a timeout.
func WithPacingDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithSearchLimit sets the per-search result limit.
func WithSearchLimit(limit int) Option {
	return func(c *Controller) { c.limit = limit }
}

// WithConfirm installs the confirmation gate for destructive operations.
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Controller) { c.confirm = fn }
}

// WithCollapseNav installs the hook collapsing overlay navigation in
// constrained viewport contexts.
func WithCollapseNav(fn func()) Option {
	return func(c *Controller) { c.collapseNav = fn }
}

// WithStatsRefresh installs the callback fired after operations that change
// the server's document set (delete, scan).
func WithStatsRefresh(fn func(context.Context)) Option {
	return func(c *Controller) { c.refresh = fn }
}

// New creates a controller. history and notifier must not be nil.
func New(api API, history Recorder, notifier *notify.Center, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		history:  history,
		notifier: notifier,
		delay:    600 * time.Millisecond,
		limit:    15,
		view:     ViewHome,
		logger:   log.ForService("session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitQuery runs one full search interaction. A term that trims to empty
// is a no-op that leaves all state untouched. Network and decode failures
// never propagate to the caller; an error notification is their only
// observable effect.
func (c *Controller) SubmitQuery(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	if c.collapseNav != nil {
		c.collapseNav()
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.view = ViewResults
	c.loading = true
	c.results = nil
	c.query = term
	c.mu.Unlock()

	if err := c.history.Record(term); err != nil {
		c.logger.Warnf("recording history entry: %v", err)
	}

	// Deliberate UX pacing: the delay elapses even if the search would
	// return faster.
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
		}
	}

	raw, err := c.api.Search(ctx, term, c.limit)

	c.mu.Lock()
	if gen != c.generation {
		// A newer search owns the results slot; drop this response.
		c.mu.Unlock()
		c.logger.Debugf("discarding stale response for %q", term)
		return
	}
	if err != nil {
		c.results = nil
		c.loading = false
		c.mu.Unlock()
		c.logger.Errorf("searching %q: %v", term, err)
		c.notifier.Push(notify.KindError, "Search failed")
		return
	}
	c.results = dedup.Deduplicate(raw, term)
	c.loading = false
	c.mu.Unlock()
}

// DeleteDocument removes the document behind sourceURL after user
// confirmation. The filename is the last path segment of the URL; an empty
// segment makes the call a no-op. On success every result sharing the URL is
// dropped and an open preview of it is closed; on failure the result set is
// left untouched.
func (c *Controller) DeleteDocument(ctx context.Context, sourceURL string) {
	filename := lastPathSegment(sourceURL)
	if filename == "" {
		return
	}
	if c.confirm != nil && !c.confirm(fmt.Sprintf("Delete %s?", filename)) {
		return
	}

	if err := c.api.DeleteDocument(ctx, filename); err != nil {
		c.logger.Errorf("deleting %s: %v", filename, err)
		c.notifier.Push(notify.KindError, fmt.Sprintf("Failed to delete %s", filename))
		return
	}

	c.mu.Lock()
	kept := c.results[:0]
	for _, r := range c.results {
		if r.SourceURL != sourceURL {
			kept = append(kept, r)
		}
	}
	c.results = kept
	if c.preview == sourceURL {
		c.preview = ""
	}
	c.mu.Unlock()

	c.notifier.Push(notify.KindSuccess, fmt.Sprintf("Deleted %s", filename))
	if c.refresh != nil {
		c.refresh(ctx)
	}
}

// TriggerScan asks the server to re-index its documents folder.
func (c *Controller) TriggerScan(ctx context.Context) {
	status, err := c.api.Scan(ctx)
	if err != nil {
		c.logger.Errorf("triggering scan: %v", err)
		c.notifier.Push(notify.KindError, "Scan failed")
		return
	}
	if !status.Success() {
		c.notifier.Push(notify.KindError, "Scan failed")
		return
	}

	message := status.Message
	if message == "" {
		message = "Scan complete"
	}
	c.notifier.Push(notify.KindSuccess, message)
	if c.refresh != nil {
		c.refresh(ctx)
	}
}

// TriggerScrape fires a scrape of url on the server. The call is
// fire-and-forget; a failure only produces an error notification.
func (c *Controller) TriggerScrape(ctx context.Context, url string) {
	if err := c.api.TriggerScrape(ctx, url); err != nil {
		c.logger.Errorf("triggering scrape of %s: %v", url, err)
		c.notifier.Push(notify.KindError, "Scrape trigger failed")
		return
	}
	c.notifier.Push(notify.KindSuccess, "Scrape triggered")
}

// OpenPreview marks sourceURL as the currently previewed document.
func (c *Controller) OpenPreview(sourceURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = sourceURL
}

// ClosePreview clears the preview.
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = ""
}

// Preview returns the currently previewed source URL, if any.
func (c *Controller) Preview() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Results returns the current result set.
func (c *Controller) Results() []client.SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]client.SearchResult, len(c.results))
	copy(out, c.results)
	return out
}

// Loading reports whether a search is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Query returns the active query text.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// View returns the active view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// lastPathSegment returns the substring after the final '/', which is empty
// for URLs ending in a slash.
func lastPathSegment(url string) string {
	if url == "" {
		return ""
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
