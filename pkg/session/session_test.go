package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/notify"
)

type fakeAPI struct {
	mu            sync.Mutex
	searchResults []client.SearchResult
	searchErr     error
	searchDelay   time.Duration
	searchCalls   []string
	deleted       []string
	deleteErr     error
	scanStatus    *client.StatusResponse
	scanErr       error
	scrapeErr     error
	scrapedURLs   []string
}

func (f *fakeAPI) Search(ctx context.Context, query string, limit int) ([]client.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	results, err, delay := f.searchResults, f.searchErr, f.searchDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return results, err
}

func (f *fakeAPI) Scan(ctx context.Context) (*client.StatusResponse, error) {
	return f.scanStatus, f.scanErr
}

func (f *fakeAPI) TriggerScrape(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrapedURLs = append(f.scrapedURLs, url)
	return f.scrapeErr
}

func (f *fakeAPI) DeleteDocument(ctx context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, filename)
	return f.deleteErr
}

type fakeRecorder struct {
	mu    sync.Mutex
	terms []string
}

func (f *fakeRecorder) Record(term string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
	return nil
}

func (f *fakeRecorder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.terms))
	copy(out, f.terms)
	return out
}

func newTestController(api API, opts ...Option) (*Controller, *fakeRecorder, *notify.Center) {
	recorder := &fakeRecorder{}
	notifier := notify.NewCenter()
	opts = append([]Option{WithPacingDelay(0)}, opts...)
	return New(api, recorder, notifier, opts...), recorder, notifier
}

func TestSubmitQueryEmptyIsNoop(t *testing.T) {
	api := &fakeAPI{}
	c, recorder, notifier := newTestController(api)

	c.SubmitQuery(context.Background(), "   ")

	if c.Loading() {
		t.Error("loading must stay false")
	}
	if c.View() != ViewHome {
		t.Error("view must not change")
	}
	if len(recorder.recorded()) != 0 {
		t.Error("no history write expected")
	}
	if len(api.searchCalls) != 0 {
		t.Error("no network call expected")
	}
	if len(notifier.Items()) != 0 {
		t.Error("no notification expected")
	}
}

func TestSubmitQuerySuccess(t *testing.T) {
	api := &fakeAPI{
		searchResults: []client.SearchResult{
			{ID: "1", Content: "fees due", SourceURL: "http://x/files/fees.pdf"},
			{ID: "2", Content: "fees due", SourceURL: "http://x/files/fees.pdf"},
			{ID: "3", Content: "other", SourceURL: "http://x/files/other.pdf"},
		},
	}
	c, recorder, _ := newTestController(api)

	c.SubmitQuery(context.Background(), "fees")

	if c.Loading() {
		t.Error("loading must be false after the search settles")
	}
	if c.View() != ViewResults {
		t.Errorf("expected results view, got %q", c.View())
	}
	if c.Query() != "fees" {
		t.Errorf("expected query %q, got %q", "fees", c.Query())
	}
	if got := recorder.recorded(); len(got) != 1 || got[0] != "fees" {
		t.Errorf("expected history write of %q, got %v", "fees", got)
	}

	results := c.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 deduplicated results, got %d", len(results))
	}
	if results[0].SourceURL != "http://x/files/fees.pdf" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestSubmitQueryTrimsTerm(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newTestController(api)

	c.SubmitQuery(context.Background(), "  fees  ")

	if c.Query() != "fees" {
		t.Errorf("expected trimmed query, got %q", c.Query())
	}
	if len(api.searchCalls) != 1 || api.searchCalls[0] != "fees" {
		t.Errorf("expected search for trimmed term, got %v", api.searchCalls)
	}
}

func TestSubmitQueryFailure(t *testing.T) {
	api := &fakeAPI{searchErr: fmt.Errorf("connection refused")}
	c, _, notifier := newTestController(api)

	c.SubmitQuery(context.Background(), "fees")

	if c.Loading() {
		t.Error("loading must be false after a failed search")
	}
	if len(c.Results()) != 0 {
		t.Error("results must be cleared on failure")
	}
	items := notifier.Items()
	if len(items) != 1 || items[0].Kind != notify.KindError {
		t.Errorf("expected one error notification, got %+v", items)
	}
}

func TestSubmitQueryReplacesPriorResults(t *testing.T) {
	api := &fakeAPI{
		searchResults: []client.SearchResult{
			{ID: "1", SourceURL: "http://x/files/a.pdf"},
		},
	}
	c, _, _ := newTestController(api)

	c.SubmitQuery(context.Background(), "first")

	api.mu.Lock()
	api.searchResults = []client.SearchResult{
		{ID: "2", SourceURL: "http://x/files/b.pdf"},
	}
	api.mu.Unlock()

	c.SubmitQuery(context.Background(), "second")

	results := c.Results()
	if len(results) != 1 || results[0].ID != "2" {
		t.Errorf("expected wholesale replacement, got %+v", results)
	}
}

func TestOverlappingSearchesLatestWins(t *testing.T) {
	api := &fakeAPI{
		searchResults: []client.SearchResult{{ID: "slow", SourceURL: "http://x/files/slow.pdf"}},
		searchDelay:   50 * time.Millisecond,
	}
	c, _, _ := newTestController(api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SubmitQuery(context.Background(), "slow")
	}()

	time.Sleep(10 * time.Millisecond)

	api.mu.Lock()
	api.searchResults = []client.SearchResult{{ID: "fast", SourceURL: "http://x/files/fast.pdf"}}
	api.searchDelay = 100 * time.Millisecond
	api.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SubmitQuery(context.Background(), "fast")
	}()
	wg.Wait()

	// The first search settled after the second was submitted; its stale
	// response must not clobber the newer search's results.
	results := c.Results()
	if len(results) != 1 || results[0].ID != "fast" {
		t.Errorf("expected the most recent search to own the results, got %+v", results)
	}
}

func TestPacingDelayElapses(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newTestController(api, WithPacingDelay(30*time.Millisecond))

	start := time.Now()
	c.SubmitQuery(context.Background(), "fees")

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("pacing delay skipped: %v", elapsed)
	}
}

func TestCollapseNavHook(t *testing.T) {
	api := &fakeAPI{}
	collapsed := false
	c, _, _ := newTestController(api, WithCollapseNav(func() { collapsed = true }))

	c.SubmitQuery(context.Background(), "fees")

	if !collapsed {
		t.Error("expected the nav collapse hook to fire")
	}
}

func TestDeleteDocument(t *testing.T) {
	api := &fakeAPI{
		searchResults: []client.SearchResult{
			{ID: "1", SourceURL: "http://x/files/fees.pdf"},
			{ID: "2", SourceURL: "http://x/files/other.pdf"},
		},
	}
	refreshed := false
	c, _, notifier := newTestController(api,
		WithConfirm(func(string) bool { return true }),
		WithStatsRefresh(func(context.Context) { refreshed = true }),
	)

	c.SubmitQuery(context.Background(), "fees")
	c.OpenPreview("http://x/files/fees.pdf")

	c.DeleteDocument(context.Background(), "http://x/files/fees.pdf")

	if len(api.deleted) != 1 || api.deleted[0] != "fees.pdf" {
		t.Errorf("expected delete call for fees.pdf, got %v", api.deleted)
	}
	results := c.Results()
	if len(results) != 1 || results[0].SourceURL != "http://x/files/other.pdf" {
		t.Errorf("deleted document still in results: %+v", results)
	}
	if c.Preview() != "" {
		t.Error("preview of the deleted document should be closed")
	}
	items := notifier.Items()
	if len(items) == 0 || items[0].Kind != notify.KindSuccess {
		t.Errorf("expected success notification, got %+v", items)
	}
	if !refreshed {
		t.Error("expected a stats refresh after deletion")
	}
}

func TestDeleteDocumentDeclinedConfirmation(t *testing.T) {
	api := &fakeAPI{}
	c, _, notifier := newTestController(api, WithConfirm(func(string) bool { return false }))

	c.DeleteDocument(context.Background(), "http://x/files/fees.pdf")

	if len(api.deleted) != 0 {
		t.Error("declined confirmation must not issue a delete call")
	}
	if len(notifier.Items()) != 0 {
		t.Error("declined confirmation is a clean no-op")
	}
}

func TestDeleteDocumentEmptySegment(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newTestController(api, WithConfirm(func(string) bool { return true }))

	c.DeleteDocument(context.Background(), "http://x/files/")

	if len(api.deleted) != 0 {
		t.Error("empty filename segment must be a no-op")
	}
}

func TestDeleteDocumentFailureKeepsResults(t *testing.T) {
	api := &fakeAPI{
		searchResults: []client.SearchResult{
			{ID: "1", SourceURL: "http://x/files/fees.pdf"},
		},
		deleteErr: fmt.Errorf("server error"),
	}
	c, _, notifier := newTestController(api, WithConfirm(func(string) bool { return true }))

	c.SubmitQuery(context.Background(), "fees")
	c.DeleteDocument(context.Background(), "http://x/files/fees.pdf")

	if len(c.Results()) != 1 {
		t.Error("results must stay unchanged on delete failure")
	}
	items := notifier.Items()
	if len(items) == 0 || items[0].Kind != notify.KindError {
		t.Errorf("expected error notification, got %+v", items)
	}
}

func TestTriggerScan(t *testing.T) {
	api := &fakeAPI{scanStatus: &client.StatusResponse{Status: "success", Message: "Rescanned. Indexed 3."}}
	refreshed := false
	c, _, notifier := newTestController(api, WithStatsRefresh(func(context.Context) { refreshed = true }))

	c.TriggerScan(context.Background())

	items := notifier.Items()
	if len(items) != 1 || items[0].Message != "Rescanned. Indexed 3." {
		t.Errorf("expected server message in notification, got %+v", items)
	}
	if !refreshed {
		t.Error("expected stats refresh after scan")
	}
}

func TestTriggerScrapeFailure(t *testing.T) {
	api := &fakeAPI{scrapeErr: fmt.Errorf("unreachable")}
	c, _, notifier := newTestController(api)

	c.TriggerScrape(context.Background(), "https://example.edu/notices")

	items := notifier.Items()
	if len(items) != 1 || items[0].Kind != notify.KindError {
		t.Errorf("expected only an error notification, got %+v", items)
	}
}
