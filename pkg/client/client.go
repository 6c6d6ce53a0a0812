// Package client implements the HTTP client for the remote document search
// service. It covers the full API surface the tool consumes: search, stats,
// folder rescan, scrape triggering, multipart upload and document deletion.
//
// All methods take a context and return explicit errors; a non-2xx response
// is reported as *StatusError so callers can tell a refused request apart
// from a transport failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlozano/docsight/pkg/log"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.Code)
}

// Client talks to one remote document search service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a client for the service at baseURL. The timeout bounds every
// individual call.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.ForService("client"),
	}
}

// Search issues POST /api/search and returns the raw result records. The
// records may contain duplicates and malformed entries; deduplication is the
// caller's concern. A body that is not a JSON array (e.g. an error envelope)
// is reported as a decode error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	payload := struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}{Query: query, Limit: limit}

	var results []SearchResult
	if err := c.postJSON(ctx, "/api/search", payload, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats issues GET /api/stats.
func (c *Client) Stats(ctx context.Context) (*SystemStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stats", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var stats SystemStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decoding stats response: %w", err)
	}
	return &stats, nil
}

// Scan issues POST /api/scan, asking the server to re-index its documents
// folder.
func (c *Client) Scan(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.postJSON(ctx, "/api/scan", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TriggerScrape issues POST /api/trigger-scrape. The server schedules the
// scrape in the background; there is no completion signal.
func (c *Client) TriggerScrape(ctx context.Context, url string) error {
	payload := struct {
		URL string `json:"url"`
	}{URL: url}

	var status StatusResponse
	return c.postJSON(ctx, "/api/trigger-scrape", payload, &status)
}

// Upload submits one file as a multipart POST /api/upload.
func (c *Client) Upload(ctx context.Context, path string) (*StatusResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.Warnf("closing %s: %v", path, err)
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &status, nil
}

// DeleteDocument issues DELETE /api/documents/{filename}. The filename is
// escaped, so names with spaces or percent signs form a valid request URL.
func (c *Client) DeleteDocument(ctx context.Context, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/documents/"+url.PathEscape(filename), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Warnf("closing response body: %v", err)
	}
}
