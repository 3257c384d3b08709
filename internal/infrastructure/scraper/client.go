package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DailyInsights/internal/config"
	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

const defaultTimeout = 120 * time.Second

// Client talks to the external scraping service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

var _ ports.Scraper = (*Client)(nil)
var _ ports.HealthChecker = (*Client)(nil)

// NewClient builds a client from configuration; the timeout bounds the
// whole scrape round trip.
func NewClient(cfg config.ScraperConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

type scrapeRequest struct {
	Sources []ports.ScrapeTarget `json:"sources"`
}

type scrapeResponse struct {
	Success *bool         `json:"success"`
	Message string        `json:"message"`
	Error   string        `json:"error"`
	Data    []rawDocument `json:"data"`
}

// Scrape sends all targets in one request. Any non-success answer fails
// the whole call.
func (c *Client) Scrape(ctx context.Context, targets []ports.ScrapeTarget) ([]domain.ScrapedDocument, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("scraper client is nil")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("scraper client misconfigured")
	}

	var resp scrapeResponse
	if err := c.post(ctx, "/scrape", scrapeRequest{Sources: targets}, &resp); err != nil {
		return nil, err
	}

	if resp.Success == nil || !*resp.Success {
		reason := firstNonEmpty(resp.Error, resp.Message, "success flag not set")
		return nil, fmt.Errorf("%w: %s", domain.ErrScraperUnavailable, reason)
	}

	fallback := c.now().UTC()
	docs := make([]domain.ScrapedDocument, 0, len(resp.Data))
	for i, raw := range resp.Data {
		doc, err := raw.toDocument(fallback)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", domain.ErrInvalidPayload, i, err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Health probes the scraper's health endpoint. Transport failures are
// reported as unreachable rather than as errors.
func (c *Client) Health(ctx context.Context) (domain.HealthStatus, error) {
	status := domain.HealthStatus{CheckedAt: c.now().UTC()}
	if c.baseURL == "" {
		return status, fmt.Errorf("scraper client misconfigured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return status, fmt.Errorf("new request: %w", err)
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	status.Latency = time.Since(start)
	if err != nil {
		status.Status = err.Error()
		return status, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	status.Status = resp.Status
	status.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 300
	return status, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrScraperUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status %s: %s", domain.ErrScraperUnavailable, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrInvalidPayload, err)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
