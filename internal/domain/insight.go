package domain

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateURL reports that an insight with the same url is already stored.
	ErrDuplicateURL = errors.New("insight url already exists")
	// ErrScraperUnavailable reports a non-success answer from the scraper service.
	ErrScraperUnavailable = errors.New("scraper unavailable")
	// ErrInvalidPayload reports a scraper response that cannot be decoded or validated.
	ErrInvalidPayload = errors.New("invalid scraper payload")
)

// InsightStatus enumerates the review lifecycle of a stored insight.
type InsightStatus string

const (
	StatusPending  InsightStatus = "pending"
	StatusAccepted InsightStatus = "accepted"
	StatusArchived InsightStatus = "archived"
)

// ScrapedDocument is a validated news item returned by the scraper service.
type ScrapedDocument struct {
	Title       string
	URL         string
	Description string
	Source      string
	Industry    string
	ScrapedAt   time.Time
}

// InsightRecord is the persisted, attributed result of one scraped document.
// A nil ClientID places the record in the unassigned pool.
type InsightRecord struct {
	ID          string
	Title       string
	URL         string
	Description string
	Source      string
	Industry    string
	ClientID    *string
	Status      InsightStatus
	ScrapedAt   time.Time
	CreatedAt   time.Time
}

// Assigned reports whether the record is attributed to a tenant.
func (r InsightRecord) Assigned() bool {
	return r.ClientID != nil
}

// RunSummary aggregates the outcome of one batch run.
type RunSummary struct {
	RunID            string    `json:"run_id"`
	Success          bool      `json:"success"`
	Message          string    `json:"message"`
	Scraped          int       `json:"scraped"`
	Saved            int       `json:"saved"`
	Duplicates       int       `json:"duplicates"`
	Unassigned       int       `json:"unassigned"`
	SourcesProcessed int       `json:"sources_processed"`
	TenantsCount     int       `json:"tenants_count"`
	KeywordsCount    int       `json:"keywords_count"`
	Errors           []string  `json:"errors,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// HealthStatus describes reachability of an external collaborator.
type HealthStatus struct {
	Reachable bool          `json:"reachable"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ns"`
	CheckedAt time.Time     `json:"checked_at"`
}
