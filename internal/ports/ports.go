package ports

import (
	"context"
	"time"

	"DailyInsights/internal/domain"
)

// TenantRepository loads active tenants with their keyword material.
type TenantRepository interface {
	ActiveTenants(ctx context.Context) ([]domain.Tenant, error)
}

// SourceProvider lists the scrape endpoints of a run.
type SourceProvider interface {
	ActiveSources(ctx context.Context) ([]domain.Source, error)
}

// InsightRepository persists insights; url must be unique in storage and a
// violating insert must return domain.ErrDuplicateURL.
type InsightRepository interface {
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	CreateInsight(ctx context.Context, record domain.InsightRecord) error
}

// ScrapeTarget is one source endpoint handed to the scraper service.
type ScrapeTarget struct {
	URL      string   `json:"url"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Scraper turns source endpoints into scraped documents.
type Scraper interface {
	Scrape(ctx context.Context, targets []ScrapeTarget) ([]domain.ScrapedDocument, error)
}

// HealthChecker reports reachability of an external service.
type HealthChecker interface {
	Health(ctx context.Context) (domain.HealthStatus, error)
}

// Notifier sends run summaries to operators.
type Notifier interface {
	PublishSummary(ctx context.Context, summary domain.RunSummary) error
}

// RunRecorder collects run metrics.
type RunRecorder interface {
	ObserveRun(summary domain.RunSummary, duration time.Duration)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
