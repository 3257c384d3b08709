package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"DailyInsights/internal/attribution"
	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

const (
	defaultTitleMaxLength       = 500
	defaultDescriptionMaxLength = 2000
	defaultKeywordHintLimit     = 50
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Tenants  ports.TenantRepository
	Sources  ports.SourceProvider
	Insights ports.InsightRepository
	Scraper  ports.Scraper
	Notifier ports.Notifier
	Recorder ports.RunRecorder
	Logger   *slog.Logger
	Limits   Limits
	Now      func() time.Time
}

// Limits bounds stored field lengths and the scraper keyword hint.
type Limits struct {
	TitleMaxLength       int
	DescriptionMaxLength int
	KeywordHintLimit     int
	DefaultIndustry      string
}

// RunOptions parameterizes a single batch run.
type RunOptions struct {
	// ForcedTenantID attributes every document of the run to this tenant.
	ForcedTenantID *string
}

// Pipeline implements the daily insights ingestion run.
type Pipeline struct {
	tenants  ports.TenantRepository
	sources  ports.SourceProvider
	insights ports.InsightRepository
	scraper  ports.Scraper
	notifier ports.Notifier
	recorder ports.RunRecorder
	logger   *slog.Logger
	limits   Limits
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		tenants:  deps.Tenants,
		sources:  deps.Sources,
		insights: deps.Insights,
		scraper:  deps.Scraper,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		logger:   logger,
		limits:   deps.Limits.withDefaults(),
		now:      now,
	}
}

func (l Limits) withDefaults() Limits {
	if l.TitleMaxLength <= 0 {
		l.TitleMaxLength = defaultTitleMaxLength
	}
	if l.DescriptionMaxLength <= 0 {
		l.DescriptionMaxLength = defaultDescriptionMaxLength
	}
	if l.KeywordHintLimit <= 0 {
		l.KeywordHintLimit = defaultKeywordHintLimit
	}
	if strings.TrimSpace(l.DefaultIndustry) == "" {
		l.DefaultIndustry = attribution.DefaultIndustry
	}
	return l
}

// RunBatch scrapes every active source once, attributes each returned
// document to at most one tenant and stores it unless its url is known.
// A returned error means nothing was persisted; the summary then carries
// Success=false and the failure message.
func (p *Pipeline) RunBatch(ctx context.Context, opts RunOptions) (domain.RunSummary, error) {
	started := p.now()
	summary := domain.RunSummary{RunID: uuid.NewString(), StartedAt: started}
	log := p.logger.With("run_id", summary.RunID)

	err := p.run(ctx, opts, &summary, log)
	summary.FinishedAt = p.now()
	if err != nil {
		summary.Success = false
		summary.Message = err.Error()
		log.Error("insights run failed", "error", err)
	} else {
		log.Info("insights run finished",
			"scraped", summary.Scraped,
			"saved", summary.Saved,
			"duplicates", summary.Duplicates,
			"unassigned", summary.Unassigned,
			"errors", len(summary.Errors))
	}

	if p.recorder != nil {
		p.recorder.ObserveRun(summary, summary.FinishedAt.Sub(started))
	}
	if p.notifier != nil {
		if nErr := p.notifier.PublishSummary(ctx, summary); nErr != nil {
			log.Warn("publish run summary", "error", nErr)
		}
	}

	return summary, err
}

func (p *Pipeline) run(ctx context.Context, opts RunOptions, summary *domain.RunSummary, log *slog.Logger) error {
	if p.scraper == nil || p.insights == nil {
		return fmt.Errorf("pipeline is not configured")
	}

	var sources []domain.Source
	if p.sources != nil {
		var err error
		sources, err = p.sources.ActiveSources(ctx)
		if err != nil {
			return fmt.Errorf("load sources: %w", err)
		}
	}

	var tenants []domain.Tenant
	if p.tenants != nil {
		var err error
		tenants, err = p.tenants.ActiveTenants(ctx)
		if err != nil {
			return fmt.Errorf("load tenants: %w", err)
		}
	}

	registries := attribution.BuildRegistries(tenants)
	index := attribution.NewOwnershipIndex(registries)
	matcher := attribution.NewMatcher(registries, index)

	summary.TenantsCount = len(registries)
	summary.KeywordsCount = index.Len()
	summary.SourcesProcessed = len(sources)

	if len(sources) == 0 {
		summary.Success = true
		summary.Message = "no active sources configured"
		return nil
	}

	hint := index.Vocabulary(p.limits.KeywordHintLimit)
	targets := make([]ports.ScrapeTarget, 0, len(sources))
	for _, src := range sources {
		targets = append(targets, ports.ScrapeTarget{URL: src.URL, Category: src.Category, Keywords: hint})
	}

	log.Debug("scrape sources", "sources", len(targets), "tenants", len(registries), "keywords", index.Len())
	docs, err := p.scraper.Scrape(ctx, targets)
	if err != nil {
		return fmt.Errorf("scrape sources: %w", err)
	}
	summary.Scraped = len(docs)

	gate, err := NewDedupGate(ctx, p.insights, docs)
	if err != nil {
		return fmt.Errorf("load existing insights: %w", err)
	}

	for _, doc := range docs {
		if gate.Seen(doc.URL) {
			summary.Duplicates++
			log.Debug("skip duplicate", "url", doc.URL)
			continue
		}

		record := p.buildRecord(doc, matcher, opts)
		if err := p.insights.CreateInsight(ctx, record); err != nil {
			if errors.Is(err, domain.ErrDuplicateURL) {
				gate.Mark(doc.URL)
				summary.Duplicates++
				log.Debug("skip duplicate on insert", "url", doc.URL)
				continue
			}
			summary.Errors = append(summary.Errors, fmt.Sprintf("save %s: %v", doc.URL, err))
			log.Warn("save insight", "url", doc.URL, "error", err)
			continue
		}

		gate.Mark(doc.URL)
		summary.Saved++
		if !record.Assigned() {
			summary.Unassigned++
		}
	}

	summary.Success = true
	summary.Message = fmt.Sprintf("scraped %d documents, saved %d, skipped %d duplicates",
		summary.Scraped, summary.Saved, summary.Duplicates)
	return nil
}

func (p *Pipeline) buildRecord(doc domain.ScrapedDocument, matcher *attribution.Matcher, opts RunOptions) domain.InsightRecord {
	var result attribution.Attribution
	if opts.ForcedTenantID != nil && *opts.ForcedTenantID != "" {
		result = attribution.Resolve(nil, opts.ForcedTenantID, doc.Industry, p.limits.DefaultIndustry)
	} else {
		scores := matcher.Score(attribution.DocumentText(doc.Title, doc.Description))
		result = attribution.Resolve(scores, nil, doc.Industry, p.limits.DefaultIndustry)
	}

	now := p.now()
	scrapedAt := doc.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = now
	}

	return domain.InsightRecord{
		ID:          uuid.NewString(),
		Title:       truncate(doc.Title, p.limits.TitleMaxLength),
		URL:         doc.URL,
		Description: truncate(doc.Description, p.limits.DescriptionMaxLength),
		Source:      doc.Source,
		Industry:    result.Industry,
		ClientID:    result.TenantID,
		Status:      domain.StatusPending,
		ScrapedAt:   scrapedAt,
		CreatedAt:   now,
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
