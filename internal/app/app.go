package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"DailyInsights/internal/config"
	"DailyInsights/internal/domain"
	"DailyInsights/internal/httpapi"
	"DailyInsights/internal/infrastructure/metrics"
	"DailyInsights/internal/infrastructure/scheduler"
	"DailyInsights/internal/infrastructure/scraper"
	"DailyInsights/internal/infrastructure/storage"
	"DailyInsights/internal/infrastructure/telegram"
	"DailyInsights/internal/logging"
	"DailyInsights/internal/ports"
	"DailyInsights/internal/usecase"
	"DailyInsights/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	router    *gin.Engine
}

// New connects storage, applies the schema and builds the pipeline with its
// adapters.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := scheduler.ValidateSpec(cfg.Scheduler.CronExpression); err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	repo := storage.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	scraperClient := scraper.NewClient(cfg.Scraper)

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Tenants:  repo,
		Sources:  usecase.NewFallbackSources(repo, toSources(cfg.Sources)),
		Insights: repo,
		Scraper:  scraperClient,
		Notifier: notifier,
		Recorder: recorder,
		Logger:   baseLogger.With("component", "pipeline"),
		Limits: usecase.Limits{
			TitleMaxLength:       cfg.Ingest.TitleMaxLength,
			DescriptionMaxLength: cfg.Ingest.DescriptionMaxLength,
			KeywordHintLimit:     cfg.Ingest.KeywordHintLimit,
			DefaultIndustry:      cfg.Ingest.DefaultIndustry,
		},
	})

	cron := scheduler.NewCronScheduler(
		cfg.Scheduler.CronExpression,
		cfg.Scheduler.Location(),
		logger.New("cron", baseLogger),
	)

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(cron, pipeline, baseLogger.With("component", "scheduler")),
		router:    httpapi.NewRouter(pipeline, scraperClient, registry, baseLogger.With("component", "http")),
	}, nil
}

// RunOnce executes a single batch run, optionally forced to one client.
func (a *Application) RunOnce(ctx context.Context, forcedClientID *string) (domain.RunSummary, error) {
	return a.pipeline.RunBatch(ctx, usecase.RunOptions{ForcedTenantID: forcedClientID})
}

// Serve starts the scheduler and the HTTP API and blocks until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr, "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler shutdown", "error", err)
	}

	return serveErr
}

// Close releases the database pool.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func toSources(cfg []config.SourceConfig) []domain.Source {
	out := make([]domain.Source, 0, len(cfg))
	for i, s := range cfg {
		out = append(out, domain.Source{
			ID:       fmt.Sprintf("config-%d", i+1),
			Name:     s.Name,
			URL:      s.URL,
			Category: s.Category,
		})
	}
	return out
}
