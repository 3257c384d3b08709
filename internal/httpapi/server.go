// Package httpapi exposes the batch trigger and operational endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
	"DailyInsights/internal/usecase"
)

// BatchRunner executes one insights run.
type BatchRunner interface {
	RunBatch(ctx context.Context, opts usecase.RunOptions) (domain.RunSummary, error)
}

// Handler serves the insights API.
type Handler struct {
	runner BatchRunner
	health ports.HealthChecker
	logger *slog.Logger
}

type runRequest struct {
	ClientID string `json:"client_id"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewRouter builds the gin engine. gatherer may be nil to disable /metrics.
func NewRouter(runner BatchRunner, health ports.HealthChecker, gatherer prometheus.Gatherer, logger *slog.Logger) *gin.Engine {
	h := &Handler{runner: runner, health: health, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	v1.POST("/insights/runs", h.triggerRun)
	v1.GET("/scraper/health", h.scraperHealth)

	return router
}

func (h *Handler) triggerRun(c *gin.Context) {
	var req runRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, failureResponse{Message: "invalid request body: " + err.Error()})
			return
		}
	}
	if req.ClientID == "" {
		req.ClientID = c.Query("client_id")
	}

	var opts usecase.RunOptions
	if id := strings.TrimSpace(req.ClientID); id != "" {
		opts.ForcedTenantID = &id
	}

	summary, err := h.runner.RunBatch(c.Request.Context(), opts)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("trigger run failed", "run_id", summary.RunID, "error", err)
		}
		c.JSON(statusForRunError(err), failureResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) scraperHealth(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusServiceUnavailable, failureResponse{Message: "scraper health check not configured"})
		return
	}

	status, err := h.health.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, failureResponse{Message: err.Error()})
		return
	}

	code := http.StatusOK
	if !status.Reachable {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func statusForRunError(err error) int {
	if errors.Is(err, domain.ErrScraperUnavailable) || errors.Is(err, domain.ErrInvalidPayload) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
