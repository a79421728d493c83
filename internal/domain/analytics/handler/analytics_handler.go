// Package handler exposes spending analytics over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/analytics/repository"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/common"
	"github.com/ledgerkeep/ledgerkeep/pkg/middleware"
)

// Aggregator is the read surface the analytics endpoints depend on.
type Aggregator interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*repository.Summary, error)
	GetMonthly(ctx context.Context, userID uuid.UUID) ([]repository.MonthlyBreakdown, error)
	GetCategoryTotals(ctx context.Context, userID uuid.UUID) ([]repository.CategoryTotal, error)
}

// AnalyticsHandler serves the analytics endpoints.
type AnalyticsHandler struct {
	repo   Aggregator
	logger *slog.Logger
}

// NewAnalyticsHandler constructs a new handler.
func NewAnalyticsHandler(repo Aggregator, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, logger: logger}
}

// Summary returns all-time income, expense, and net totals for the caller.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserIDFromContext(r.Context())
	summary, err := h.repo.GetSummary(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute summary", "error", err)
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

// Monthly returns per-month totals in chronological order.
func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserIDFromContext(r.Context())
	months, err := h.repo.GetMonthly(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute monthly breakdown", "error", err)
		common.WriteError(w, err)
		return
	}
	if months == nil {
		months = []repository.MonthlyBreakdown{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"months": months})
}

// Categories returns expense totals per category, biggest spender first.
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserIDFromContext(r.Context())
	totals, err := h.repo.GetCategoryTotals(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute category totals", "error", err)
		common.WriteError(w, err)
		return
	}
	if totals == nil {
		totals = []repository.CategoryTotal{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"categories": totals})
}
