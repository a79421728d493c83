// Package handler exposes transaction listing and deletion over HTTP.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/common"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
	"github.com/ledgerkeep/ledgerkeep/pkg/middleware"
)

// TransactionHandler serves the transaction read/delete endpoints.
type TransactionHandler struct {
	store  repository.Store
	logger *slog.Logger
}

// NewTransactionHandler constructs a new handler.
func NewTransactionHandler(store repository.Store, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{store: store, logger: logger}
}

// List returns the owner's transactions, optionally filtered by uploadId,
// category, type, and date range (from/to, inclusive, YYYY-MM-DD).
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	txs, err := h.store.ListTransactions(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		common.WriteError(w, err)
		return
	}
	if txs == nil {
		txs = []repository.Transaction{}
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// DeleteAll removes every transaction owned by the caller.
func (h *TransactionHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserIDFromContext(r.Context())
	if err := h.store.DeleteAll(r.Context(), owner); err != nil {
		h.logger.Error("failed to delete transactions", "error", err)
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) (repository.Filter, error) {
	filter := repository.Filter{
		UserID:   middleware.UserIDFromContext(r.Context()),
		Category: r.URL.Query().Get("category"),
		Type:     r.URL.Query().Get("type"),
	}

	if raw := r.URL.Query().Get("uploadId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return repository.Filter{}, fmt.Errorf("%w: invalid uploadId", common.ErrBadRequest)
		}
		filter.UploadID = &id
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return repository.Filter{}, fmt.Errorf("%w: invalid from date", common.ErrBadRequest)
		}
		filter.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return repository.Filter{}, fmt.Errorf("%w: invalid to date", common.ErrBadRequest)
		}
		filter.To = &t
	}

	return filter, nil
}
