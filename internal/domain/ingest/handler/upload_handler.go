// Package handler exposes statement uploads and batch status over HTTP.
package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/common"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/service"
	"github.com/ledgerkeep/ledgerkeep/pkg/middleware"
)

// UploadHandler handles statement upload and batch status requests.
type UploadHandler struct {
	svc      *service.IngestService
	logger   *slog.Logger
	tempDir  string
	maxBytes int64
}

// NewUploadHandler constructs a new handler.
func NewUploadHandler(svc *service.IngestService, logger *slog.Logger, tempDir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		svc:      svc,
		logger:   logger,
		tempDir:  tempDir,
		maxBytes: maxBytes,
	}
}

// Upload accepts a multipart statement file, spools it to a temporary file,
// and schedules ingestion. It responds 202 with the batch record; the
// client polls GetBatch for the outcome.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.WriteError(w, common.ErrTooLarge)
			return
		}
		common.WriteError(w, fmt.Errorf("%w: missing file field", common.ErrBadRequest))
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp(h.tempDir, "upload-*")
	if err != nil {
		h.logger.Error("failed to create temp upload", "error", err)
		common.WriteError(w, err)
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.WriteError(w, common.ErrTooLarge)
			return
		}
		h.logger.Error("failed to spool upload", "error", err)
		common.WriteError(w, err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		common.WriteError(w, err)
		return
	}

	owner := middleware.UserIDFromContext(r.Context())
	contentType := header.Header.Get("Content-Type")

	batch, err := h.svc.Ingest(r.Context(), owner, tmp.Name(), contentType, header.Filename)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusAccepted, batch)
}

// GetBatch returns the batch record for status polling.
func (h *UploadHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		common.WriteError(w, fmt.Errorf("%w: invalid upload id", common.ErrBadRequest))
		return
	}

	batch, err := h.svc.GetBatch(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if batch == nil || batch.UserID != middleware.UserIDFromContext(r.Context()) {
		common.WriteError(w, common.ErrNotFound)
		return
	}

	common.WriteJSON(w, http.StatusOK, batch)
}
