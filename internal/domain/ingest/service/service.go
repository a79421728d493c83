// Package service provides the ingestion orchestration logic.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/parser"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
	"github.com/ledgerkeep/ledgerkeep/pkg/observability"
)

// ErrUnsupportedFileType indicates the declared type matches neither CSV nor PDF.
var ErrUnsupportedFileType = errors.New("unsupported statement file type")

// IngestService drives uploaded statements through parse, dedupe, and
// persistence, reporting progress through batch status updates.
type IngestService struct {
	store  repository.Store
	queue  *Queue
	logger *slog.Logger
	tracer trace.Tracer
}

// NewIngestService creates a new ingestion service.
func NewIngestService(store repository.Store, queue *Queue, logger *slog.Logger) *IngestService {
	return &IngestService{
		store:  store,
		queue:  queue,
		logger: logger,
		tracer: otel.Tracer("ledgerkeep/ingest"),
	}
}

// Start begins background processing with the given worker count.
func (s *IngestService) Start(ctx context.Context, workers int) {
	s.queue.Start(ctx, workers, s.process)
}

// Ingest registers the uploaded file and schedules it for parsing. It
// returns as soon as the batch row exists and the job is enqueued; callers
// poll GetBatch for the outcome. Files whose declared type matches neither
// CSV nor PDF produce an immediately failed batch and no parse attempt.
func (s *IngestService) Ingest(ctx context.Context, userID uuid.UUID, tempPath, mimeType, filename string) (*repository.UploadBatch, error) {
	filetype := detectFiletype(mimeType, filename)

	batch := &repository.UploadBatch{
		ID:       uuid.New(),
		UserID:   userID,
		Filename: filename,
		Filetype: filetype,
		Status:   repository.StatusPending,
	}

	if filetype == "" {
		batch.Filetype = "unknown"
		batch.Status = repository.StatusFailed
		msg := ErrUnsupportedFileType.Error()
		batch.Error = &msg
		if err := s.store.CreateBatch(ctx, batch); err != nil {
			return nil, err
		}
		s.removeTempFile(tempPath)
		observability.BatchesTotal.WithLabelValues(repository.StatusFailed, batch.Filetype).Inc()
		s.logger.Warn("rejected upload with unsupported type",
			"batch_id", batch.ID, "mime_type", mimeType, "filename", filename)
		return batch, nil
	}

	if err := s.store.CreateBatch(ctx, batch); err != nil {
		s.removeTempFile(tempPath)
		return nil, err
	}

	job := ParseJob{
		BatchID:  batch.ID,
		UserID:   userID,
		Path:     tempPath,
		Filetype: filetype,
		Filename: filename,
	}
	if err := s.queue.Publish(ctx, job); err != nil {
		msg := err.Error()
		if updErr := s.store.UpdateBatchStatus(ctx, batch.ID, repository.StatusFailed, 0, &msg); updErr != nil {
			s.logger.Error("failed to fail unqueued batch", "batch_id", batch.ID, "error", updErr)
		}
		s.removeTempFile(tempPath)
		return nil, fmt.Errorf("failed to enqueue parse job: %w", err)
	}

	return batch, nil
}

// GetBatch returns the batch record for status polling, or nil if unknown.
func (s *IngestService) GetBatch(ctx context.Context, id uuid.UUID) (*repository.UploadBatch, error) {
	return s.store.GetBatch(ctx, id)
}

// process drives one job to a terminal state. The temporary upload file is
// removed on every terminal transition, success or failure.
func (s *IngestService) process(ctx context.Context, job ParseJob) {
	ctx, span := s.tracer.Start(ctx, "ingest.process", trace.WithAttributes(
		attribute.String("batch.id", job.BatchID.String()),
		attribute.String("batch.filetype", job.Filetype),
	))
	defer span.End()
	defer s.removeTempFile(job.Path)

	if err := s.store.UpdateBatchStatus(ctx, job.BatchID, repository.StatusProcessing, 0, nil); err != nil {
		s.logger.Error("failed to mark batch processing", "batch_id", job.BatchID, "error", err)
	}

	count, err := s.runPipeline(ctx, job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		msg := err.Error()
		if updErr := s.store.UpdateBatchStatus(ctx, job.BatchID, repository.StatusFailed, 0, &msg); updErr != nil {
			s.logger.Error("failed to mark batch failed", "batch_id", job.BatchID, "error", updErr)
		}
		observability.BatchesTotal.WithLabelValues(repository.StatusFailed, job.Filetype).Inc()
		s.logger.Error("ingestion failed", "batch_id", job.BatchID, "filename", job.Filename, "error", err)
		return
	}

	span.SetStatus(codes.Ok, "completed")
	if err := s.store.UpdateBatchStatus(ctx, job.BatchID, repository.StatusCompleted, count, nil); err != nil {
		s.logger.Error("failed to mark batch completed", "batch_id", job.BatchID, "error", err)
		return
	}
	observability.BatchesTotal.WithLabelValues(repository.StatusCompleted, job.Filetype).Inc()
	s.logger.Info("ingestion completed", "batch_id", job.BatchID, "filename", job.Filename, "transactions", count)
}

// runPipeline parses, deduplicates, stamps, and persists one statement.
func (s *IngestService) runPipeline(ctx context.Context, job ParseJob) (int, error) {
	start := time.Now()

	data, err := os.ReadFile(job.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", parser.ErrStreamRead, err)
	}

	var txs []repository.Transaction
	switch job.Filetype {
	case repository.FileKindCSV:
		txs, err = parser.ParseCSV(bytes.NewReader(data), s.logger)
	case repository.FileKindPDF:
		txs, err = parser.ParsePDF(data, s.logger)
	default:
		return 0, ErrUnsupportedFileType
	}
	if err != nil {
		return 0, err
	}
	observability.ParseDuration.WithLabelValues(job.Filetype).Observe(time.Since(start).Seconds())

	txs = parser.Dedupe(txs)
	for i := range txs {
		txs[i].UserID = job.UserID
		txs[i].UploadID = job.BatchID
	}

	count, err := s.store.SaveTransactions(ctx, txs)
	if err != nil {
		return 0, err
	}
	observability.TransactionsIngested.Add(float64(count))

	return count, nil
}

func (s *IngestService) removeTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove temp upload", "path", path, "error", err)
	}
}

// detectFiletype resolves the declared MIME type or filename extension to a
// supported file kind. Empty string means unsupported.
func detectFiletype(mimeType, filename string) string {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch mime {
	case "text/csv", "application/csv":
		return repository.FileKindCSV
	case "application/pdf":
		return repository.FileKindPDF
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return repository.FileKindCSV
	case ".pdf":
		return repository.FileKindPDF
	}

	return ""
}
