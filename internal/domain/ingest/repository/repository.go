// Package repository provides data access for ingestion-related entities.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Batch lifecycle states. Completed and Failed are terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Statement file kinds accepted by the pipeline.
const (
	FileKindCSV = "csv"
	FileKindPDF = "pdf"
)

// Transaction is a normalized statement record produced by the pipeline.
// Amount is signed: negative for expenses, non-negative for income.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Merchant    string
	Amount      float64
	Category    string
	Type        string // "income" iff Amount >= 0
	IsRecurring bool
	Source      string
	UploadID    uuid.UUID
}

// transactionJSON carries the wire representation; Date is rendered as a
// plain calendar date rather than RFC 3339.
type transactionJSON struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	IsRecurring bool      `json:"isRecurring"`
	Merchant    string    `json:"merchant"`
	UploadID    uuid.UUID `json:"uploadId"`
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return marshalTransaction(t)
}

// UploadBatch tracks one statement upload through the ingestion pipeline.
type UploadBatch struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"-"`
	Filename         string    `json:"filename"`
	Filetype         string    `json:"filetype"`
	Status           string    `json:"status"`
	TransactionCount int       `json:"transactionCount"`
	Error            *string   `json:"error,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Filter narrows transaction listings.
type Filter struct {
	UserID   uuid.UUID
	UploadID *uuid.UUID
	Category string
	Type     string
	From     *time.Time
	To       *time.Time
}

// Store defines the persistence operations consumed by the ingestion
// pipeline and the read endpoints.
type Store interface {
	CreateBatch(ctx context.Context, batch *UploadBatch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*UploadBatch, error)
	// UpdateBatchStatus atomically updates status, count, and diagnostic.
	UpdateBatchStatus(ctx context.Context, id uuid.UUID, status string, count int, errMsg *string) error

	SaveTransactions(ctx context.Context, txs []Transaction) (int, error)
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}
