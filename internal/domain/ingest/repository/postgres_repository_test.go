package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresStore_CreateBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(createBatchQuery)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "statement.csv", FileKindCSV, StatusPending, 0).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	store := NewPostgresStore(mock)
	batch := &UploadBatch{
		UserID:   uuid.New(),
		Filename: "statement.csv",
		Filetype: FileKindCSV,
		Status:   StatusPending,
	}
	if err := store.CreateBatch(context.Background(), batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if batch.ID == uuid.Nil {
		t.Fatal("expected generated batch id")
	}
	if !batch.CreatedAt.Equal(now) {
		t.Fatalf("created_at not populated: %v", batch.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_GetBatch_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getBatchQuery)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	store := NewPostgresStore(mock)
	batch, err := store.GetBatch(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if batch != nil {
		t.Fatalf("expected nil batch, got %+v", batch)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_UpdateBatchStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	errMsg := "pdf decode failed"
	mock.ExpectExec(regexp.QuoteMeta(updateBatchStatusQuery)).
		WithArgs(id, StatusFailed, 0, &errMsg).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	store := NewPostgresStore(mock)
	if err := store.UpdateBatchStatus(context.Background(), id, StatusFailed, 0, &errMsg); err != nil {
		t.Fatalf("UpdateBatchStatus: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_SaveTransactions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"transactions"}, []string{
		"id", "user_id", "posted_at", "description", "merchant", "amount",
		"category", "tx_type", "is_recurring", "source", "upload_id",
	}).WillReturnResult(2)

	store := NewPostgresStore(mock)
	txs := []Transaction{
		{ID: uuid.New(), Description: "Starbucks Coffee", Amount: -4.50},
		{ID: uuid.New(), Description: "Payroll", Amount: 2500},
	}
	count, err := store.SaveTransactions(context.Background(), txs)
	if err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 inserted, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_SaveTransactions_Empty(t *testing.T) {
	store := NewPostgresStore(nil)
	count, err := store.SaveTransactions(context.Background(), nil)
	if err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 inserted, got %d", count)
	}
}

func TestPostgresStore_ListTransactions_Filtered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	userID := uuid.New()
	uploadID := uuid.New()
	txID := uuid.New()
	posted := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "posted_at", "description", "merchant", "amount",
		"category", "tx_type", "is_recurring", "source", "upload_id",
	}).AddRow(txID, userID, posted, "Starbucks Coffee", "Starbucks Coffee", -4.50,
		"Food & Dining", "expense", false, "csv", uploadID)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE user_id = \\$1 AND upload_id = \\$2 AND category = \\$3").
		WithArgs(userID, uploadID, "Food & Dining").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	txs, err := store.ListTransactions(context.Background(), Filter{
		UserID:   userID,
		UploadID: &uploadID,
		Category: "Food & Dining",
	})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].ID != txID || txs[0].Amount != -4.50 {
		t.Fatalf("unexpected transaction: %+v", txs[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(deleteAllQuery)).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	store := NewPostgresStore(mock)
	if err := store.DeleteAll(context.Background(), userID); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
