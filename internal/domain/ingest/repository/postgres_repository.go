package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pgpool PgxPool
}

// NewPostgresStore creates a new PostgreSQL-backed ingestion store.
func NewPostgresStore(pgpool PgxPool) *PostgresStore {
	return &PostgresStore{pgpool: pgpool}
}

const createBatchQuery = `
	INSERT INTO upload_batches (id, user_id, filename, filetype, status, transaction_count, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING created_at
`

// CreateBatch inserts a new upload batch.
func (s *PostgresStore) CreateBatch(ctx context.Context, batch *UploadBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}

	err := s.pgpool.QueryRow(ctx, createBatchQuery,
		batch.ID, batch.UserID, batch.Filename, batch.Filetype,
		batch.Status, batch.TransactionCount,
	).Scan(&batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create upload batch: %w", err)
	}

	return nil
}

const getBatchQuery = `
	SELECT id, user_id, filename, filetype, status, transaction_count, error_message, created_at
	FROM upload_batches WHERE id = $1
`

// GetBatch retrieves an upload batch by ID. Returns nil when not found.
func (s *PostgresStore) GetBatch(ctx context.Context, id uuid.UUID) (*UploadBatch, error) {
	var batch UploadBatch
	err := s.pgpool.QueryRow(ctx, getBatchQuery, id).Scan(
		&batch.ID, &batch.UserID, &batch.Filename, &batch.Filetype,
		&batch.Status, &batch.TransactionCount, &batch.Error, &batch.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload batch: %w", err)
	}

	return &batch, nil
}

const updateBatchStatusQuery = `
	UPDATE upload_batches SET status = $2, transaction_count = $3, error_message = $4
	WHERE id = $1
`

// UpdateBatchStatus updates status, count, and diagnostic in one statement so
// pollers never observe a torn status/count pair.
func (s *PostgresStore) UpdateBatchStatus(ctx context.Context, id uuid.UUID, status string, count int, errMsg *string) error {
	_, err := s.pgpool.Exec(ctx, updateBatchStatusQuery, id, status, count, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	return nil
}

// SaveTransactions bulk inserts transactions using COPY.
func (s *PostgresStore) SaveTransactions(ctx context.Context, txs []Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	columns := []string{
		"id", "user_id", "posted_at", "description", "merchant", "amount",
		"category", "tx_type", "is_recurring", "source", "upload_id",
	}

	copyCount, err := s.pgpool.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		columns,
		pgx.CopyFromSlice(len(txs), func(i int) ([]any, error) {
			tx := txs[i]
			return []any{
				tx.ID, tx.UserID, tx.Date, tx.Description, tx.Merchant, tx.Amount,
				tx.Category, tx.Type, tx.IsRecurring, tx.Source, tx.UploadID,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert transactions: %w", err)
	}

	return int(copyCount), nil
}

const listTransactionsSelect = `
	SELECT id, user_id, posted_at, description, merchant, amount, category, tx_type, is_recurring, source, upload_id
	FROM transactions
`

// ListTransactions returns transactions matching the filter, newest first.
func (s *PostgresStore) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}

	if filter.UploadID != nil {
		args = append(args, *filter.UploadID)
		conditions = append(conditions, fmt.Sprintf("upload_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("tx_type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("posted_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("posted_at <= $%d", len(args)))
	}

	query := listTransactionsSelect + " WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY posted_at DESC, id"

	rows, err := s.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Merchant, &tx.Amount,
			&tx.Category, &tx.Type, &tx.IsRecurring, &tx.Source, &tx.UploadID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return txs, nil
}

const deleteAllQuery = `DELETE FROM transactions WHERE user_id = $1`

// DeleteAll removes every transaction owned by the given user.
func (s *PostgresStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pgpool.Exec(ctx, deleteAllQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
