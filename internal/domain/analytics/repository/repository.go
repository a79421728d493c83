// Package repository computes spending aggregates over stored transactions.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Summary is the all-time rollup for one owner. TotalExpenses is reported
// as a positive magnitude even though expense amounts are stored negative.
type Summary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Net              float64 `json:"net"`
	TransactionCount int     `json:"transactionCount"`
}

// MonthlyBreakdown aggregates one calendar month, keyed as "2006-01".
type MonthlyBreakdown struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Querier is the subset of pgxpool.Pool used by the analytics queries.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// PostgresRepository runs analytics aggregates against PostgreSQL.
type PostgresRepository struct {
	pgpool Querier
}

// NewPostgresRepository creates a new analytics repository.
func NewPostgresRepository(pgpool Querier) *PostgresRepository {
	return &PostgresRepository{pgpool: pgpool}
}

const summaryQuery = `
	SELECT
		COALESCE(SUM(amount) FILTER (WHERE amount >= 0), 0),
		COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0),
		COALESCE(SUM(amount), 0),
		COUNT(*)
	FROM transactions WHERE user_id = $1
`

// GetSummary returns the owner's all-time income, expense, and net totals.
func (r *PostgresRepository) GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	var s Summary
	err := r.pgpool.QueryRow(ctx, summaryQuery, userID).Scan(
		&s.TotalIncome, &s.TotalExpenses, &s.Net, &s.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	return &s, nil
}

const monthlyQuery = `
	SELECT
		to_char(posted_at, 'YYYY-MM'),
		COALESCE(SUM(amount) FILTER (WHERE amount >= 0), 0),
		COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0),
		COALESCE(SUM(amount), 0)
	FROM transactions WHERE user_id = $1
	GROUP BY 1 ORDER BY 1
`

// GetMonthly returns per-month totals in chronological order.
func (r *PostgresRepository) GetMonthly(ctx context.Context, userID uuid.UUID) ([]MonthlyBreakdown, error) {
	rows, err := r.pgpool.Query(ctx, monthlyQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly breakdown: %w", err)
	}
	defer rows.Close()

	var months []MonthlyBreakdown
	for rows.Next() {
		var m MonthlyBreakdown
		if err := rows.Scan(&m.Month, &m.Income, &m.Expenses, &m.Net); err != nil {
			return nil, fmt.Errorf("failed to scan monthly breakdown: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read monthly breakdown: %w", err)
	}

	return months, nil
}

const categoriesQuery = `
	SELECT category, -SUM(amount), COUNT(*)
	FROM transactions WHERE user_id = $1 AND amount < 0
	GROUP BY category ORDER BY 2 DESC
`

// GetCategoryTotals returns expense totals per category, biggest spender first.
func (r *PostgresRepository) GetCategoryTotals(ctx context.Context, userID uuid.UUID) ([]CategoryTotal, error) {
	rows, err := r.pgpool.Query(ctx, categoriesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category totals: %w", err)
	}

	return totals, nil
}
