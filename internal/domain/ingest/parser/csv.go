// Package parser turns raw statement files into normalized transactions.
// CSV files are streamed row by row; PDF statements are reduced to text and
// scanned with a line pattern. Both paths share the same normalization,
// categorization, and recurrence heuristics.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/category"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/extractor"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/normalizer"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
)

var (
	// ErrStreamRead indicates an I/O failure mid-stream; the whole parse fails.
	ErrStreamRead = errors.New("failed to read statement stream")
	// ErrEmptyDescription marks a candidate with no usable description.
	ErrEmptyDescription = errors.New("empty description")
)

// ParseCSV streams a delimited statement with a header row and returns the
// surviving transactions in file order. Rows with an unparseable date, empty
// description, or invalid amount are logged and skipped, never fatal. Only a
// stream-level read fault aborts the parse.
func ParseCSV(r io.Reader, logger *slog.Logger) ([]repository.Transaction, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamRead, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var txs []repository.Transaction
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("skipping malformed csv row", "line", lineNum, "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStreamRead, err)
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = value
			}
		}

		tx, err := buildTransaction(extractor.Extract(row), "", repository.FileKindCSV)
		if err != nil {
			logger.Warn("skipping csv row", "line", lineNum, "error", err)
			continue
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// buildTransaction runs one extracted candidate through the normalization
// pipeline. signHint overrides the type column when the caller already knows
// the sign convention (the PDF path has no type column).
func buildTransaction(fields extractor.Fields, signHint string, source string) (repository.Transaction, error) {
	date, err := normalizer.ParseDate(fields.Date)
	if err != nil {
		return repository.Transaction{}, err
	}

	description := normalizer.CleanDescription(fields.Description)
	if description == "" {
		return repository.Transaction{}, ErrEmptyDescription
	}

	hint := fields.Type
	if signHint != "" {
		hint = signHint
	}
	amount, err := normalizer.ParseAmount(fields.Amount, hint)
	if err != nil {
		return repository.Transaction{}, err
	}

	txType := "income"
	if amount < 0 {
		txType = "expense"
	}

	return repository.Transaction{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
		Merchant:    description,
		Amount:      amount,
		Category:    category.Categorize(description),
		Type:        txType,
		IsRecurring: category.IsRecurring(description),
		Source:      source,
	}, nil
}
