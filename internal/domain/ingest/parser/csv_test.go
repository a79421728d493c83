package parser

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseCSV_SingleDebitRow(t *testing.T) {
	data := strings.Join([]string{
		"Date,Description,Amount,Type",
		"2024-01-05,Starbucks Coffee,4.50,DEBIT",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if got := tx.Date.Format("2006-01-02"); got != "2024-01-05" {
		t.Errorf("date = %s, want 2024-01-05", got)
	}
	if tx.Description != "Starbucks Coffee" {
		t.Errorf("description = %q", tx.Description)
	}
	if tx.Amount != -4.50 {
		t.Errorf("amount = %v, want -4.50", tx.Amount)
	}
	if tx.Category != "Food & Dining" {
		t.Errorf("category = %q, want Food & Dining", tx.Category)
	}
	if tx.Type != "expense" {
		t.Errorf("type = %q, want expense", tx.Type)
	}
	if tx.IsRecurring {
		t.Error("expected isRecurring=false")
	}
	if tx.Source != "csv" {
		t.Errorf("source = %q, want csv", tx.Source)
	}
	if tx.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected generated id")
	}
}

func TestParseCSV_RecurringSubscription(t *testing.T) {
	data := strings.Join([]string{
		"Date,Description,Amount,Type",
		"2024-02-01,Monthly Netflix Subscription,15.99,DEBIT",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Category != "Entertainment" {
		t.Errorf("category = %q, want Entertainment", txs[0].Category)
	}
	if !txs[0].IsRecurring {
		t.Error("expected isRecurring=true")
	}
	if txs[0].Amount != -15.99 {
		t.Errorf("amount = %v, want -15.99", txs[0].Amount)
	}
}

func TestParseCSV_DebitHintForcesNegative(t *testing.T) {
	// The raw sign is irrelevant when the type column says DEBIT.
	data := strings.Join([]string{
		"Date,Description,Amount,Type",
		"2024-01-05,Coffee,4.50,DEBIT",
		"2024-01-06,More Coffee,-4.50,DEBIT",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	for _, tx := range txs {
		if tx.Amount >= 0 {
			t.Errorf("%s: amount = %v, want negative", tx.Description, tx.Amount)
		}
	}
}

func TestParseCSV_TypeFollowsSign(t *testing.T) {
	data := strings.Join([]string{
		"Date,Description,Amount",
		"2024-01-05,Payroll Deposit,2500.00",
		"2024-01-06,Groceries,-82.15",
		"2024-01-07,Zero Adjustment,0.00",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		wantType := "income"
		if tx.Amount < 0 {
			wantType = "expense"
		}
		if tx.Type != wantType {
			t.Errorf("%s: type = %q, want %q (amount %v)", tx.Description, tx.Type, wantType, tx.Amount)
		}
	}
}

func TestParseCSV_DiscardsInvalidRows(t *testing.T) {
	data := strings.Join([]string{
		"Date,Description,Amount,Type",
		"not-a-date,Valid Shop,10.00,DEBIT",
		"2024-01-05,,10.00,DEBIT",
		"2024-01-05,   ,10.00,DEBIT",
		"2024-01-05,No Amount,oops,DEBIT",
		"2024-01-06,Survivor,3.25,DEBIT",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 surviving transaction, got %d", len(txs))
	}
	if txs[0].Description != "Survivor" {
		t.Fatalf("unexpected survivor: %+v", txs[0])
	}
}

func TestParseCSV_AlternateHeaders(t *testing.T) {
	data := strings.Join([]string{
		"Transaction Date,Merchant,Value,Transaction Type",
		"01/05/2024,Shell Gas,30.00,WITHDRAWAL",
	}, "\n")

	txs, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Amount != -30.00 {
		t.Errorf("amount = %v, want -30.00", txs[0].Amount)
	}
	if txs[0].Category != "Transportation" {
		t.Errorf("category = %q, want Transportation", txs[0].Category)
	}
}

func TestParseCSV_EmptyFile(t *testing.T) {
	txs, err := ParseCSV(strings.NewReader(""), discardLogger())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txs))
	}
}

type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("disk gone")
}

func TestParseCSV_StreamFault(t *testing.T) {
	r := &failingReader{data: []byte("Date,Description,Amount\n")}
	_, err := ParseCSV(r, discardLogger())
	if !errors.Is(err, ErrStreamRead) {
		t.Fatalf("expected ErrStreamRead, got %v", err)
	}
}

func TestParseCSV_Deterministic(t *testing.T) {
	// Two independent parses of the same file differ only in generated ids.
	data := strings.Join([]string{
		"Date,Description,Amount,Type",
		"2024-01-05,Starbucks Coffee,4.50,DEBIT",
		"2024-01-06,Payroll,2500.00,CREDIT",
	}, "\n")

	first, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseCSV(strings.NewReader(data), discardLogger())
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("parse counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = b.ID, a.ID
		if a.Date != b.Date || a.Description != b.Description || a.Amount != b.Amount ||
			a.Category != b.Category || a.Type != b.Type || a.IsRecurring != b.IsRecurring {
			t.Fatalf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
