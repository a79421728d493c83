package parser

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/extractor"
	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
)

// ErrPDFDecode indicates text extraction from the PDF failed; the whole
// parse fails.
var ErrPDFDecode = errors.New("failed to decode pdf statement")

// Transaction line pattern: <date> <description> <signed amount>.
// Dates are MM/DD/YYYY-like or YYYY-MM-DD; amounts carry an optional sign
// and an optional dollar symbol.
var pdfLinePattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(-?\$?-?\d[\d,]*(?:\.\d+)?)$`,
)

// ParsePDF extracts plain text from a PDF statement and scans it line by
// line for transaction records. Lines that do not match the transaction
// pattern are skipped; a failure to extract text aborts the parse.
func ParsePDF(data []byte, logger *slog.Logger) ([]repository.Transaction, error) {
	text, err := extractText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFDecode, err)
	}
	return parseStatementText(text, logger), nil
}

// extractText pulls the plain text out of a PDF document.
// The reader panics on some malformed cross-reference tables, so extraction
// is isolated behind a recover.
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// parseStatementText scans extracted statement text for transaction lines.
func parseStatementText(text string, logger *slog.Logger) []repository.Transaction {
	var txs []repository.Transaction

	for _, line := range strings.Split(text, "\n") {
		match := pdfLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}

		// No type column in PDF statements; the sign comes from the
		// amount token itself.
		fields := extractor.Fields{
			Date:        match[1],
			Description: match[2],
			Amount:      match[3],
		}
		tx, err := buildTransaction(fields, "", repository.FileKindPDF)
		if err != nil {
			logger.Warn("skipping pdf line", "error", err)
			continue
		}
		txs = append(txs, tx)
	}

	return txs
}
