// Package normalizer handles amount and date parsing for bank statements.
// It converts the raw tokens found in CSV cells and PDF lines into the
// canonical signed-amount / calendar-date representation used downstream.
package normalizer

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidAmount = errors.New("invalid amount format")
	ErrInvalidDate   = errors.New("invalid date format")
)

// Transaction-type hints that force the sign of a parsed amount.
var (
	debitHints  = []string{"debit", "withdrawal"}
	creditHints = []string{"credit", "deposit"}
)

// ParseAmount converts a raw amount token into a signed float.
// Currency symbols and thousands separators are stripped before parsing.
// A type hint of DEBIT/WITHDRAWAL forces the sign negative, CREDIT/DEPOSIT
// forces it positive; any other hint leaves the parsed sign untouched.
func ParseAmount(raw string, typeHint string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, ErrInvalidAmount
	}

	hint := strings.ToLower(strings.TrimSpace(typeHint))
	for _, h := range debitHints {
		if strings.Contains(hint, h) {
			return -math.Abs(val), nil
		}
	}
	for _, h := range creditHints {
		if strings.Contains(hint, h) {
			return math.Abs(val), nil
		}
	}

	return val, nil
}

// Date formats commonly seen in bank statement exports, tried in order.
var dateFormats = []string{
	// ISO (YYYY-MM-DD)
	"2006-01-02",
	"2006/01/02",

	// American (MM/DD/YYYY variants)
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",

	// European (DD-MM-YYYY variants)
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",

	// With time
	"2006-01-02 15:04:05",
	"01/02/2006 15:04",
}

// ParseDate attempts to parse a statement date using the known formats.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, raw, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

var spacePattern = regexp.MustCompile(`\s+`)

// CleanDescription normalizes merchant/description text.
func CleanDescription(raw string) string {
	result := strings.TrimSpace(raw)
	result = spacePattern.ReplaceAllString(result, " ")
	return result
}
