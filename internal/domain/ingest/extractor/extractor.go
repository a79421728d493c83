// Package extractor locates transaction fields in a structured statement row.
// Bank exports name the same columns in many ways; the extractor resolves the
// common variants case-insensitively so the parser never has to.
package extractor

import "strings"

// Column-name variants, checked in order. The first present key wins.
var (
	dateKeys        = []string{"date", "transaction date"}
	descriptionKeys = []string{"description", "merchant"}
	amountKeys      = []string{"amount", "value"}
	typeKeys        = []string{"type", "transaction type"}
)

// Fields holds the raw tokens extracted from one statement row.
// Missing columns yield empty strings, never an error.
type Fields struct {
	Date        string
	Description string
	Amount      string
	Type        string
}

// Extract resolves the date/description/amount/type fields from a row.
func Extract(row map[string]string) Fields {
	return Fields{
		Date:        lookup(row, dateKeys),
		Description: lookup(row, descriptionKeys),
		Amount:      lookup(row, amountKeys),
		Type:        lookup(row, typeKeys),
	}
}

// lookup returns the value under the first present key among the variants,
// matching column names case-insensitively.
func lookup(row map[string]string, keys []string) string {
	for _, key := range keys {
		for name, value := range row {
			if strings.EqualFold(strings.TrimSpace(name), key) {
				return value
			}
		}
	}
	return ""
}
