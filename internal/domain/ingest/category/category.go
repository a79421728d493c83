// Package category assigns spending categories and recurrence flags to
// transaction descriptions using ordered keyword rules.
package category

import "strings"

// Category labels. Every description maps to exactly one of these.
const (
	FoodDining     = "Food & Dining"
	Shopping       = "Shopping"
	Entertainment  = "Entertainment"
	Transportation = "Transportation"
	HealthFitness  = "Health & Fitness"
	BillsUtilities = "Bills & Utilities"
	Housing        = "Housing"
	Income         = "Income"
	BankingFees    = "Banking & Fees"
	Other          = "Other"
)

type rule struct {
	name     string
	keywords []string
}

// Rules are evaluated top to bottom; the first match wins. The order is the
// tie-break when a description matches several keyword groups ("Amazon Prime"
// hits both Shopping and Entertainment; Shopping is checked first).
var rules = []rule{
	{FoodDining, []string{"starbucks", "coffee", "cafe", "grocery", "food", "restaurant", "dining"}},
	{Shopping, []string{"amazon", "shopping", "target", "walmart"}},
	{Entertainment, []string{"netflix", "spotify", "subscription", "prime"}},
	{Transportation, []string{"gas", "fuel", "uber", "lyft", "transport"}},
	{HealthFitness, []string{"gym", "fitness", "health", "pharmacy"}},
	{BillsUtilities, []string{"utility", "electric", "water", "internet"}},
	{Housing, []string{"rent", "mortgage", "home"}},
	{Income, []string{"salary", "deposit", "income", "payroll"}},
	{BankingFees, []string{"bank", "fee", "charge"}},
}

// Categorize maps a free-text description to a category label.
// Descriptions that match no rule fall back to Other.
func Categorize(description string) string {
	text := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.name
			}
		}
	}
	return Other
}

// Keywords that mark a transaction as likely recurring.
var recurringKeywords = []string{
	"subscription", "netflix", "spotify", "gym", "membership",
	"monthly", "rent", "utility", "insurance",
}

// IsRecurring reports whether a description looks like a recurring charge.
func IsRecurring(description string) bool {
	text := strings.ToLower(description)
	for _, kw := range recurringKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// All returns the fixed category label set in rule order, ending with Other.
func All() []string {
	labels := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		labels = append(labels, r.name)
	}
	return append(labels, Other)
}
