package parser

import (
	"strconv"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/ingest/repository"
)

// Dedupe removes transactions sharing the same (date, description, amount)
// signature. The first occurrence wins and relative order is preserved.
func Dedupe(txs []repository.Transaction) []repository.Transaction {
	seen := make(map[string]struct{}, len(txs))
	out := make([]repository.Transaction, 0, len(txs))

	for _, tx := range txs {
		key := tx.Date.Format("2006-01-02") + "|" + tx.Description + "|" +
			strconv.FormatFloat(tx.Amount, 'f', -1, 64)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}

	return out
}
