package repository

import "encoding/json"

func marshalTransaction(t Transaction) ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        t.Type,
		IsRecurring: t.IsRecurring,
		Merchant:    t.Merchant,
		UploadID:    t.UploadID,
	})
}
