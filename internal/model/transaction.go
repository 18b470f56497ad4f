package model

import "time"

// Transaction is a single dated monetary entry. Positive amounts are income,
// negative amounts are expenses; nothing enforces the convention.
type Transaction struct {
	ID          string    `json:"id,omitempty"` // "YYYY-MM-NNN"
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsIncome reports whether the transaction counts toward goal progress.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}
