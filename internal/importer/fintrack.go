package importer

import (
	"io"

	"github.com/fintrack-dev/fintrack/internal/export"
)

// FintrackParser reads the transactions CSV written by `fintrack export`.
type FintrackParser struct{}

// Format returns the parser name.
func (p *FintrackParser) Format() string { return "fintrack" }

// Parse reads exported transactions. IDs are dropped; the importing record
// assigns its own.
func (p *FintrackParser) Parse(r io.Reader) ([]Row, error) {
	txns, err := export.ReadTransactions(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for _, t := range txns {
		rows = append(rows, Row{
			Date:        t.Timestamp,
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
		})
	}
	return rows, nil
}
