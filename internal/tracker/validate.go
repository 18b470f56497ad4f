package tracker

import (
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Problem describes one inconsistency found in a stored record.
type Problem struct {
	Subject     string // transaction ID or recurring expense description
	Description string
}

func (p Problem) Error() string {
	return fmt.Sprintf("[%s]: %s", p.Subject, p.Description)
}

// Check inspects a record for data the operations would never produce,
// typically from hand edits or imports of foreign files. It never modifies
// the record.
func Check(rec *model.Record) []Problem {
	var problems []Problem

	seen := make(map[string]bool)
	for _, t := range rec.Transactions {
		y, m, _, err := id.ParseTransactionID(t.ID)
		if err != nil {
			problems = append(problems, Problem{Subject: t.ID, Description: err.Error()})
			continue
		}

		if seen[t.ID] {
			problems = append(problems, Problem{Subject: t.ID, Description: "duplicate transaction ID"})
		}
		seen[t.ID] = true

		if t.Timestamp.Year() != y || int(t.Timestamp.Month()) != m {
			problems = append(problems, Problem{
				Subject:     t.ID,
				Description: fmt.Sprintf("timestamp %s not in %04d-%02d", t.Timestamp.Format("2006-01-02"), y, m),
			})
		}
	}

	for _, e := range rec.RecurringExpenses {
		if e.IntervalDays <= 0 {
			problems = append(problems, Problem{
				Subject:     e.Description,
				Description: fmt.Sprintf("recurring interval must be positive, got %d days", e.IntervalDays),
			})
		}
	}

	return problems
}
