package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// AddRecurringExpense records a repeating cost due intervalDays from now.
// Due expenses are never turned into transactions.
func (s *Service) AddRecurringExpense(ctx context.Context, amount float64, intervalDays int, description string) (model.RecurringExpense, error) {
	exp := model.RecurringExpense{
		Amount:       amount,
		IntervalDays: intervalDays,
		Description:  description,
		NextDueDate:  s.now().AddDate(0, 0, intervalDays),
	}
	s.record.RecurringExpenses = append(s.record.RecurringExpenses, exp)
	s.notify(fmt.Sprintf("Recurring expense '%s' added: %s every %d days, next due %s",
		description, FormatAmount(amount), intervalDays, exp.NextDueDate.Format("2006-01-02")))
	return exp, s.persist(ctx)
}

// RecurringExpenses returns every recurring expense in insertion order.
func (s *Service) RecurringExpenses() []model.RecurringExpense {
	return append([]model.RecurringExpense{}, s.record.RecurringExpenses...)
}

// DueRecurringExpenses lists the expenses whose due date is at or before at.
func (s *Service) DueRecurringExpenses(at time.Time) []model.RecurringExpense {
	var due []model.RecurringExpense
	for _, e := range s.record.RecurringExpenses {
		if e.IsDue(at) {
			due = append(due, e)
		}
	}
	return due
}
