package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// AddTransaction records a transaction stamped with the current time.
func (s *Service) AddTransaction(ctx context.Context, amount float64, category, description string) (model.Transaction, error) {
	return s.AddTransactionAt(ctx, s.now(), amount, category, description)
}

// AddTransactionAt records a transaction with an explicit timestamp. An
// unseen category is created on the fly. The amount is taken as given.
func (s *Service) AddTransactionAt(ctx context.Context, at time.Time, amount float64, category, description string) (model.Transaction, error) {
	if !s.record.HasCategory(category) {
		s.record.Categories[category] = []string{}
		s.notify(fmt.Sprintf("Category added automatically: '%s'", category))
	}

	ids := make([]string, len(s.record.Transactions))
	for i, t := range s.record.Transactions {
		ids[i] = t.ID
	}

	txn := model.Transaction{
		ID:          id.Next(ids, at),
		Amount:      amount,
		Category:    category,
		Description: description,
		Timestamp:   at,
	}
	s.record.Transactions = append(s.record.Transactions, txn)
	s.notify(fmt.Sprintf("Transaction added: %s in category '%s' (%s)", FormatAmount(amount), category, description))

	return txn, s.persist(ctx)
}

// Transactions returns every transaction in insertion order.
func (s *Service) Transactions() []model.Transaction {
	return append([]model.Transaction{}, s.record.Transactions...)
}

// TransactionsByCategory returns the transactions filed under name.
func (s *Service) TransactionsByCategory(name string) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.record.Transactions {
		if t.Category == name {
			out = append(out, t)
		}
	}
	return out
}

// Summary aggregates the transaction history.
type Summary struct {
	Count         int
	TotalIncome   float64 // sum of positive amounts
	TotalExpenses float64 // sum of negative amounts, so <= 0
	Net           float64
	Average       float64
}

// Summary computes totals over every transaction.
func (s *Service) Summary() Summary {
	var sum Summary
	for _, t := range s.record.Transactions {
		sum.Count++
		switch {
		case t.Amount > 0:
			sum.TotalIncome += t.Amount
		case t.Amount < 0:
			sum.TotalExpenses += t.Amount
		}
	}
	sum.Net = sum.TotalIncome + sum.TotalExpenses
	if sum.Count > 0 {
		sum.Average = sum.Net / float64(sum.Count)
	}
	return sum
}
