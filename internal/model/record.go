package model

import (
	"sort"
	"time"
)

// Record is one user's complete financial state.
type Record struct {
	Transactions      []Transaction       `json:"transactions"`
	Categories        map[string][]string `json:"categories"`
	Goal              *Goal               `json:"financial_goal,omitempty"`
	RecurringExpenses []RecurringExpense  `json:"recurring_expenses"`
	Investments       []Investment        `json:"investments"`
	Notifications     []Notification      `json:"notifications"`
	PaymentMethods    []string            `json:"payment_methods"`
}

// NewRecord returns an empty record ready for mutation.
func NewRecord() *Record {
	return &Record{
		Transactions:      []Transaction{},
		Categories:        map[string][]string{},
		RecurringExpenses: []RecurringExpense{},
		Investments:       []Investment{},
		Notifications:     []Notification{},
		PaymentMethods:    []string{},
	}
}

// Normalize replaces nil collections with empty ones. Decoders leave
// missing fields nil; callers expect to append and index freely.
func (r *Record) Normalize() {
	if r.Transactions == nil {
		r.Transactions = []Transaction{}
	}
	if r.Categories == nil {
		r.Categories = map[string][]string{}
	}
	for name, marker := range r.Categories {
		if marker == nil {
			r.Categories[name] = []string{}
		}
	}
	if r.RecurringExpenses == nil {
		r.RecurringExpenses = []RecurringExpense{}
	}
	if r.Investments == nil {
		r.Investments = []Investment{}
	}
	if r.Notifications == nil {
		r.Notifications = []Notification{}
	}
	if r.PaymentMethods == nil {
		r.PaymentMethods = []string{}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{
		Transactions:      append([]Transaction{}, r.Transactions...),
		Categories:        make(map[string][]string, len(r.Categories)),
		RecurringExpenses: append([]RecurringExpense{}, r.RecurringExpenses...),
		Investments:       append([]Investment{}, r.Investments...),
		Notifications:     append([]Notification{}, r.Notifications...),
		PaymentMethods:    append([]string{}, r.PaymentMethods...),
	}
	for name, marker := range r.Categories {
		out.Categories[name] = append([]string{}, marker...)
	}
	if r.Goal != nil {
		g := *r.Goal
		out.Goal = &g
	}
	return out
}

// HasCategory reports whether name is a known category. Names are case-sensitive.
func (r *Record) HasCategory(name string) bool {
	_, ok := r.Categories[name]
	return ok
}

// CategoryNames returns the known category names in sorted order.
func (r *Record) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Goal is the single active savings goal.
type Goal struct {
	Target   float64 `json:"goal"`
	Progress float64 `json:"progress"`
}

// RecurringExpense is a template for a repeating cost. NextDueDate is a hint
// only; nothing turns a due expense into a transaction.
type RecurringExpense struct {
	Amount       float64   `json:"amount"`
	IntervalDays int       `json:"interval_days"`
	Description  string    `json:"description"`
	NextDueDate  time.Time `json:"next_due_date"`
}

// IsDue reports whether the expense's due date is at or before t.
func (e RecurringExpense) IsDue(t time.Time) bool {
	return !e.NextDueDate.After(t)
}

// Investment is a recorded amount put into an investment.
type Investment struct {
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notification is one entry in the append-only activity log.
type Notification struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
