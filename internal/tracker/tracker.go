// Package tracker implements the operations that mutate and query one
// user's financial record.
//
// Every mutating operation appends at least one notification and then saves
// the whole record through the Store before returning, so each change is
// durable before the next one starts. A failed save is returned to the
// caller but the in-memory change is kept.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/currency"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/tax"
)

// Validation errors. None of them leave a trace in the record.
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrEmptyCategoryName     = errors.New("category name is empty")
	ErrUnknownAction         = errors.New("unknown category action")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrZeroAmount            = errors.New("investment amount is zero")
)

// ErrNotSaved wraps store failures. The in-memory change it reports on was
// still applied.
var ErrNotSaved = errors.New("record not saved")

// Store is the persistence the tracker needs.
type Store interface {
	Load(ctx context.Context, username string) (*model.Record, error)
	Save(ctx context.Context, username string, rec *model.Record) error
}

// Service binds one user's record to a store.
type Service struct {
	username  string
	record    *model.Record
	store     Store
	converter *currency.Converter
	schedule  tax.Schedule
	flat      tax.FlatCalculator
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithConverter replaces the default currency table.
func WithConverter(c *currency.Converter) Option {
	return func(s *Service) { s.converter = c }
}

// WithSchedule replaces the default bracket schedule.
func WithSchedule(schedule tax.Schedule) Option {
	return func(s *Service) { s.schedule = schedule }
}

// WithFlatRate sets the flat tax percentage.
func WithFlatRate(percent float64) Option {
	return func(s *Service) { s.flat = tax.FlatCalculator{RatePercent: percent} }
}

// New wraps an already loaded record. A nil record starts empty.
func New(username string, rec *model.Record, store Store, opts ...Option) *Service {
	if rec == nil {
		rec = model.NewRecord()
	}
	rec.Normalize()

	s := &Service{
		username:  username,
		record:    rec,
		store:     store,
		converter: currency.Default(),
		schedule:  tax.DefaultSchedule,
		flat:      tax.FlatCalculator{RatePercent: 15},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the user's record from store and wraps it.
func Open(ctx context.Context, store Store, username string, opts ...Option) (*Service, error) {
	rec, err := store.Load(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading record for %s: %w", username, err)
	}
	for _, p := range Check(rec) {
		slog.WarnContext(ctx, "record inconsistency", "user", username, "problem", p.Error())
	}
	return New(username, rec, store, opts...), nil
}

// Username returns the owner of the record.
func (s *Service) Username() string { return s.username }

// Record returns a copy of the current record.
func (s *Service) Record() *model.Record { return s.record.Clone() }

// Converter returns the currency table in use.
func (s *Service) Converter() *currency.Converter { return s.converter }

// Notify appends a notification and saves the record.
func (s *Service) Notify(ctx context.Context, message string) error {
	s.notify(message)
	return s.persist(ctx)
}

// Notifications returns the activity log, oldest first.
func (s *Service) Notifications() []model.Notification {
	return append([]model.Notification{}, s.record.Notifications...)
}

func (s *Service) notify(message string) {
	s.record.Notifications = append(s.record.Notifications, model.Notification{
		Message:   message,
		Timestamp: s.now(),
	})
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.username, s.record); err != nil {
		slog.ErrorContext(ctx, "saving record failed", "user", s.username, "error", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	slog.DebugContext(ctx, "record saved", "user", s.username,
		"transactions", len(s.record.Transactions),
		"notifications", len(s.record.Notifications))
	return nil
}

// FormatAmount renders an amount with two decimals, e.g. "-42.50".
// NaN and infinities render as "NaN", "+Inf" and "-Inf".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
