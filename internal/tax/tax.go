// Package tax computes income tax over a progressive bracket schedule and a
// flat percentage tax.
package tax

import (
	"errors"
	"math"
)

// ErrNegativeAmount is returned by the flat calculator for amounts below zero.
var ErrNegativeAmount = errors.New("amount cannot be negative")

// Bracket taxes the slice of income in (Lower, Upper] at Rate.
// Upper == 0 means the bracket is unbounded.
type Bracket struct {
	Lower float64
	Upper float64
	Rate  float64
}

// Schedule is a progressive schedule; brackets must be ordered and contiguous.
type Schedule []Bracket

// DefaultSchedule is the four-bracket schedule:
//
//	income <= 300000            -> 0
//	300000 < income <= 700000   -> (income-300000) * 10%
//	700000 < income <= 3000000  -> 40000 + (income-700000) * 15%
//	income > 3000000            -> 385000 + (income-3000000) * 25%
var DefaultSchedule = Schedule{
	{Lower: 0, Upper: 300000, Rate: 0},
	{Lower: 300000, Upper: 700000, Rate: 0.10},
	{Lower: 700000, Upper: 3000000, Rate: 0.15},
	{Lower: 3000000, Upper: 0, Rate: 0.25},
}

// Calculate returns the tax owed on income. Income at or below the first
// bracket's upper bound, including negative income, owes nothing.
func (s Schedule) Calculate(income float64) float64 {
	var total float64
	for _, b := range s {
		if income <= b.Lower {
			break
		}
		top := income
		if b.Upper > 0 {
			top = math.Min(income, b.Upper)
		}
		total += (top - b.Lower) * b.Rate
	}
	return total
}

// FlatCalculator charges a fixed percentage.
type FlatCalculator struct {
	RatePercent float64
}

// Calculate returns amount * rate / 100. Negative amounts are rejected.
func (c FlatCalculator) Calculate(amount float64) (float64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	return amount * c.RatePercent / 100, nil
}
