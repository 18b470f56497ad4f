package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// AddInvestment records an investment stamped with the current time.
func (s *Service) AddInvestment(ctx context.Context, amount float64, description string) (model.Investment, error) {
	inv := model.Investment{
		Amount:      amount,
		Description: description,
		Timestamp:   s.now(),
	}
	s.record.Investments = append(s.record.Investments, inv)
	s.notify(fmt.Sprintf("Investment added: %s (%s)", FormatAmount(amount), description))
	return inv, s.persist(ctx)
}

// Investments returns every investment in insertion order.
func (s *Service) Investments() []model.Investment {
	return append([]model.Investment{}, s.record.Investments...)
}

// ROI returns returns as a percentage of amount.
func ROI(amount, returns float64) (float64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	return returns / amount * 100, nil
}

// CompoundValue returns principal grown at ratePercent per year for years.
func CompoundValue(principal, ratePercent float64, years int) float64 {
	return principal * math.Pow(1+ratePercent/100, float64(years))
}
