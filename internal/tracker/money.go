package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CalculateTax applies the bracket schedule to income and logs the result.
// Negative income is not rejected; it simply owes nothing.
func (s *Service) CalculateTax(ctx context.Context, income float64) (float64, error) {
	owed := s.schedule.Calculate(income)
	s.notify(fmt.Sprintf("Tax calculated: %s for income %s", FormatAmount(owed), FormatAmount(income)))
	return owed, s.persist(ctx)
}

// CalculateFlatTax applies the flat percentage to amount. Unlike
// CalculateTax it fails hard on a negative amount, after logging the failure.
func (s *Service) CalculateFlatTax(ctx context.Context, amount float64) (float64, error) {
	owed, err := s.flat.Calculate(amount)
	if err != nil {
		s.notify("Error: Tax calculation failed. Negative amount provided.")
		if perr := s.persist(ctx); perr != nil {
			return 0, errors.Join(err, perr)
		}
		return 0, err
	}
	s.notify(fmt.Sprintf("Flat tax calculated: %s for amount %s", FormatAmount(owed), FormatAmount(amount)))
	return owed, s.persist(ctx)
}

// ConvertCurrency converts an amount in the base currency into to. An
// unsupported currency returns an error and leaves the record untouched.
func (s *Service) ConvertCurrency(ctx context.Context, amount float64, to string) (float64, error) {
	converted, err := s.converter.FromBase(amount, to)
	if err != nil {
		return 0, err
	}
	s.notify(fmt.Sprintf("Converted %s %s to %s %s",
		FormatAmount(amount), s.converter.Base(), FormatAmount(converted), strings.ToUpper(strings.TrimSpace(to))))
	return converted, s.persist(ctx)
}
