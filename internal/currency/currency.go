// Package currency converts amounts with a fixed rate table.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedCurrency is returned for codes missing from the rate table.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// DefaultBase is the currency every rate is expressed in.
const DefaultBase = "BDT"

// DefaultRates maps a currency to the number of base units per one unit of it.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"USD": 95,
		"EUR": 110,
		"INR": 1.3,
	}
}

// Converter converts between the base currency and the table's currencies.
type Converter struct {
	base  string
	rates map[string]float64
}

// NewConverter builds a Converter. Codes are normalized to upper case.
func NewConverter(base string, rates map[string]float64) *Converter {
	c := &Converter{base: normalize(base), rates: make(map[string]float64, len(rates))}
	for code, rate := range rates {
		c.rates[normalize(code)] = rate
	}
	return c
}

// Default returns a Converter over DefaultRates.
func Default() *Converter {
	return NewConverter(DefaultBase, DefaultRates())
}

// Base returns the base currency code.
func (c *Converter) Base() string { return c.base }

// Codes returns the convertible currency codes in sorted order, base excluded.
func (c *Converter) Codes() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FromBase converts an amount in the base currency into to.
func (c *Converter) FromBase(amount float64, to string) (float64, error) {
	rate, ok := c.rates[normalize(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, strings.TrimSpace(to))
	}
	return amount / rate, nil
}

// Convert converts amount between any two known currencies, going through
// the base. The base itself has an implicit rate of 1.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	fromRate, err := c.rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := c.rate(to)
	if err != nil {
		return 0, err
	}
	if normalize(from) == normalize(to) {
		return amount, nil
	}
	return amount * fromRate / toRate, nil
}

func (c *Converter) rate(code string) (float64, error) {
	code = normalize(code)
	if code == c.base {
		return 1, nil
	}
	rate, ok := c.rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return rate, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
