package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Brackets(t *testing.T) {
	tests := []struct {
		income float64
		want   float64
	}{
		{-5000, 0},
		{0, 0},
		{150000, 0},
		{300000, 0},
		{300001, 0.1},
		{500000, 20000},
		{700000, 40000},
		{1000000, 40000 + 45000},
		{3000000, 40000 + 345000},
		{4000000, 40000 + 345000 + 250000},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DefaultSchedule.Calculate(tt.income), 0.0001, "income %v", tt.income)
	}
}

// Closed forms per bracket, checked against the schedule walk.
func closedForm(income float64) float64 {
	switch {
	case income <= 300000:
		return 0
	case income <= 700000:
		return (income - 300000) * 0.10
	case income <= 3000000:
		return 40000 + (income-700000)*0.15
	default:
		return 40000 + 345000 + (income-3000000)*0.25
	}
}

func TestCalculate_MatchesClosedForm(t *testing.T) {
	for income := -100000.0; income <= 5000000; income += 12345.67 {
		assert.InDelta(t, closedForm(income), DefaultSchedule.Calculate(income), 0.001, "income %v", income)
	}
}

func TestCalculate_NonDecreasingAcrossBoundaries(t *testing.T) {
	for _, boundary := range []float64{300000, 700000, 3000000} {
		below := DefaultSchedule.Calculate(boundary - 0.01)
		at := DefaultSchedule.Calculate(boundary)
		above := DefaultSchedule.Calculate(boundary + 0.01)
		assert.LessOrEqual(t, below, at)
		assert.LessOrEqual(t, at, above)
		assert.InDelta(t, at, above, 0.01, "continuous at %v", boundary)
	}
}

func TestCustomSchedule(t *testing.T) {
	s := Schedule{
		{Lower: 0, Upper: 100, Rate: 0},
		{Lower: 100, Upper: 0, Rate: 0.5},
	}
	assert.InDelta(t, 0, s.Calculate(100), 0.0001)
	assert.InDelta(t, 50, s.Calculate(200), 0.0001)
}

func TestFlatCalculator(t *testing.T) {
	c := FlatCalculator{RatePercent: 15}

	got, err := c.Calculate(1000)
	require.NoError(t, err)
	assert.InDelta(t, 150, got, 0.0001)

	got, err = c.Calculate(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 0.0001)

	_, err = c.Calculate(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}
