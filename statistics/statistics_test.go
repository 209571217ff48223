package statistics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t time.Time, netPnL float64) DayResult {
	return DayResult{
		Date:   t,
		NetPnL: decimal.NewFromFloat(netPnL),
	}
}

func TestCalculateEmpty(t *testing.T) {
	t.Parallel()
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000000)}, nil)
	require.NotNil(t, s)
	assert.Zero(t, s.TotalDays)
	assert.False(t, s.CapitalExhausted)
	assert.True(t, s.TotalNetPnL.IsZero())
}

func TestCalculateSingleDay(t *testing.T) {
	t.Parallel()
	d := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000000)},
		[]DayResult{day(d, 50)})
	require.NotNil(t, s)
	assert.Equal(t, 1, s.TotalDays)
	assert.Equal(t, 1, s.ProfitDays)
	assert.Zero(t, s.LossDays)
	if !s.EndBalance.Equal(decimal.NewFromInt(1000050)) {
		t.Errorf("received %v expected 1000050", s.EndBalance)
	}
	assert.InDelta(t, 0.005, s.TotalReturn, 1e-9)
	// one sample has no deviation, so risk adjusted ratios stay zero
	assert.Zero(t, s.SharpeRatio)
	assert.Zero(t, s.EWMSharpeRatio)
	assert.False(t, s.CapitalExhausted)
}

func TestCalculateDrawdown(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	days := []DayResult{
		day(start, 100),
		day(start.AddDate(0, 0, 1), -60),
		day(start.AddDate(0, 0, 2), -40),
		day(start.AddDate(0, 0, 3), 20),
	}
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000)}, days)
	require.NotNil(t, s)
	// balances 1100, 1040, 1000, 1020; peak 1100, trough 1000
	assert.True(t, s.MaxDrawdown.Equal(decimal.NewFromInt(-100)),
		"received %v expected -100", s.MaxDrawdown)
	assert.InDelta(t, -100.0/1100*100, s.MaxDrawdownPercent, 1e-9)
	assert.Equal(t, 2, s.MaxDrawdownDuration)
	assert.Positive(t, s.ReturnDrawdownRatio)
}

func TestCalculateCapitalExhausted(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	days := []DayResult{
		day(start, 50),
		day(start.AddDate(0, 0, 1), -2000),
		day(start.AddDate(0, 0, 2), 3000),
	}
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000)}, days)
	require.NotNil(t, s)
	assert.True(t, s.CapitalExhausted)
	assert.Zero(t, s.TotalDays)
	assert.Zero(t, s.TotalReturn)
	assert.Zero(t, s.SharpeRatio)
	assert.True(t, s.EndBalance.IsZero())
	assert.True(t, s.TotalNetPnL.IsZero())
}

func TestCalculateIdempotent(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	days := make([]DayResult, 10)
	for i := range days {
		pnl := float64((i%3 - 1) * 25)
		days[i] = day(start.AddDate(0, 0, i), pnl)
	}
	settings := Settings{Capital: decimal.NewFromInt(100000), RiskFree: 0.02}
	first := Calculate(settings, days)
	second := Calculate(settings, days)
	assert.Equal(t, first.Map(), second.Map())
}

func TestCalculateNoNonFinite(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	// flat series, stddev zero, drawdown zero
	days := []DayResult{
		day(start, 0),
		day(start.AddDate(0, 0, 1), 0),
	}
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000)}, days)
	require.NotNil(t, s)
	for k, v := range s.Map() {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("metric %q is not finite: %v", k, f)
		}
	}
	assert.Zero(t, s.SharpeRatio)
	assert.Zero(t, s.ReturnDrawdownRatio)
	assert.Zero(t, s.MaxDrawdownDuration)
}

func TestSummaryTarget(t *testing.T) {
	t.Parallel()
	d := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	s := Calculate(Settings{Capital: decimal.NewFromInt(1000000)},
		[]DayResult{day(d, 50)})
	assert.InDelta(t, 50, s.Target("total_net_pnl"), 1e-9)
	assert.Equal(t, float64(1), s.Target("total_days"))
	assert.Zero(t, s.Target("unknown_metric"))
}
