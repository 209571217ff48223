package optimize

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/engine"
	"github.com/quantfold/ctabacktester/statistics"
	"github.com/quantfold/ctabacktester/strategy"
)

func TestAddParameter(t *testing.T) {
	t.Parallel()
	var s Setting
	require.NoError(t, s.AddParameter("fast-period", 5, 15, 5))
	require.NoError(t, s.AddParameter("fixed-size", 2, 0, 0))

	err := s.AddParameter("fast-period", 1, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	err = s.AddParameter("", 1, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	err = s.AddParameter("bad-step", 1, 2, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	err = s.AddParameter("bad-range", 5, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	var s Setting
	require.NoError(t, s.AddParameter("a", 1, 3, 1))
	require.NoError(t, s.AddParameter("b", 10, 20, 10))
	combos := s.Generate()
	require.Len(t, combos, 6)
	assert.Equal(t, map[string]interface{}{"a": 1.0, "b": 10.0}, combos[0])
	assert.Equal(t, map[string]interface{}{"a": 3.0, "b": 20.0}, combos[5])

	var empty Setting
	assert.Nil(t, empty.Generate())
}

func TestRunSortsByTargetDescending(t *testing.T) {
	t.Parallel()
	s := &Setting{Target: "total_net_pnl"}
	require.NoError(t, s.AddParameter("a", 1, 5, 1))

	eval := func(params map[string]interface{}) (*Result, error) {
		v, ok := params["a"].(float64)
		if !ok {
			return nil, errors.New("parameter a missing")
		}
		return &Result{Parameters: params, Target: v}, nil
	}
	results, err := Run(s, 3, eval)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Target, results[i].Target)
	}
	assert.Equal(t, 5.0, results[0].Target)
}

func TestRunSkipsFailedEvaluations(t *testing.T) {
	t.Parallel()
	s := &Setting{Target: "total_net_pnl"}
	require.NoError(t, s.AddParameter("a", 1, 4, 1))

	eval := func(params map[string]interface{}) (*Result, error) {
		v := params["a"].(float64)
		if v == 2 {
			return nil, errors.New("boom")
		}
		return &Result{Parameters: params, Target: v}, nil
	}
	results, err := Run(s, 2, eval)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRunAllFailed(t *testing.T) {
	t.Parallel()
	s := &Setting{Target: "total_net_pnl"}
	require.NoError(t, s.AddParameter("a", 1, 2, 1))

	eval := func(map[string]interface{}) (*Result, error) {
		return nil, errors.New("boom")
	}
	_, err := Run(s, 1, eval)
	assert.ErrorIs(t, err, ErrAllEvaluationsFailed)
}

func TestRunValidation(t *testing.T) {
	t.Parallel()
	noop := func(map[string]interface{}) (*Result, error) {
		return &Result{}, nil
	}
	_, err := Run(nil, 1, noop)
	assert.Error(t, err)

	s := &Setting{}
	require.NoError(t, s.AddParameter("a", 1, 2, 1))
	_, err = Run(s, 1, noop)
	assert.ErrorIs(t, err, ErrUnsetTarget)

	_, err = Run(&Setting{Target: "sharpe_ratio"}, 1, noop)
	assert.ErrorIs(t, err, ErrNoParameters)
}

// thresholdStrategy buys once when the close is above its threshold
type thresholdStrategy struct {
	strategy.Base
	threshold float64
	bought    bool
}

func (s *thresholdStrategy) Name() string { return "threshold" }

func (s *thresholdStrategy) SetCustomSettings(settings map[string]interface{}) error {
	for k, v := range settings {
		if k != "threshold" {
			return strategy.ErrInvalidCustomSettings
		}
		value, ok := v.(float64)
		if !ok {
			return strategy.ErrInvalidCustomSettings
		}
		s.threshold = value
	}
	return nil
}

func (s *thresholdStrategy) OnBar(b *data.Bar) error {
	if !s.bought && b.Close > s.threshold {
		s.Buy(b.Close+1, 1, false)
		s.bought = true
	}
	return nil
}

func TestBacktestEvaluate(t *testing.T) {
	require.NoError(t, strategy.Register("threshold", func() strategy.Handler {
		return &thresholdStrategy{}
	}))

	start := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	bars := make([]data.Bar, 20)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = data.Bar{
			Symbol: "RB2310", Venue: "SHFE", Interval: data.OneMin,
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: price, High: price + 1, Low: price - 1, Close: price,
		}
	}
	settings := engine.Settings{
		Symbol:       "RB2310",
		Venue:        "SHFE",
		Interval:     data.OneMin,
		Start:        start,
		End:          start.AddDate(0, 0, 1),
		ContractSize: decimal.New(1, 0),
		PriceTick:    1,
		Capital:      decimal.NewFromInt(1000000),
	}

	s := &Setting{Target: "total_net_pnl"}
	require.NoError(t, s.AddParameter("threshold", 105, 115, 10))

	eval := Backtest(settings, &data.Static{Bars: bars}, "threshold", nil, s.Target)
	results, err := Run(s, 2, eval)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.IsType(t, &statistics.Summary{}, r.Summary)
		assert.False(t, r.Summary.CapitalExhausted)
	}
	// buying earlier rides more of the uptrend
	assert.Equal(t, 105.0, results[0].Parameters["threshold"])
}
