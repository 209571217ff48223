package doublema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
	"github.com/quantfold/ctabacktester/strategy"
)

type sentOrder struct {
	direction order.Direction
	offset    order.Offset
	volume    float64
	stop      bool
}

type fakeEngine struct {
	sent []sentOrder
}

func (f *fakeEngine) SendOrder(d order.Direction, o order.Offset, _, volume float64, stop bool) []string {
	f.sent = append(f.sent, sentOrder{d, o, volume, stop})
	return []string{"1"}
}

func (f *fakeEngine) CancelOrder(string) {}

func (f *fakeEngine) CancelAll() {}

func (f *fakeEngine) LoadBarHistory(int, data.Interval, func(*data.Bar) error) error {
	return nil
}

func (f *fakeEngine) LoadTickHistory(int, func(*data.Tick) error) error { return nil }

func (f *fakeEngine) Type() strategy.EngineType { return strategy.Backtesting }

func (f *fakeEngine) PriceTick() float64 { return 1 }

func (f *fakeEngine) ContractSize() float64 { return 1 }

func (f *fakeEngine) WriteLog(string) {}

func newStrategy() (*Strategy, *fakeEngine) {
	e := &fakeEngine{}
	s := &Strategy{}
	s.SetDefaults()
	s.Bind(e)
	s.SetTrading(true)
	return s, e
}

func feed(t *testing.T, s *Strategy, closes []float64) {
	t.Helper()
	for _, c := range closes {
		require.NoError(t, s.OnBar(&data.Bar{Close: c, High: c, Low: c}))
	}
}

func TestRegistered(t *testing.T) {
	t.Parallel()
	s, err := strategy.New(Name)
	require.NoError(t, err)
	assert.Equal(t, Name, s.Name())
}

func TestSetCustomSettings(t *testing.T) {
	t.Parallel()
	s, _ := newStrategy()
	err := s.SetCustomSettings(map[string]interface{}{
		fastPeriodKey: 5.0,
		slowPeriodKey: 15.0,
		fixedSizeKey:  2.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, s.fastPeriod)
	assert.Equal(t, 15, s.slowPeriod)
	assert.Equal(t, 2.0, s.fixedSize)

	err = s.SetCustomSettings(map[string]interface{}{fastPeriodKey: "fast"})
	assert.ErrorIs(t, err, strategy.ErrInvalidCustomSettings)

	err = s.SetCustomSettings(map[string]interface{}{"unknown": 1.0})
	assert.ErrorIs(t, err, strategy.ErrInvalidCustomSettings)

	err = s.SetCustomSettings(map[string]interface{}{
		fastPeriodKey: 20.0,
		slowPeriodKey: 10.0,
	})
	assert.ErrorIs(t, err, strategy.ErrInvalidCustomSettings)
}

func TestNoSignalDuringWarmup(t *testing.T) {
	t.Parallel()
	s, e := newStrategy()
	closes := make([]float64, s.slowPeriod)
	for i := range closes {
		closes[i] = 100
	}
	feed(t, s, closes)
	assert.Empty(t, e.sent)
}

func TestCrossOverOpensLong(t *testing.T) {
	t.Parallel()
	s, e := newStrategy()

	closes := make([]float64, 0, 60)
	for i := 0; i < 30; i++ {
		closes = append(closes, 100)
	}
	// a sustained jump drags the fast average over the slow one
	for i := 0; i < 15; i++ {
		closes = append(closes, 110)
	}
	feed(t, s, closes)

	require.NotEmpty(t, e.sent)
	first := e.sent[0]
	assert.Equal(t, order.Long, first.direction)
	assert.Equal(t, order.Open, first.offset)
	assert.Equal(t, 1.0, first.volume)
	assert.False(t, first.stop)
}

func TestCrossBelowClosesThenShorts(t *testing.T) {
	t.Parallel()
	s, e := newStrategy()

	closes := make([]float64, 0, 80)
	for i := 0; i < 30; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 15; i++ {
		closes = append(closes, 110)
	}
	feed(t, s, closes)
	require.NotEmpty(t, e.sent)
	s.AddPosition(1)
	e.sent = nil

	drop := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		drop = append(drop, 90)
	}
	feed(t, s, drop)

	require.Len(t, e.sent, 2)
	assert.Equal(t, order.Short, e.sent[0].direction)
	assert.Equal(t, order.Close, e.sent[0].offset)
	assert.Equal(t, 1.0, e.sent[0].volume)
	assert.Equal(t, order.Short, e.sent[1].direction)
	assert.Equal(t, order.Open, e.sent[1].offset)
}
