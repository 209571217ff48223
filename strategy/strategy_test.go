package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
)

type fakeEngine struct {
	sent      []sentOrder
	cancelled []string
	cancelAll int
	engine    EngineType
}

type sentOrder struct {
	direction order.Direction
	offset    order.Offset
	price     float64
	volume    float64
	stop      bool
}

func (f *fakeEngine) SendOrder(d order.Direction, o order.Offset, price, volume float64, stop bool) []string {
	f.sent = append(f.sent, sentOrder{d, o, price, volume, stop})
	return []string{"1"}
}

func (f *fakeEngine) CancelOrder(id string) { f.cancelled = append(f.cancelled, id) }
func (f *fakeEngine) CancelAll()            { f.cancelAll++ }

func (f *fakeEngine) LoadBarHistory(int, data.Interval, func(*data.Bar) error) error { return nil }
func (f *fakeEngine) LoadTickHistory(int, func(*data.Tick) error) error              { return nil }

func (f *fakeEngine) Type() EngineType      { return f.engine }
func (f *fakeEngine) PriceTick() float64    { return 1 }
func (f *fakeEngine) ContractSize() float64 { return 10 }
func (f *fakeEngine) WriteLog(string)       {}

func TestBaseOrderHelpersGatedByTrading(t *testing.T) {
	t.Parallel()
	e := &fakeEngine{engine: Backtesting}
	b := &Base{}
	b.Bind(e)

	if ids := b.Buy(100, 1, false); ids != nil {
		t.Error("expected no orders before trading starts")
	}
	b.SetTrading(true)
	ids := b.Buy(100, 1, false)
	require.Len(t, ids, 1)
	require.Len(t, e.sent, 1)
	assert.Equal(t, order.Long, e.sent[0].direction)
	assert.Equal(t, order.Open, e.sent[0].offset)

	b.Sell(100, 1, false)
	b.Short(100, 1, true)
	b.Cover(100, 1, false)
	require.Len(t, e.sent, 4)
	assert.Equal(t, sentOrder{order.Short, order.Close, 100, 1, false}, e.sent[1])
	assert.Equal(t, sentOrder{order.Short, order.Open, 100, 1, true}, e.sent[2])
	assert.Equal(t, sentOrder{order.Long, order.Close, 100, 1, false}, e.sent[3])
}

func TestBaseCancelGatedByTrading(t *testing.T) {
	t.Parallel()
	e := &fakeEngine{}
	b := &Base{}
	b.Bind(e)
	b.CancelOrder("1")
	b.CancelAll()
	assert.Empty(t, e.cancelled)
	assert.Zero(t, e.cancelAll)

	b.SetTrading(true)
	b.CancelOrder("1")
	b.CancelAll()
	assert.Equal(t, []string{"1"}, e.cancelled)
	assert.Equal(t, 1, e.cancelAll)
}

func TestBasePosition(t *testing.T) {
	t.Parallel()
	b := &Base{}
	b.AddPosition(5)
	b.AddPosition(-2)
	assert.Equal(t, 3.0, b.Position())
}

func TestBaseVariables(t *testing.T) {
	t.Parallel()
	b := &Base{}
	b.SetInited(true)
	v := b.Variables()
	assert.Equal(t, true, v["inited"])
	assert.Equal(t, false, v["trading"])
	assert.Equal(t, 0.0, v["pos"])
}

func TestBaseSetCustomSettings(t *testing.T) {
	t.Parallel()
	b := &Base{}
	require.NoError(t, b.SetCustomSettings(nil))
	err := b.SetCustomSettings(map[string]interface{}{"x": 1})
	assert.ErrorIs(t, err, ErrCustomSettingsUnsupported)
}

type testStrategy struct{ Base }

func (testStrategy) Name() string { return "registry-test" }

func TestRegistry(t *testing.T) {
	t.Parallel()
	require.NoError(t, Register("registry-test", func() Handler { return &testStrategy{} }))
	err := Register("Registry-Test", func() Handler { return &testStrategy{} })
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	h, err := New("REGISTRY-TEST")
	require.NoError(t, err)
	assert.Equal(t, "registry-test", h.Name())

	_, err = New("missing")
	assert.ErrorIs(t, err, ErrStrategyNotFound)

	assert.Contains(t, Names(), "registry-test")
}
