package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
)

func TestCalculateResultEmpty(t *testing.T) {
	t.Parallel()
	bt := newTestBacktest(t, newRecordingStrategy())
	assert.Nil(t, bt.CalculateResult())
}

func TestCalculateResultSingleDay(t *testing.T) {
	t.Parallel()
	s := newRecordingStrategy()
	bt := newTestBacktest(t, s)

	bt.SendOrder(order.Long, order.Open, 100, 10, false)
	require.NoError(t, bt.newBar(bar(testStart, 100, 106, 99, 104)))
	require.NoError(t, bt.newBar(bar(testStart.Add(time.Minute), 104, 106, 103, 105)))
	require.Len(t, bt.Trades(), 1)
	require.Equal(t, 100.0, bt.Trades()[0].Price)

	series := bt.CalculateResult()
	require.Len(t, series, 1)
	r := series[0]
	assert.Equal(t, common.DateOnly(testStart), r.Date)
	assert.Equal(t, 1, r.TradeCount)
	assert.Zero(t, r.StartPos)
	assert.Equal(t, 10.0, r.EndPos)
	// first day marks against a previous close of one
	assert.True(t, r.PreClose.Equal(decimal.New(1, 0)))
	assert.True(t, r.HoldingPnL.IsZero())
	if !r.TradingPnL.Equal(decimal.NewFromInt(50)) {
		t.Errorf("received %v expected trading pnl 50", r.TradingPnL)
	}
	assert.True(t, r.NetPnL.Equal(decimal.NewFromInt(50)))
}

func TestCalculateResultFoldAcrossDays(t *testing.T) {
	t.Parallel()
	s := newRecordingStrategy()
	bt := newTestBacktest(t, s)

	day2 := testStart.AddDate(0, 0, 1)
	bt.SendOrder(order.Long, order.Open, 100, 10, false)
	require.NoError(t, bt.newBar(bar(testStart, 100, 106, 99, 105)))
	require.NoError(t, bt.newBar(bar(day2, 105, 111, 104, 110)))

	series := bt.CalculateResult()
	require.Len(t, series, 2)

	first, second := series[0], series[1]
	assert.Equal(t, 10.0, first.EndPos)
	assert.Equal(t, first.EndPos, second.StartPos)
	assert.True(t, second.PreClose.Equal(first.ClosePrice))
	// day two carries the position: 10 * (110 - 105) * 1
	if !second.HoldingPnL.Equal(decimal.NewFromInt(50)) {
		t.Errorf("received %v expected holding pnl 50", second.HoldingPnL)
	}
	assert.True(t, second.TradingPnL.IsZero())
	assert.Zero(t, second.TradeCount)
}

func TestCalculateResultCommissionAndSlippage(t *testing.T) {
	t.Parallel()
	s := newRecordingStrategy()
	settings := testSettings()
	settings.Rate = decimal.NewFromFloat(0.001)
	settings.Slippage = decimal.NewFromFloat(0.5)
	settings.ContractSize = decimal.New(10, 0)
	bt, err := New(settings, s, &data.Static{})
	require.NoError(t, err)

	bt.SendOrder(order.Long, order.Open, 100, 2, false)
	require.NoError(t, bt.newBar(bar(testStart, 100, 101, 99, 100)))
	require.Len(t, bt.Trades(), 1)

	series := bt.CalculateResult()
	require.Len(t, series, 1)
	r := series[0]
	// turnover 100 * 2 * 10 = 2000
	assert.True(t, r.Turnover.Equal(decimal.NewFromInt(2000)),
		"received %v expected 2000", r.Turnover)
	assert.True(t, r.Commission.Equal(decimal.NewFromInt(2)),
		"received %v expected 2", r.Commission)
	// slippage 2 * 10 * 0.5 = 10
	assert.True(t, r.Slippage.Equal(decimal.NewFromInt(10)),
		"received %v expected 10", r.Slippage)
	assert.True(t, r.NetPnL.Equal(decimal.NewFromInt(-12)),
		"received %v expected -12", r.NetPnL)
}

func TestCalculateResultIdempotent(t *testing.T) {
	t.Parallel()
	s := newRecordingStrategy()
	bt := newTestBacktest(t, s)

	bt.SendOrder(order.Long, order.Open, 100, 5, false)
	require.NoError(t, bt.newBar(bar(testStart, 100, 106, 99, 104)))
	require.NoError(t, bt.newBar(bar(testStart.AddDate(0, 0, 1), 104, 108, 103, 107)))

	first := bt.CalculateResult()
	second := bt.CalculateResult()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].NetPnL.Equal(second[i].NetPnL))
		assert.Equal(t, first[i].EndPos, second[i].EndPos)
	}
}

func TestNetPnLSumMatchesBalanceDelta(t *testing.T) {
	t.Parallel()
	s := newRecordingStrategy()
	bt := newTestBacktest(t, s)

	bt.SendOrder(order.Long, order.Open, 100, 4, false)
	require.NoError(t, bt.newBar(bar(testStart, 100, 106, 99, 104)))
	bt.SendOrder(order.Short, order.Close, 90, 4, false)
	require.NoError(t, bt.newBar(bar(testStart.AddDate(0, 0, 1), 103, 105, 102, 103)))
	require.NoError(t, bt.newBar(bar(testStart.AddDate(0, 0, 2), 103, 104, 101, 102)))

	series := bt.CalculateResult()
	summary := bt.CalculateStatistics(series)

	sum := decimal.Zero
	for _, r := range series {
		sum = sum.Add(r.NetPnL)
	}
	assert.True(t, summary.EndBalance.Sub(bt.settings.Capital).Equal(sum),
		"received %v expected %v", summary.EndBalance.Sub(bt.settings.Capital), sum)
}
