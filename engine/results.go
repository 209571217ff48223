package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/order"
)

// CalculateResult rebuilds the per date ledger from the recorded daily
// closes and trades. It reads the replay record without modifying it, so
// repeated calls return identical results
func (bt *BackTest) CalculateResult() []*DailyResult {
	if len(bt.dailyCloses) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(bt.dailyCloses))
	for d := range bt.dailyCloses {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	results := make(map[time.Time]*DailyResult, len(dates))
	series := make([]*DailyResult, 0, len(dates))
	for _, d := range dates {
		r := &DailyResult{
			Date:       d,
			ClosePrice: decimal.NewFromFloat(bt.dailyCloses[d]),
		}
		results[d] = r
		series = append(series, r)
	}

	for _, t := range bt.trades {
		r, ok := results[common.DateOnly(t.Time)]
		if !ok {
			// trade on a date with no recorded close, skip it
			continue
		}
		r.Trades = append(r.Trades, t)
	}

	preClose := decimal.Zero
	startPos := decimal.Zero
	for _, r := range series {
		r.calculatePnL(preClose,
			startPos,
			bt.settings.ContractSize,
			bt.settings.Rate,
			bt.settings.Slippage)
		preClose = r.ClosePrice
		startPos = decimal.NewFromFloat(r.EndPos)
	}
	return series
}

// calculatePnL marks the day to market. A zero previous close happens on
// the first trading day only and is replaced by one to keep the holding
// term finite
func (r *DailyResult) calculatePnL(preClose, startPos, size, rate, slippage decimal.Decimal) {
	if preClose.IsZero() {
		preClose = decimal.New(1, 0)
	}
	r.PreClose = preClose

	start, _ := startPos.Float64()
	r.StartPos = start
	r.EndPos = start

	r.HoldingPnL = startPos.Mul(r.ClosePrice.Sub(preClose)).Mul(size)

	r.TradeCount = len(r.Trades)
	r.Turnover = decimal.Zero
	r.TradingPnL = decimal.Zero
	r.Slippage = decimal.Zero
	for _, t := range r.Trades {
		posChange := decimal.NewFromFloat(t.Volume)
		if t.Direction == order.Short {
			posChange = posChange.Neg()
		}
		r.EndPos += t.PositionChange()

		price := decimal.NewFromFloat(t.Price)
		volume := decimal.NewFromFloat(t.Volume)
		turnover := price.Mul(volume).Mul(size)
		r.Turnover = r.Turnover.Add(turnover)
		r.TradingPnL = r.TradingPnL.Add(
			posChange.Mul(r.ClosePrice.Sub(price)).Mul(size))
		r.Slippage = r.Slippage.Add(volume.Mul(size).Mul(slippage))
	}
	r.Commission = r.Turnover.Mul(rate)

	r.TotalPnL = r.TradingPnL.Add(r.HoldingPnL)
	r.NetPnL = r.TotalPnL.Sub(r.Commission).Sub(r.Slippage)
}
