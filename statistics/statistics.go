// Package statistics turns an ordered daily profit and loss series into a
// performance report covering balance, drawdown, returns and risk adjusted
// ratios
package statistics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/common/mathutil"
)

// Fallback statistic parameters applied when the caller leaves them unset
const (
	DefaultAnnualDays = 240
	DefaultHalfLife   = 120
)

// Calculate builds the performance report for a date ordered daily series.
// It never returns NaN or Inf in any field; degenerate inputs produce zeros.
// A balance that touches zero or goes negative marks the run as exhausted
// and zeroes every derived statistic
func Calculate(s Settings, days []DayResult) *Summary {
	if s.AnnualDays <= 0 {
		s.AnnualDays = DefaultAnnualDays
	}
	if s.HalfLife <= 0 {
		s.HalfLife = DefaultHalfLife
	}

	summary := &Summary{Capital: s.Capital}
	if len(days) == 0 {
		return summary
	}

	capital, _ := s.Capital.Float64()

	balances := make([]float64, len(days))
	returns := make([]float64, len(days))
	exhausted := false
	preBalance := capital
	running := s.Capital
	for i := range days {
		running = running.Add(days[i].NetPnL)
		balance, _ := running.Float64()
		balances[i] = balance
		if balance <= 0 {
			exhausted = true
		}
		if preBalance > 0 && balance/preBalance > 0 {
			returns[i] = math.Log(balance / preBalance)
		}
		preBalance = balance
	}
	if exhausted {
		summary.CapitalExhausted = true
		return summary
	}

	summary.StartDate = days[0].Date
	summary.EndDate = days[len(days)-1].Date
	summary.TotalDays = len(days)
	summary.EndBalance = running
	summary.DailyBalances = balances
	summary.DailyReturns = returns

	for i := range days {
		if days[i].NetPnL.IsPositive() {
			summary.ProfitDays++
		} else if days[i].NetPnL.IsNegative() {
			summary.LossDays++
		}
		summary.TotalNetPnL = summary.TotalNetPnL.Add(days[i].NetPnL)
		summary.TotalCommission = summary.TotalCommission.Add(days[i].Commission)
		summary.TotalSlippage = summary.TotalSlippage.Add(days[i].Slippage)
		summary.TotalTurnover = summary.TotalTurnover.Add(days[i].Turnover)
		summary.TotalTradeCount += days[i].TradeCount
	}

	total := decimal.NewFromInt(int64(summary.TotalDays))
	summary.DailyNetPnL = summary.TotalNetPnL.Div(total)
	summary.DailyCommission = summary.TotalCommission.Div(total)
	summary.DailySlippage = summary.TotalSlippage.Div(total)
	summary.DailyTurnover = summary.TotalTurnover.Div(total)
	summary.DailyTradeCount = float64(summary.TotalTradeCount) / float64(summary.TotalDays)

	// drawdown against the running high water mark
	highLevel := balances[0]
	maxDrawdown := 0.0
	troughIdx := -1
	peakIdx := 0
	runningPeakIdx := 0
	for i, balance := range balances {
		if balance > highLevel {
			highLevel = balance
			runningPeakIdx = i
		}
		drawdown := balance - highLevel
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
			troughIdx = i
			peakIdx = runningPeakIdx
		}
	}
	summary.MaxDrawdown = decimal.NewFromFloat(maxDrawdown)
	if troughIdx >= 0 {
		peakBalance := balances[peakIdx]
		if peakBalance != 0 {
			summary.MaxDrawdownPercent = maxDrawdown / peakBalance * 100
		}
		summary.MaxDrawdownDuration = common.DaysBetween(
			days[peakIdx].Date, days[troughIdx].Date)
	}

	endBalance, _ := summary.EndBalance.Float64()
	summary.TotalReturn = (endBalance/capital - 1) * 100
	summary.AnnualReturn = summary.TotalReturn /
		float64(summary.TotalDays) * float64(s.AnnualDays)

	summary.DailyReturn = mathutil.ArithmeticMean(returns) * 100
	summary.ReturnStd = mathutil.SampleStandardDeviation(returns) * 100

	sqrtAnnual := math.Sqrt(float64(s.AnnualDays))
	dailyRiskFree := s.RiskFree / sqrtAnnual
	if summary.ReturnStd != 0 {
		summary.SharpeRatio = (summary.DailyReturn - dailyRiskFree) /
			summary.ReturnStd * sqrtAnnual

		ewmMean := mathutil.EWMMean(returns, s.HalfLife) * 100
		ewmStd := mathutil.EWMStandardDeviation(returns, s.HalfLife) * 100
		if ewmStd != 0 {
			summary.EWMSharpeRatio = (ewmMean - dailyRiskFree) /
				ewmStd * sqrtAnnual
		}
	}

	if summary.MaxDrawdownPercent != 0 {
		summary.ReturnDrawdownRatio = -summary.TotalReturn /
			summary.MaxDrawdownPercent
	}

	summary.TotalReturn = mathutil.ZeroNaN(summary.TotalReturn)
	summary.AnnualReturn = mathutil.ZeroNaN(summary.AnnualReturn)
	summary.DailyReturn = mathutil.ZeroNaN(summary.DailyReturn)
	summary.ReturnStd = mathutil.ZeroNaN(summary.ReturnStd)
	summary.SharpeRatio = mathutil.ZeroNaN(summary.SharpeRatio)
	summary.EWMSharpeRatio = mathutil.ZeroNaN(summary.EWMSharpeRatio)
	summary.ReturnDrawdownRatio = mathutil.ZeroNaN(summary.ReturnDrawdownRatio)
	summary.MaxDrawdownPercent = mathutil.ZeroNaN(summary.MaxDrawdownPercent)

	return summary
}

// Map flattens the report into a key value form suitable for serialisation
// and optimisation target lookup
func (s *Summary) Map() map[string]interface{} {
	startDate := ""
	endDate := ""
	if !s.StartDate.IsZero() {
		startDate = s.StartDate.Format(common.SimpleDateFormat)
	}
	if !s.EndDate.IsZero() {
		endDate = s.EndDate.Format(common.SimpleDateFormat)
	}
	return map[string]interface{}{
		"start_date":            startDate,
		"end_date":              endDate,
		"total_days":            s.TotalDays,
		"profit_days":           s.ProfitDays,
		"loss_days":             s.LossDays,
		"capital":               s.Capital.InexactFloat64(),
		"end_balance":           s.EndBalance.InexactFloat64(),
		"max_drawdown":          s.MaxDrawdown.InexactFloat64(),
		"max_ddpercent":         s.MaxDrawdownPercent,
		"max_drawdown_duration": s.MaxDrawdownDuration,
		"total_net_pnl":         s.TotalNetPnL.InexactFloat64(),
		"daily_net_pnl":         s.DailyNetPnL.InexactFloat64(),
		"total_commission":      s.TotalCommission.InexactFloat64(),
		"daily_commission":      s.DailyCommission.InexactFloat64(),
		"total_slippage":        s.TotalSlippage.InexactFloat64(),
		"daily_slippage":        s.DailySlippage.InexactFloat64(),
		"total_turnover":        s.TotalTurnover.InexactFloat64(),
		"daily_turnover":        s.DailyTurnover.InexactFloat64(),
		"total_trade_count":     s.TotalTradeCount,
		"daily_trade_count":     s.DailyTradeCount,
		"total_return":          s.TotalReturn,
		"annual_return":         s.AnnualReturn,
		"daily_return":          s.DailyReturn,
		"return_std":            s.ReturnStd,
		"sharpe_ratio":          s.SharpeRatio,
		"ewm_sharpe":            s.EWMSharpeRatio,
		"return_drawdown_ratio": s.ReturnDrawdownRatio,
		"capital_exhausted":     s.CapitalExhausted,
	}
}

// Target looks up a single metric by its Map key, for optimisation ranking
func (s *Summary) Target(name string) float64 {
	v, ok := s.Map()[name]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
