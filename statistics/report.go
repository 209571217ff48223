package statistics

import (
	"github.com/quantfold/ctabacktester/common"
)

// Print writes the report to the shared logger, one metric per line
func (s *Summary) Print() {
	l := common.Log(common.LogStatistics)
	if s.CapitalExhausted {
		l.Warn("capital exhausted during run, statistics degraded to zero")
		return
	}
	if s.TotalDays == 0 {
		l.Warn("no trading days recorded, nothing to report")
		return
	}
	l.Infof("period: %v to %v (%d days, %d profitable, %d losing)",
		s.StartDate.Format(common.SimpleDateFormat),
		s.EndDate.Format(common.SimpleDateFormat),
		s.TotalDays,
		s.ProfitDays,
		s.LossDays)
	l.Infof("capital: %v end balance: %v", s.Capital, s.EndBalance)
	l.Infof("total net pnl: %v (daily %v)", s.TotalNetPnL, s.DailyNetPnL)
	l.Infof("commission: %v slippage: %v turnover: %v",
		s.TotalCommission, s.TotalSlippage, s.TotalTurnover)
	l.Infof("trades: %d (daily %.2f)", s.TotalTradeCount, s.DailyTradeCount)
	l.Infof("max drawdown: %v (%.2f%%) over %d days",
		s.MaxDrawdown, s.MaxDrawdownPercent, s.MaxDrawdownDuration)
	l.Infof("total return: %.2f%% annualised: %.2f%%",
		s.TotalReturn, s.AnnualReturn)
	l.Infof("daily return: %.4f%% stddev: %.4f%%", s.DailyReturn, s.ReturnStd)
	l.Infof("sharpe: %.2f ewm sharpe: %.2f return/drawdown: %.2f",
		s.SharpeRatio, s.EWMSharpeRatio, s.ReturnDrawdownRatio)
}
