package statistics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings parameterises a performance calculation
type Settings struct {
	// Capital is the starting account balance
	Capital decimal.Decimal
	// RiskFree is the annualised risk free rate subtracted inside the
	// Sharpe ratio
	RiskFree float64
	// AnnualDays is the number of trading days per year used to
	// annualise returns; defaults to 240 when zero
	AnnualDays int
	// HalfLife is the decay half life of the exponentially weighted
	// Sharpe variant; defaults to 120 when zero
	HalfLife float64
}

// DayResult is one day's contribution to the performance report
type DayResult struct {
	Date       time.Time
	NetPnL     decimal.Decimal
	Commission decimal.Decimal
	Slippage   decimal.Decimal
	Turnover   decimal.Decimal
	TradeCount int
}

// Summary is the full performance report of a run. Money values keep the
// decimal representation used by the daily ledger; ratio statistics are
// plain floats
type Summary struct {
	StartDate time.Time
	EndDate   time.Time

	TotalDays  int
	ProfitDays int
	LossDays   int

	Capital    decimal.Decimal
	EndBalance decimal.Decimal

	MaxDrawdown         decimal.Decimal
	MaxDrawdownPercent  float64
	MaxDrawdownDuration int

	TotalNetPnL     decimal.Decimal
	DailyNetPnL     decimal.Decimal
	TotalCommission decimal.Decimal
	DailyCommission decimal.Decimal
	TotalSlippage   decimal.Decimal
	DailySlippage   decimal.Decimal
	TotalTurnover   decimal.Decimal
	DailyTurnover   decimal.Decimal

	TotalTradeCount int
	DailyTradeCount float64

	TotalReturn  float64
	AnnualReturn float64
	DailyReturn  float64
	ReturnStd    float64

	SharpeRatio         float64
	EWMSharpeRatio      float64
	ReturnDrawdownRatio float64

	// CapitalExhausted is set when the balance touched zero or went
	// negative during the run; every statistic above is zeroed because
	// log returns stop being meaningful
	CapitalExhausted bool

	// DailyBalances and DailyReturns are aligned with the input series
	// and kept for charting and optimisation targets
	DailyBalances []float64
	DailyReturns  []float64
}
