package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
	"github.com/quantfold/ctabacktester/strategy"
)

var (
	// ErrNilStrategy is returned when no strategy is supplied
	ErrNilStrategy = errors.New("strategy cannot be nil")
	// ErrNilProvider is returned when no data provider is supplied
	ErrNilProvider = errors.New("data provider cannot be nil")
	// ErrUnsetSymbol is returned when the instrument is not configured
	ErrUnsetSymbol = errors.New("symbol and venue must be set")
	// ErrInvalidCapital is returned for a non-positive starting capital
	ErrInvalidCapital = errors.New("capital must be positive")
	// ErrStrategyFault wraps an error or panic raised from a strategy
	// callback. The replay stops at the offending record; everything
	// recorded before it remains intact
	ErrStrategyFault = errors.New("strategy fault, replay terminated")
)

// Mode selects whether the engine replays bars or ticks
type Mode uint8

// Mode consts
const (
	ModeBar Mode = iota + 1
	ModeTick
)

// String implements the stringer interface
func (m Mode) String() string {
	switch m {
	case ModeBar:
		return "bar"
	case ModeTick:
		return "tick"
	default:
		return "unknown"
	}
}

// ParseMode converts a config string to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "bar", "":
		return ModeBar, nil
	case "tick":
		return ModeTick, nil
	default:
		return 0, fmt.Errorf("invalid backtesting mode: %q", s)
	}
}

// Default statistic parameters, matching a Chinese futures trading calendar
const (
	DefaultAnnualDays = 240
	DefaultHalfLife   = 120
)

// Settings holds everything a single backtest run needs besides the
// strategy and the data provider
type Settings struct {
	Symbol   string
	Venue    string
	Interval data.Interval
	Start    time.Time
	End      time.Time
	Mode     Mode

	// Rate is the commission rate applied to turnover
	Rate decimal.Decimal
	// Slippage is the cost charged per contract unit traded
	Slippage decimal.Decimal
	// ContractSize is the contract multiplier
	ContractSize decimal.Decimal
	// PriceTick is the minimum price increment; order prices are rounded
	// to it on submission
	PriceTick float64
	// Capital is the starting account balance
	Capital decimal.Decimal

	// RiskFree is the annualised risk free rate used by the Sharpe ratio
	RiskFree float64
	// AnnualDays is the number of trading days per year
	AnnualDays int
	// HalfLife is the decay half life of the exponentially weighted
	// Sharpe variant
	HalfLife float64
}

// Validate checks the run settings before any data is loaded
func (s *Settings) Validate() error {
	if s.Symbol == "" || s.Venue == "" {
		return ErrUnsetSymbol
	}
	if s.Start.IsZero() || s.End.IsZero() {
		return common.ErrDateUnset
	}
	if !s.Start.Before(s.End) {
		return fmt.Errorf("%w: start %v end %v",
			common.ErrStartAfterEnd,
			s.Start.Format(common.SimpleTimeFormat),
			s.End.Format(common.SimpleTimeFormat))
	}
	if s.Mode == ModeBar && s.Interval == 0 {
		return data.ErrInvalidInterval
	}
	if !s.Capital.IsPositive() {
		return ErrInvalidCapital
	}
	return nil
}

// BackTest replays historical data through a strategy and records the
// simulated orders, trades and daily closes. It is single threaded; one
// instance serves one run at a time
type BackTest struct {
	settings Settings
	runID    uuid.UUID
	strategy strategy.Handler
	provider data.Provider

	bars  []data.Bar
	ticks []data.Tick
	bar   *data.Bar
	tick  *data.Tick
	now   time.Time

	limitOrderCount   int
	limitOrders       []*order.Order
	activeLimitOrders []*order.Order

	stopOrderCount   int
	stopOrders       []*order.StopOrder
	activeStopOrders []*order.StopOrder

	tradeCount int
	trades     []*order.Trade

	dailyCloses map[time.Time]float64

	// deferredErr carries a callback failure raised on a path that has no
	// way to propagate it (strategy initiated cancels); the replay loop
	// picks it up at the end of the current step
	deferredErr error

	logs []string
}

// DailyResult is the mark to market outcome of one calendar date. Values are
// computed by CalculateResult in a single date ordered pass after replay
type DailyResult struct {
	Date       time.Time
	ClosePrice decimal.Decimal
	PreClose   decimal.Decimal

	Trades     []*order.Trade
	TradeCount int

	StartPos float64
	EndPos   float64

	Turnover   decimal.Decimal
	Commission decimal.Decimal
	Slippage   decimal.Decimal

	TradingPnL decimal.Decimal
	HoldingPnL decimal.Decimal
	TotalPnL   decimal.Decimal
	NetPnL     decimal.Decimal
}
