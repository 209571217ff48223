// Package engine implements the backtesting simulation core: the event
// replay loop, the limit and stop order matching model, daily mark to market
// accounting and the report surface
package engine

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/statistics"
	"github.com/quantfold/ctabacktester/strategy"
)

// New creates a backtest run from validated settings, a strategy instance
// and a data provider. The strategy is bound to the engine here; a strategy
// instance must not be shared between engines
func New(settings Settings, handler strategy.Handler, provider data.Provider) (*BackTest, error) {
	if handler == nil {
		return nil, ErrNilStrategy
	}
	if provider == nil {
		return nil, ErrNilProvider
	}
	settings.End = common.EndOfDay(settings.End)
	if settings.Mode == 0 {
		settings.Mode = ModeBar
	}
	if settings.AnnualDays <= 0 {
		settings.AnnualDays = DefaultAnnualDays
	}
	if settings.HalfLife <= 0 {
		settings.HalfLife = DefaultHalfLife
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	bt := &BackTest{
		settings:    settings,
		runID:       id,
		strategy:    handler,
		provider:    provider,
		dailyCloses: make(map[time.Time]float64),
	}
	handler.Bind(bt)
	return bt, nil
}

// RunID identifies this run in logs and reports
func (bt *BackTest) RunID() uuid.UUID {
	return bt.runID
}

// Settings returns a copy of the run settings
func (bt *BackTest) Settings() Settings {
	return bt.settings
}

func (bt *BackTest) log() *logrus.Entry {
	return common.Log(common.LogBacktest).WithField("run", bt.runID.String())
}

// Run loads historical data and replays it through the strategy. A strategy
// fault terminates the replay early and is returned wrapped in
// ErrStrategyFault; all trades and orders recorded up to the fault survive
// and the report surface stays usable
func (bt *BackTest) Run() error {
	if err := bt.loadData(); err != nil {
		return err
	}

	if err := bt.guard(bt.strategy.OnInit); err != nil {
		return err
	}
	bt.strategy.SetInited(true)
	bt.log().Info("strategy initialised")

	if err := bt.guard(bt.strategy.OnStart); err != nil {
		return err
	}
	bt.strategy.SetTrading(true)
	bt.log().Info("replaying history")

	switch bt.settings.Mode {
	case ModeTick:
		for i := range bt.ticks {
			if err := bt.guard(func() error { return bt.newTick(&bt.ticks[i]) }); err != nil {
				bt.log().WithError(err).Error("replay terminated")
				return err
			}
		}
	default:
		for i := range bt.bars {
			if err := bt.guard(func() error { return bt.newBar(&bt.bars[i]) }); err != nil {
				bt.log().WithError(err).Error("replay terminated")
				return err
			}
		}
	}

	bt.strategy.SetTrading(false)
	if err := bt.guard(bt.strategy.OnStop); err != nil {
		return err
	}
	bt.log().Info("replay complete")
	return nil
}

// guard runs a strategy facing step, converting panics and callback errors
// into an ErrStrategyFault and folding in any deferred callback failure
func (bt *BackTest) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrStrategyFault, r)
		}
	}()
	if err = fn(); err == nil {
		err = bt.deferredErr
	}
	if err != nil {
		bt.deferredErr = nil
		err = fmt.Errorf("%w: %v", ErrStrategyFault, err)
	}
	return err
}

// loadData pulls the configured range from the provider in ten chunks so
// long loads report progress, mirroring a live download
func (bt *BackTest) loadData() error {
	bt.log().Info("loading historical data")

	start := bt.settings.Start
	end := bt.settings.End
	totalDays := int(end.Sub(start).Hours() / 24)
	progressDays := totalDays / 10
	if progressDays < 1 {
		progressDays = 1
	}
	delta := bt.settings.Interval.Delta()
	if bt.settings.Mode == ModeTick {
		delta = time.Millisecond
	}

	bt.bars = nil
	bt.ticks = nil
	chunkStart := start
	for chunkStart.Before(end) {
		chunkEnd := chunkStart.AddDate(0, 0, progressDays)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		switch bt.settings.Mode {
		case ModeTick:
			ticks, err := bt.provider.LoadTicks(bt.settings.Symbol, bt.settings.Venue, chunkStart, chunkEnd)
			if err != nil {
				return err
			}
			bt.ticks = append(bt.ticks, ticks...)
		default:
			bars, err := bt.provider.LoadBars(bt.settings.Symbol, bt.settings.Venue, bt.settings.Interval, chunkStart, chunkEnd)
			if err != nil {
				return err
			}
			bt.bars = append(bt.bars, bars...)
		}
		chunkStart = chunkEnd.Add(delta)
	}

	count := len(bt.bars)
	if bt.settings.Mode == ModeTick {
		count = len(bt.ticks)
	}
	if count == 0 {
		bt.log().Warn("no historical data in range, replay will be trivial")
		return nil
	}
	bt.log().Infof("loaded %d records", count)
	return nil
}

// newBar processes a single bar: cross pending orders against it, deliver it
// to the strategy, then record the daily close. The ordering means an order
// placed on this bar cannot fill until the next one
func (bt *BackTest) newBar(b *data.Bar) error {
	bt.bar = b
	bt.now = b.Time

	if err := bt.crossLimitOrders(); err != nil {
		return err
	}
	if err := bt.crossStopOrders(); err != nil {
		return err
	}
	if err := bt.strategy.OnBar(b); err != nil {
		return err
	}

	bt.updateDailyClose(b.Close)
	return nil
}

// newTick processes a single tick with the same ordering as newBar
func (bt *BackTest) newTick(t *data.Tick) error {
	bt.tick = t
	bt.now = t.Time

	if err := bt.crossLimitOrders(); err != nil {
		return err
	}
	if err := bt.crossStopOrders(); err != nil {
		return err
	}
	if err := bt.strategy.OnTick(t); err != nil {
		return err
	}

	bt.updateDailyClose(t.LastPrice)
	return nil
}

func (bt *BackTest) updateDailyClose(price float64) {
	bt.dailyCloses[common.DateOnly(bt.now)] = price
}

// LoadBarHistory implements strategy.Engine. Warm-up bars strictly precede
// the replay start so they can never cross an order
func (bt *BackTest) LoadBarHistory(days int, interval data.Interval, cb func(*data.Bar) error) error {
	if cb == nil {
		cb = bt.strategy.OnBar
	}
	initEnd := bt.settings.Start.Add(-interval.Delta())
	initStart := bt.settings.Start.AddDate(0, 0, -days)
	bars, err := bt.provider.LoadBars(bt.settings.Symbol, bt.settings.Venue, interval, initStart, initEnd)
	if err != nil {
		return err
	}
	for i := range bars {
		if err = cb(&bars[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadTickHistory implements strategy.Engine
func (bt *BackTest) LoadTickHistory(days int, cb func(*data.Tick) error) error {
	if cb == nil {
		cb = bt.strategy.OnTick
	}
	initEnd := bt.settings.Start.Add(-time.Second)
	initStart := bt.settings.Start.AddDate(0, 0, -days)
	ticks, err := bt.provider.LoadTicks(bt.settings.Symbol, bt.settings.Venue, initStart, initEnd)
	if err != nil {
		return err
	}
	for i := range ticks {
		if err = cb(&ticks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Type implements strategy.Engine
func (bt *BackTest) Type() strategy.EngineType {
	return strategy.Backtesting
}

// PriceTick implements strategy.Engine
func (bt *BackTest) PriceTick() float64 {
	return bt.settings.PriceTick
}

// ContractSize implements strategy.Engine
func (bt *BackTest) ContractSize() float64 {
	return bt.settings.ContractSize.InexactFloat64()
}

// WriteLog implements strategy.Engine; lines are stamped with simulation
// time, not wall time
func (bt *BackTest) WriteLog(msg string) {
	line := fmt.Sprintf("%s\t%s", bt.now.Format(common.SimpleTimeFormat), msg)
	bt.logs = append(bt.logs, line)
	bt.log().Debug(line)
}

// Logs returns the strategy log lines accumulated during replay
func (bt *BackTest) Logs() []string {
	out := make([]string, len(bt.logs))
	copy(out, bt.logs)
	return out
}

// CalculateStatistics derives the performance report from a daily series,
// computing the series first when none is supplied. It is a pure function
// of recorded state and can be called repeatedly
func (bt *BackTest) CalculateStatistics(series []*DailyResult) *statistics.Summary {
	if series == nil {
		series = bt.CalculateResult()
	}
	days := make([]statistics.DayResult, len(series))
	for i := range series {
		days[i] = statistics.DayResult{
			Date:       series[i].Date,
			NetPnL:     series[i].NetPnL,
			Commission: series[i].Commission,
			Slippage:   series[i].Slippage,
			Turnover:   series[i].Turnover,
			TradeCount: series[i].TradeCount,
		}
	}
	return statistics.Calculate(statistics.Settings{
		Capital:    bt.settings.Capital,
		RiskFree:   bt.settings.RiskFree,
		AnnualDays: bt.settings.AnnualDays,
		HalfLife:   bt.settings.HalfLife,
	}, days)
}
