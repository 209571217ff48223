// Package doublema implements a double moving average crossover strategy.
// A fast average crossing above the slow one opens a long, crossing below
// opens a short; an opposing position is closed first
package doublema

import (
	"fmt"

	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/strategy"
)

const (
	// Name is the strategy name
	Name          = "double-ma"
	fastPeriodKey = "fast-period"
	slowPeriodKey = "slow-period"
	fixedSizeKey  = "fixed-size"
	warmupDaysKey = "warmup-days"
)

func init() {
	if err := strategy.Register(Name, func() strategy.Handler {
		s := &Strategy{}
		s.SetDefaults()
		return s
	}); err != nil {
		panic(err)
	}
}

// Strategy is an implementation of the Handler interface
type Strategy struct {
	strategy.Base

	fastPeriod int
	slowPeriod int
	fixedSize  float64
	warmupDays int

	closes []float64
	fastMA [2]float64
	slowMA [2]float64
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.fastPeriod = 10
	s.slowPeriod = 20
	s.fixedSize = 1
	s.warmupDays = 10
}

// SetCustomSettings applies strategy parameters from config
func (s *Strategy) SetCustomSettings(settings map[string]interface{}) error {
	for k, v := range settings {
		switch k {
		case fastPeriodKey:
			period, ok := v.(float64)
			if !ok || period <= 0 {
				return fmt.Errorf("%w provided fast-period value could not be parsed: %v", strategy.ErrInvalidCustomSettings, v)
			}
			s.fastPeriod = int(period)
		case slowPeriodKey:
			period, ok := v.(float64)
			if !ok || period <= 0 {
				return fmt.Errorf("%w provided slow-period value could not be parsed: %v", strategy.ErrInvalidCustomSettings, v)
			}
			s.slowPeriod = int(period)
		case fixedSizeKey:
			size, ok := v.(float64)
			if !ok || size <= 0 {
				return fmt.Errorf("%w provided fixed-size value could not be parsed: %v", strategy.ErrInvalidCustomSettings, v)
			}
			s.fixedSize = size
		case warmupDaysKey:
			days, ok := v.(float64)
			if !ok || days <= 0 {
				return fmt.Errorf("%w provided warmup-days value could not be parsed: %v", strategy.ErrInvalidCustomSettings, v)
			}
			s.warmupDays = int(days)
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", strategy.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.fastPeriod >= s.slowPeriod {
		return fmt.Errorf("%w fast-period %v must be below slow-period %v", strategy.ErrInvalidCustomSettings, s.fastPeriod, s.slowPeriod)
	}
	return nil
}

// Variables reports the strategy state for the run report
func (s *Strategy) Variables() map[string]interface{} {
	v := s.Base.Variables()
	v["fast-ma"] = s.fastMA[1]
	v["slow-ma"] = s.slowMA[1]
	return v
}

// OnInit replays warm-up history so the averages are primed before trading
func (s *Strategy) OnInit() error {
	s.WriteLog("initialising double moving average strategy")
	return s.LoadBarHistory(s.warmupDays, data.OneMin, s.OnBar)
}

// OnBar updates both averages and acts when they cross
func (s *Strategy) OnBar(b *data.Bar) error {
	s.closes = append(s.closes, b.Close)
	if len(s.closes) <= s.slowPeriod {
		return nil
	}

	fast := indicators.SMA(s.closes, s.fastPeriod)
	slow := indicators.SMA(s.closes, s.slowPeriod)
	s.fastMA[0], s.fastMA[1] = s.fastMA[1], fast[len(fast)-1]
	s.slowMA[0], s.slowMA[1] = s.slowMA[1], slow[len(slow)-1]
	if s.fastMA[0] == 0 || s.slowMA[0] == 0 {
		return nil
	}

	crossOver := s.fastMA[1] > s.slowMA[1] && s.fastMA[0] <= s.slowMA[0]
	crossBelow := s.fastMA[1] < s.slowMA[1] && s.fastMA[0] >= s.slowMA[0]
	switch {
	case crossOver:
		if s.Position() < 0 {
			s.Cover(b.Close, -s.Position(), false)
		}
		s.Buy(b.Close, s.fixedSize, false)
	case crossBelow:
		if s.Position() > 0 {
			s.Sell(b.Close, s.Position(), false)
		}
		s.Short(b.Close, s.fixedSize, false)
	}
	return nil
}
