// Package rsirev implements an RSI reversion strategy. Entries are limit
// orders against stretched RSI readings; exits are protective stop orders
// trailed every bar
package rsirev

import (
	"fmt"

	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/strategy"
)

const (
	// Name is the strategy name
	Name          = "rsi-reversion"
	rsiPeriodKey  = "rsi-period"
	rsiLowKey     = "rsi-low"
	rsiHighKey    = "rsi-high"
	fixedSizeKey  = "fixed-size"
	trailingKey   = "trailing-percent"
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

	rsiPeriod  int
	rsiLow     float64
	rsiHigh    float64
	fixedSize  float64
	trailing   float64
	warmupDays int

	closes    []float64
	rsiValue  float64
	highSince float64
	lowSince  float64
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiPeriod = 14
	s.rsiLow = 30
	s.rsiHigh = 70
	s.fixedSize = 1
	s.trailing = 2
	s.warmupDays = 10
}

// SetCustomSettings applies strategy parameters from config
func (s *Strategy) SetCustomSettings(settings map[string]interface{}) error {
	for k, v := range settings {
		value, ok := v.(float64)
		if !ok || value <= 0 {
			return fmt.Errorf("%w provided %v value could not be parsed: %v", strategy.ErrInvalidCustomSettings, k, v)
		}
		switch k {
		case rsiPeriodKey:
			s.rsiPeriod = int(value)
		case rsiLowKey:
			s.rsiLow = value
		case rsiHighKey:
			s.rsiHigh = value
		case fixedSizeKey:
			s.fixedSize = value
		case trailingKey:
			s.trailing = value
		case warmupDaysKey:
			s.warmupDays = int(value)
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", strategy.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.rsiLow >= s.rsiHigh {
		return fmt.Errorf("%w rsi-low %v must be below rsi-high %v", strategy.ErrInvalidCustomSettings, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// Variables reports the strategy state for the run report
func (s *Strategy) Variables() map[string]interface{} {
	v := s.Base.Variables()
	v["rsi"] = s.rsiValue
	return v
}

// OnInit replays warm-up history so the RSI is primed before trading
func (s *Strategy) OnInit() error {
	s.WriteLog("initialising rsi reversion strategy")
	return s.LoadBarHistory(s.warmupDays, data.OneMin, s.OnBar)
}

// OnBar recomputes the RSI and manages the position. Stale protective stops
// are cancelled and requoted from the latest extreme each bar
func (s *Strategy) OnBar(b *data.Bar) error {
	s.CancelAll()

	s.closes = append(s.closes, b.Close)
	if len(s.closes) <= s.rsiPeriod {
		return nil
	}
	rsi := indicators.RSI(s.closes, s.rsiPeriod)
	s.rsiValue = rsi[len(rsi)-1]

	switch {
	case s.Position() == 0:
		s.highSince = b.High
		s.lowSince = b.Low
		if s.rsiValue <= s.rsiLow {
			s.Buy(b.Close, s.fixedSize, false)
		} else if s.rsiValue >= s.rsiHigh {
			s.Short(b.Close, s.fixedSize, false)
		}
	case s.Position() > 0:
		if b.High > s.highSince {
			s.highSince = b.High
		}
		stopPrice := s.highSince * (1 - s.trailing/100)
		s.Sell(stopPrice, s.Position(), true)
	default:
		if b.Low < s.lowSince {
			s.lowSince = b.Low
		}
		stopPrice := s.lowSince * (1 + s.trailing/100)
		s.Cover(stopPrice, -s.Position(), true)
	}
	return nil
}
