// Package config reads and validates run configs and translates them into
// engine settings, data providers and optimisation grids
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/data/csv"
	"github.com/quantfold/ctabacktester/data/database"
	"github.com/quantfold/ctabacktester/engine"
	"github.com/quantfold/ctabacktester/optimize"
	"github.com/quantfold/ctabacktester/strategy"
)

// ReadConfigFromFile will take a config from a path
func ReadConfigFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, path)
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(d []byte) (*Config, error) {
	resp := &Config{}
	if err := json.Unmarshal(d, resp); err != nil {
		return nil, err
	}
	return resp, resp.Validate()
}

// Validate checks all config settings
func (c *Config) Validate() error {
	if c.StrategyToLoad == "" {
		return ErrNoStrategy
	}
	if _, err := strategy.New(c.StrategyToLoad); err != nil {
		return err
	}
	sources := 0
	if c.CSVData != nil {
		sources++
	}
	if c.DatabaseData != nil {
		sources++
	}
	switch {
	case sources == 0:
		return ErrNoDataSource
	case sources > 1:
		return ErrMultipleDataSources
	}
	if _, err := c.EngineSettings(); err != nil {
		return err
	}
	if c.Optimization != nil {
		if _, err := c.OptimizationSetting(); err != nil {
			return err
		}
	}
	return nil
}

// EngineSettings translates the config into validated run settings
func (c *Config) EngineSettings() (engine.Settings, error) {
	i := c.InstrumentSettings
	mode, err := engine.ParseMode(i.Mode)
	if err != nil {
		return engine.Settings{}, err
	}
	var interval data.Interval
	if mode == engine.ModeBar {
		interval, err = data.ParseInterval(i.Interval)
		if err != nil {
			return engine.Settings{}, err
		}
	}
	settings := engine.Settings{
		Symbol:       i.Symbol,
		Venue:        i.Venue,
		Interval:     interval,
		Start:        i.StartDate,
		End:          i.EndDate,
		Mode:         mode,
		Rate:         decimal.NewFromFloat(i.CommissionRate),
		Slippage:     decimal.NewFromFloat(i.Slippage),
		ContractSize: decimal.NewFromFloat(i.ContractSize),
		PriceTick:    i.PriceTick,
		Capital:      decimal.NewFromFloat(i.Capital),
		RiskFree:     c.StatisticSettings.RiskFree,
		AnnualDays:   c.StatisticSettings.AnnualDays,
		HalfLife:     c.StatisticSettings.HalfLife,
	}
	return settings, settings.Validate()
}

// Provider builds the configured data source wrapped in the shared read
// cache
func (c *Config) Provider(cacheCapacity uint64) (data.Provider, error) {
	var (
		p   data.Provider
		err error
	)
	switch {
	case c.CSVData != nil:
		p, err = c.csvProvider()
	case c.DatabaseData != nil:
		p, err = database.New(c.DatabaseData.Driver, c.DatabaseData.DSN)
	default:
		return nil, ErrNoDataSource
	}
	if err != nil {
		return nil, err
	}
	return data.NewCachedProvider(p, cacheCapacity), nil
}

func (c *Config) csvProvider() (data.Provider, error) {
	i := c.InstrumentSettings
	if c.CSVData.TickPath != "" {
		return csv.LoadTicks(c.CSVData.TickPath, i.Symbol, i.Venue)
	}
	interval, err := data.ParseInterval(i.Interval)
	if err != nil {
		return nil, err
	}
	return csv.LoadBars(c.CSVData.BarPath, i.Symbol, i.Venue, interval)
}

// OptimizationSetting translates the optimisation section into a parameter
// grid
func (c *Config) OptimizationSetting() (*optimize.Setting, error) {
	if c.Optimization == nil {
		return nil, optimize.ErrNoParameters
	}
	s := &optimize.Setting{Target: c.Optimization.Target}
	for _, p := range c.Optimization.Parameters {
		if err := s.AddParameter(p.Name, p.Start, p.End, p.Step); err != nil {
			return nil, err
		}
	}
	return s, nil
}
