package config

import (
	"errors"
	"time"
)

var (
	// ErrNoStrategy is returned when the config names no strategy
	ErrNoStrategy = errors.New("no strategy set")
	// ErrNoDataSource is returned when no data source section is present
	ErrNoDataSource = errors.New("no data source configured")
	// ErrMultipleDataSources is returned when more than one data source
	// section is present
	ErrMultipleDataSources = errors.New("only one data source may be configured")
	// ErrFileNotFound is returned when the config path does not exist
	ErrFileNotFound = errors.New("config file not found")
)

// Config defines an individual backtest run: the strategy, the instrument,
// the data source and optionally an optimisation grid
type Config struct {
	StrategyToLoad string                 `json:"strategy"`
	CustomSettings map[string]interface{} `json:"custom-settings,omitempty"`

	InstrumentSettings InstrumentSettings `json:"instrument-settings"`
	StatisticSettings  StatisticSettings  `json:"statistic-settings"`

	CSVData      *CSVData      `json:"csv-data,omitempty"`
	DatabaseData *DatabaseData `json:"database-data,omitempty"`

	Optimization *OptimizationSettings `json:"optimization,omitempty"`
}

// InstrumentSettings stores instrument and cost model variables
type InstrumentSettings struct {
	Symbol         string    `json:"symbol"`
	Venue          string    `json:"venue"`
	Interval       string    `json:"interval"`
	Mode           string    `json:"mode"`
	StartDate      time.Time `json:"start-date"`
	EndDate        time.Time `json:"end-date"`
	CommissionRate float64   `json:"commission-rate"`
	Slippage       float64   `json:"slippage"`
	ContractSize   float64   `json:"contract-size"`
	PriceTick      float64   `json:"price-tick"`
	Capital        float64   `json:"capital"`
}

// StatisticSettings parameterises the performance report
type StatisticSettings struct {
	RiskFree   float64 `json:"risk-free"`
	AnnualDays int     `json:"annual-days"`
	HalfLife   float64 `json:"half-life"`
}

// CSVData loads history from local csv files
type CSVData struct {
	BarPath  string `json:"bar-path,omitempty"`
	TickPath string `json:"tick-path,omitempty"`
}

// DatabaseData loads history from a sqlite or postgres database
type DatabaseData struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// OptimizationSettings defines the brute force parameter grid
type OptimizationSettings struct {
	Target     string      `json:"target"`
	Workers    int         `json:"workers"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is one axis of the optimisation grid. A zero step fixes the
// value at start
type Parameter struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end,omitempty"`
	Step  float64 `json:"step,omitempty"`
}
