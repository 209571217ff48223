package data

import (
	"errors"
	"time"
)

var (
	// ErrNoData is returned when a provider has nothing for the requested
	// range. Callers treat it as a warning and replay trivially
	ErrNoData = errors.New("no historical data in range")
	// ErrInvalidInterval is returned for unparseable interval strings
	ErrInvalidInterval = errors.New("invalid interval")
)

// Interval is the candle aggregation period
type Interval time.Duration

// Supported intervals
const (
	OneMin  = Interval(time.Minute)
	OneHour = Interval(time.Hour)
	OneDay  = Interval(24 * time.Hour)
)

// Bar is an OHLCV aggregate over a fixed interval
type Bar struct {
	Symbol   string
	Venue    string
	Time     time.Time
	Interval Interval
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Tick is a single market snapshot. Zero bid/ask prices mean the quote was
// missing at capture time; the matching engine guards against them
type Tick struct {
	Symbol     string
	Venue      string
	Time       time.Time
	LastPrice  float64
	Volume     float64
	BidPrice1  float64
	AskPrice1  float64
	BidVolume1 float64
	AskVolume1 float64
	LimitUp    float64
	LimitDown  float64
}

// Provider supplies ordered historical data. Implementations must return
// records in strictly ascending timestamp order with no duplicates; the
// engine does not re-sort
type Provider interface {
	LoadBars(symbol, venue string, interval Interval, start, end time.Time) ([]Bar, error)
	LoadTicks(symbol, venue string, start, end time.Time) ([]Tick, error)
}
