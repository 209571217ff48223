// Package database loads historical bars and ticks from a SQL store. Both
// sqlite3 and postgres are supported; the schema is a plain candles/ticks
// pair of tables keyed by symbol, venue and unix timestamp
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	// database drivers
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/quantfold/ctabacktester/data"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Source is a SQL backed data.Provider
type Source struct {
	db     *sql.DB
	driver string
}

// New opens a SQL data source for the supplied driver and DSN
func New(driver, dsn string) (*Source, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}
	return &Source{db: db, driver: driver}, nil
}

// NewWithDB wraps an existing handle, used by tests
func NewWithDB(driver string, db *sql.DB) *Source {
	return &Source{db: db, driver: driver}
}

// Close releases the underlying handle
func (s *Source) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to the $n form postgres expects
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const loadBarsQuery = `SELECT timestamp, open, high, low, close, volume
FROM candles
WHERE symbol = ? AND venue = ? AND interval = ? AND timestamp BETWEEN ? AND ?
ORDER BY timestamp ASC`

// LoadBars implements data.Provider
func (s *Source) LoadBars(symbol, venue string, interval data.Interval, start, end time.Time) ([]data.Bar, error) {
	rows, err := s.db.Query(rebind(s.driver, loadBarsQuery),
		symbol, venue, interval.String(), start.Unix(), end.Unix())
	if err != nil {
		return nil, errors.Wrap(err, "could not load candles")
	}
	defer rows.Close()

	var bars []data.Bar
	for rows.Next() {
		var ts int64
		b := data.Bar{Symbol: symbol, Venue: venue, Interval: interval}
		err = rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan candle row")
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "candle row iteration failed")
	}
	return bars, nil
}

const loadTicksQuery = `SELECT timestamp, last_price, volume, bid_price_1, ask_price_1, bid_volume_1, ask_volume_1, limit_up, limit_down
FROM ticks
WHERE symbol = ? AND venue = ? AND timestamp BETWEEN ? AND ?
ORDER BY timestamp ASC`

// LoadTicks implements data.Provider
func (s *Source) LoadTicks(symbol, venue string, start, end time.Time) ([]data.Tick, error) {
	rows, err := s.db.Query(rebind(s.driver, loadTicksQuery),
		symbol, venue, start.Unix(), end.Unix())
	if err != nil {
		return nil, errors.Wrap(err, "could not load ticks")
	}
	defer rows.Close()

	var ticks []data.Tick
	for rows.Next() {
		var ts int64
		tk := data.Tick{Symbol: symbol, Venue: venue}
		err = rows.Scan(&ts,
			&tk.LastPrice,
			&tk.Volume,
			&tk.BidPrice1,
			&tk.AskPrice1,
			&tk.BidVolume1,
			&tk.AskVolume1,
			&tk.LimitUp,
			&tk.LimitDown)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan tick row")
		}
		tk.Time = time.Unix(ts, 0).UTC()
		ticks = append(ticks, tk)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "tick row iteration failed")
	}
	return ticks, nil
}
