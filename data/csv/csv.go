// Package csv loads historical bars or ticks from flat files into an
// in-memory provider. Bar rows are `unix,open,high,low,close,volume`; tick
// rows are `unix,last,volume,bid1,ask1,bidvol1,askvol1,limitup,limitdown`.
// A header row is skipped when the first field does not parse as a number
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantfold/ctabacktester/data"
)

const (
	barFieldCount  = 6
	tickFieldCount = 9
)

// LoadBars reads an entire bar file into a static provider
func LoadBars(path, symbol, venue string, interval data.Interval) (*data.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = barFieldCount

	var bars []data.Bar
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		ts, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s:%d: bad timestamp %q", path, line, record[0])
		}
		b := data.Bar{
			Symbol:   symbol,
			Venue:    venue,
			Interval: interval,
			Time:     time.Unix(ts, 0).UTC(),
		}
		fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume}
		if err := parseFloats(record[1:], fields, path, line); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return &data.Static{Bars: bars}, nil
}

// LoadTicks reads an entire tick file into a static provider
func LoadTicks(path, symbol, venue string) (*data.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = tickFieldCount

	var ticks []data.Tick
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		ts, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s:%d: bad timestamp %q", path, line, record[0])
		}
		tk := data.Tick{
			Symbol: symbol,
			Venue:  venue,
			Time:   time.Unix(ts, 0).UTC(),
		}
		fields := []*float64{
			&tk.LastPrice, &tk.Volume,
			&tk.BidPrice1, &tk.AskPrice1,
			&tk.BidVolume1, &tk.AskVolume1,
			&tk.LimitUp, &tk.LimitDown,
		}
		if err := parseFloats(record[1:], fields, path, line); err != nil {
			return nil, err
		}
		ticks = append(ticks, tk)
	}
	return &data.Static{Ticks: ticks}, nil
}

func parseFloats(record []string, into []*float64, path string, line int) error {
	for i := range into {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return fmt.Errorf("%s:%d: bad value %q", path, line, record[i])
		}
		*into[i] = v
	}
	return nil
}
