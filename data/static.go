package data

import "time"

// Static is an in-memory Provider over pre-loaded slices. The CSV loader
// returns one and tests use it directly
type Static struct {
	Bars  []Bar
	Ticks []Tick
}

// LoadBars implements Provider, filtering the held bars by the inclusive
// time range
func (s *Static) LoadBars(symbol, venue string, interval Interval, start, end time.Time) ([]Bar, error) {
	var out []Bar
	for i := range s.Bars {
		if s.Bars[i].Symbol != symbol ||
			s.Bars[i].Venue != venue ||
			s.Bars[i].Interval != interval {
			continue
		}
		if s.Bars[i].Time.Before(start) || s.Bars[i].Time.After(end) {
			continue
		}
		out = append(out, s.Bars[i])
	}
	return out, nil
}

// LoadTicks implements Provider
func (s *Static) LoadTicks(symbol, venue string, start, end time.Time) ([]Tick, error) {
	var out []Tick
	for i := range s.Ticks {
		if s.Ticks[i].Symbol != symbol || s.Ticks[i].Venue != venue {
			continue
		}
		if s.Ticks[i].Time.Before(start) || s.Ticks[i].Time.After(end) {
			continue
		}
		out = append(out, s.Ticks[i])
	}
	return out, nil
}
