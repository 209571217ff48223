// Package data defines the bar and tick records replayed by the backtesting
// engine along with the historical data provider contract and its memoising
// wrapper
package data

import (
	"fmt"
	"strings"
	"time"
)

// Duration converts the interval to a time.Duration
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// Delta is the smallest step separating two consecutive records of this
// interval, used when stitching adjacent load ranges together
func (i Interval) Delta() time.Duration {
	return i.Duration()
}

// String implements the stringer interface
func (i Interval) String() string {
	switch i {
	case OneMin:
		return "1m"
	case OneHour:
		return "1h"
	case OneDay:
		return "1d"
	default:
		return i.Duration().String()
	}
}

// ParseInterval converts a config string to an Interval
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(s) {
	case "1m", "minute":
		return OneMin, nil
	case "1h", "hour":
		return OneHour, nil
	case "1d", "day", "daily":
		return OneDay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
}
