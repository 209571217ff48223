package order

import "strings"

// String implements the stringer interface
func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposing direction
func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

// String implements the stringer interface
func (o Offset) String() string {
	switch o {
	case Open:
		return "OPEN"
	case Close:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// String implements the stringer interface
func (s Status) String() string {
	switch s {
	case Submitting:
		return "SUBMITTING"
	case NotTraded:
		return "NOTTRADED"
	case AllTraded:
		return "ALLTRADED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// IsActive returns whether the status still allows fills or cancellation
func (s Status) IsActive() bool {
	return s == Submitting || s == NotTraded
}

// String implements the stringer interface
func (s StopStatus) String() string {
	switch s {
	case StopWaiting:
		return "WAITING"
	case StopCancelled:
		return "CANCELLED"
	case StopTriggered:
		return "TRIGGERED"
	default:
		return "UNKNOWN"
	}
}

// IsActive returns whether the order can still be filled or cancelled
func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

// IsActive returns whether the stop order is still waiting on its trigger
func (s *StopOrder) IsActive() bool {
	return s.Status == StopWaiting
}

// PositionChange returns the signed volume this trade applies to a position
func (t *Trade) PositionChange() float64 {
	if t.Direction == Long {
		return t.Volume
	}
	return -t.Volume
}

// IsStopOrderID reports whether an order id belongs to a stop order
func IsStopOrderID(id string) bool {
	return strings.HasPrefix(id, StopOrderPrefix)
}
