package order

import (
	"errors"
	"time"
)

// StopOrderPrefix distinguishes stop order identifiers from limit order
// identifiers so that a single cancel entrypoint can dispatch on the id alone
const StopOrderPrefix = "STOP."

var (
	// ErrOrderNotFound is returned when an order id cannot be matched
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidVolume is returned when an order volume is zero or negative
	ErrInvalidVolume = errors.New("order volume must be positive")
)

// Direction is the side of an order or trade
type Direction uint8

// Direction consts
const (
	Long Direction = iota + 1
	Short
)

// Offset describes whether an order opens a new position or closes an
// existing one
type Offset uint8

// Offset consts
const (
	Open Offset = iota + 1
	Close
)

// Status is the lifecycle state of a limit order
type Status uint8

// Status consts. An order starts as Submitting, becomes NotTraded on the
// first price update after submission and terminates as either AllTraded or
// Cancelled
const (
	Submitting Status = iota + 1
	NotTraded
	AllTraded
	Cancelled
)

// StopStatus is the lifecycle state of a stop order
type StopStatus uint8

// StopStatus consts
const (
	StopWaiting StopStatus = iota + 1
	StopCancelled
	StopTriggered
)

// Order is a limit order held by the matching engine until terminal
type Order struct {
	ID        string
	Symbol    string
	Venue     string
	Direction Direction
	Offset    Offset
	Price     float64
	Volume    float64
	Traded    float64
	Status    Status
	Time      time.Time
}

// StopOrder is a conditional order which synthesises a fully filled Order
// once its trigger price is touched
type StopOrder struct {
	ID           string
	Symbol       string
	Venue        string
	Direction    Direction
	Offset       Offset
	TriggerPrice float64
	Volume       float64
	Status       StopStatus
	OrderIDs     []string
	Time         time.Time
}

// Trade is an immutable fill record
type Trade struct {
	ID        string
	OrderID   string
	Symbol    string
	Venue     string
	Direction Direction
	Offset    Offset
	Price     float64
	Volume    float64
	Time      time.Time
}
