package strategy

import (
	"errors"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
)

var (
	// ErrStrategyNotFound is returned when a strategy name has no
	// registered factory
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrAlreadyRegistered is returned when a strategy name is registered
	// twice
	ErrAlreadyRegistered = errors.New("strategy already registered")
	// ErrCustomSettingsUnsupported is returned when a strategy takes no
	// custom settings but some were supplied
	ErrCustomSettingsUnsupported = errors.New("custom settings not supported")
	// ErrInvalidCustomSettings is returned when a custom setting has the
	// wrong type or an impossible value
	ErrInvalidCustomSettings = errors.New("invalid custom settings")
)

// EngineType distinguishes a simulated engine from a live one. Strategies
// may branch on it, most notably the target position reconciler
type EngineType uint8

// EngineType consts
const (
	Backtesting EngineType = iota + 1
	Live
)

// String implements the stringer interface
func (e EngineType) String() string {
	switch e {
	case Backtesting:
		return "backtesting"
	case Live:
		return "live"
	default:
		return "unknown"
	}
}

// Engine is the surface an engine exposes to its strategy. The backtesting
// engine implements it; a live gateway would implement the same contract
type Engine interface {
	// SendOrder submits a limit order, or a stop order when stop is set,
	// returning the created order ids
	SendOrder(direction order.Direction, offset order.Offset, price, volume float64, stop bool) []string
	// CancelOrder cancels by id. Unknown or terminal ids are a no-op
	CancelOrder(id string)
	// CancelAll cancels every active limit and stop order
	CancelAll()
	// LoadBarHistory replays warm-up bars preceding the replay start
	// synchronously through cb
	LoadBarHistory(days int, interval data.Interval, cb func(*data.Bar) error) error
	// LoadTickHistory replays warm-up ticks preceding the replay start
	// synchronously through cb
	LoadTickHistory(days int, cb func(*data.Tick) error) error
	// Type reports whether orders fill in simulation or against a venue
	Type() EngineType
	// PriceTick returns the instrument price tick
	PriceTick() float64
	// ContractSize returns the instrument contract multiplier
	ContractSize() float64
	// WriteLog emits a strategy log line stamped with simulation time
	WriteLog(msg string)
}

// Handler is the strategy contract. Base provides no-op defaults for every
// callback so implementations override only what they need
type Handler interface {
	Name() string

	OnInit() error
	OnStart() error
	OnStop() error
	OnBar(*data.Bar) error
	OnTick(*data.Tick) error
	OnOrder(*order.Order) error
	OnTrade(*order.Trade) error
	OnStopOrder(*order.StopOrder) error

	// SetCustomSettings applies per-strategy parameters from config
	SetCustomSettings(map[string]interface{}) error
	// Variables reports the strategy's current state for the run report
	Variables() map[string]interface{}

	// plumbing wired by the engine
	Bind(Engine)
	Inited() bool
	SetInited(bool)
	Trading() bool
	SetTrading(bool)
	Position() float64
	AddPosition(float64)
}
