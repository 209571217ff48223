// Package strategy defines the contract between the backtesting engine and a
// trading strategy along with the base template strategies embed
package strategy

import (
	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
)

// Base is the no-op implementation of Handler. Each strategy instance owns
// its Base by value; nothing here is shared between instances
type Base struct {
	engine  Engine
	inited  bool
	trading bool
	pos     float64
}

// Bind attaches the owning engine. Called once before OnInit
func (b *Base) Bind(e Engine) { b.engine = e }

// Inited reports whether OnInit has completed
func (b *Base) Inited() bool { return b.inited }

// SetInited is called by the engine after OnInit returns
func (b *Base) SetInited(v bool) { b.inited = v }

// Trading reports whether the trading phase has begun. Order helpers are
// inert until it is set
func (b *Base) Trading() bool { return b.trading }

// SetTrading is called by the engine around OnStart/OnStop
func (b *Base) SetTrading(v bool) { b.trading = v }

// Position returns the strategy's current net signed position
func (b *Base) Position() float64 { return b.pos }

// AddPosition applies a signed fill to the position counter. Only the
// matching engine calls this, immediately after generating a trade
func (b *Base) AddPosition(delta float64) { b.pos += delta }

// OnInit is a no-op default
func (b *Base) OnInit() error { return nil }

// OnStart is a no-op default
func (b *Base) OnStart() error { return nil }

// OnStop is a no-op default
func (b *Base) OnStop() error { return nil }

// OnBar is a no-op default
func (b *Base) OnBar(*data.Bar) error { return nil }

// OnTick is a no-op default
func (b *Base) OnTick(*data.Tick) error { return nil }

// OnOrder is a no-op default
func (b *Base) OnOrder(*order.Order) error { return nil }

// OnTrade is a no-op default
func (b *Base) OnTrade(*order.Trade) error { return nil }

// OnStopOrder is a no-op default
func (b *Base) OnStopOrder(*order.StopOrder) error { return nil }

// SetCustomSettings rejects any custom settings by default
func (b *Base) SetCustomSettings(settings map[string]interface{}) error {
	if len(settings) > 0 {
		return ErrCustomSettingsUnsupported
	}
	return nil
}

// Variables reports the base state every strategy carries
func (b *Base) Variables() map[string]interface{} {
	return map[string]interface{}{
		"inited":  b.inited,
		"trading": b.trading,
		"pos":     b.pos,
	}
}

// Buy opens a long position
func (b *Base) Buy(price, volume float64, stop bool) []string {
	return b.sendOrder(order.Long, order.Open, price, volume, stop)
}

// Sell closes a long position
func (b *Base) Sell(price, volume float64, stop bool) []string {
	return b.sendOrder(order.Short, order.Close, price, volume, stop)
}

// Short opens a short position
func (b *Base) Short(price, volume float64, stop bool) []string {
	return b.sendOrder(order.Short, order.Open, price, volume, stop)
}

// Cover closes a short position
func (b *Base) Cover(price, volume float64, stop bool) []string {
	return b.sendOrder(order.Long, order.Close, price, volume, stop)
}

func (b *Base) sendOrder(d order.Direction, o order.Offset, price, volume float64, stop bool) []string {
	if !b.trading || b.engine == nil {
		return nil
	}
	return b.engine.SendOrder(d, o, price, volume, stop)
}

// CancelOrder cancels a single order while trading
func (b *Base) CancelOrder(id string) {
	if !b.trading || b.engine == nil {
		return
	}
	b.engine.CancelOrder(id)
}

// CancelAll cancels every active order while trading
func (b *Base) CancelAll() {
	if !b.trading || b.engine == nil {
		return
	}
	b.engine.CancelAll()
}

// LoadBarHistory pushes warm-up bars through cb, defaulting to nothing when
// unbound so strategies are testable standalone
func (b *Base) LoadBarHistory(days int, interval data.Interval, cb func(*data.Bar) error) error {
	if b.engine == nil {
		return nil
	}
	return b.engine.LoadBarHistory(days, interval, cb)
}

// LoadTickHistory pushes warm-up ticks through cb
func (b *Base) LoadTickHistory(days int, cb func(*data.Tick) error) error {
	if b.engine == nil {
		return nil
	}
	return b.engine.LoadTickHistory(days, cb)
}

// EngineType reports the type of the bound engine
func (b *Base) EngineType() EngineType {
	if b.engine == nil {
		return Backtesting
	}
	return b.engine.Type()
}

// PriceTick returns the instrument price tick of the bound engine
func (b *Base) PriceTick() float64 {
	if b.engine == nil {
		return 0
	}
	return b.engine.PriceTick()
}

// ContractSize returns the contract multiplier of the bound engine
func (b *Base) ContractSize() float64 {
	if b.engine == nil {
		return 0
	}
	return b.engine.ContractSize()
}

// WriteLog forwards a log line to the engine
func (b *Base) WriteLog(msg string) {
	if b.engine == nil {
		return
	}
	b.engine.WriteLog(msg)
}
