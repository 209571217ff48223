// Package targetpos provides a strategy template that converges the held
// position onto a declared target instead of issuing orders directly. The
// embedding strategy states where it wants to be; the template quotes,
// cancels and requotes until the position arrives
package targetpos

import (
	"math"

	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/order"
	"github.com/quantfold/ctabacktester/strategy"
)

// State describes what the reconciler is currently doing
type State uint8

// State consts
const (
	// Idle means no orders are outstanding and no target is being pursued
	Idle State = iota
	// Reconciling means orders are outstanding pursuing the target
	Reconciling
	// Cancelling means stale orders are being cancelled before requoting
	Cancelling
)

// String implements the stringer interface
func (s State) String() string {
	switch s {
	case Reconciling:
		return "reconciling"
	case Cancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

// Template converges the position onto a target. Embed it instead of
// strategy.Base and route OnBar, OnTick and OnOrder through it
type Template struct {
	strategy.Base

	targetSet bool
	targetPos float64

	lastBar  *data.Bar
	lastTick *data.Tick

	activeOrderIDs  []string
	cancelRequested map[string]struct{}
}

// TargetPos returns the most recently declared target
func (t *Template) TargetPos() float64 {
	return t.targetPos
}

// State reports the reconciliation state machine position
func (t *Template) State() State {
	if len(t.activeOrderIDs) == 0 {
		return Idle
	}
	if len(t.cancelRequested) > 0 {
		return Cancelling
	}
	return Reconciling
}

// SetTargetPos declares the position the strategy wants to hold and starts
// converging towards it
func (t *Template) SetTargetPos(target float64) {
	t.targetSet = true
	t.targetPos = target
	t.trade()
}

// OnBar records the bar used for pricing requotes. Override it in the
// embedding strategy and call back in before acting on the bar
func (t *Template) OnBar(b *data.Bar) error {
	t.lastBar = b
	return nil
}

// OnTick records the tick used for pricing requotes
func (t *Template) OnTick(tick *data.Tick) error {
	t.lastTick = tick
	return nil
}

// OnOrder drops terminal orders from the active set and resumes convergence.
// This is the only path back from Reconciling towards Idle or a fresh cycle
func (t *Template) OnOrder(o *order.Order) error {
	if o.IsActive() {
		return nil
	}
	removed := false
	for i := range t.activeOrderIDs {
		if t.activeOrderIDs[i] == o.ID {
			t.activeOrderIDs = append(t.activeOrderIDs[:i], t.activeOrderIDs[i+1:]...)
			removed = true
			break
		}
	}
	delete(t.cancelRequested, o.ID)
	if removed && t.targetSet {
		t.trade()
	}
	return nil
}

// trade advances the state machine one step: cancel stale orders if any are
// outstanding, otherwise quote towards the target
func (t *Template) trade() {
	if len(t.activeOrderIDs) > 0 {
		t.cancelStale()
		return
	}
	t.sendConvergingOrder()
}

// cancelStale requests cancellation of every active order exactly once
func (t *Template) cancelStale() {
	if t.cancelRequested == nil {
		t.cancelRequested = make(map[string]struct{})
	}
	for _, id := range t.activeOrderIDs {
		if _, requested := t.cancelRequested[id]; requested {
			continue
		}
		t.cancelRequested[id] = struct{}{}
		t.CancelOrder(id)
	}
}

func (t *Template) sendConvergingOrder() {
	delta := t.targetPos - t.Position()
	if delta == 0 {
		return
	}

	price, ok := t.quotePrice(delta > 0)
	if !ok {
		return
	}

	var ids []string
	if t.EngineType() == strategy.Backtesting {
		// fills are synchronous, the full delta goes out in one order
		if delta > 0 {
			ids = t.Buy(price, delta, false)
		} else {
			ids = t.Short(price, -delta, false)
		}
	} else {
		ids = t.sendLive(delta, price)
	}
	t.activeOrderIDs = append(t.activeOrderIDs, ids...)
}

// sendLive issues at most one order: the closing leg of a position flip goes
// first and the opening remainder follows once it completes
func (t *Template) sendLive(delta, price float64) []string {
	pos := t.Position()
	if delta > 0 {
		if pos < 0 {
			return t.Cover(price, math.Min(delta, -pos), false)
		}
		return t.Buy(price, delta, false)
	}
	if pos > 0 {
		return t.Sell(price, math.Min(-delta, pos), false)
	}
	return t.Short(price, -delta, false)
}

// quotePrice prices one tick through the opposing best quote, clamped to the
// price limits when the venue reports them. Without any market data yet
// there is nothing to price against
func (t *Template) quotePrice(buying bool) (float64, bool) {
	tick := t.PriceTick()
	if t.lastTick != nil {
		if buying {
			price := t.lastTick.AskPrice1 + tick
			if t.lastTick.LimitUp > 0 {
				price = math.Min(price, t.lastTick.LimitUp)
			}
			return price, true
		}
		price := t.lastTick.BidPrice1 - tick
		if t.lastTick.LimitDown > 0 {
			price = math.Max(price, t.lastTick.LimitDown)
		}
		return price, true
	}
	if t.lastBar != nil {
		if buying {
			return t.lastBar.Close + tick, true
		}
		return t.lastBar.Close - tick, true
	}
	return 0, false
}
