package engine

import (
	"math"
	"strconv"

	"github.com/quantfold/ctabacktester/common/mathutil"
	"github.com/quantfold/ctabacktester/order"
)

// SendOrder implements strategy.Engine. The price is rounded to the
// instrument price tick before the order is created
func (bt *BackTest) SendOrder(direction order.Direction, offset order.Offset, price, volume float64, stop bool) []string {
	price = mathutil.RoundToTick(price, bt.settings.PriceTick)
	if stop {
		return []string{bt.sendStopOrder(direction, offset, price, volume)}
	}
	return []string{bt.sendLimitOrder(direction, offset, price, volume)}
}

func (bt *BackTest) sendLimitOrder(direction order.Direction, offset order.Offset, price, volume float64) string {
	bt.limitOrderCount++
	o := &order.Order{
		ID:        strconv.Itoa(bt.limitOrderCount),
		Symbol:    bt.settings.Symbol,
		Venue:     bt.settings.Venue,
		Direction: direction,
		Offset:    offset,
		Price:     price,
		Volume:    volume,
		Status:    order.Submitting,
		Time:      bt.now,
	}
	bt.limitOrders = append(bt.limitOrders, o)
	bt.activeLimitOrders = append(bt.activeLimitOrders, o)
	return o.ID
}

func (bt *BackTest) sendStopOrder(direction order.Direction, offset order.Offset, price, volume float64) string {
	bt.stopOrderCount++
	so := &order.StopOrder{
		ID:           order.StopOrderPrefix + strconv.Itoa(bt.stopOrderCount),
		Symbol:       bt.settings.Symbol,
		Venue:        bt.settings.Venue,
		Direction:    direction,
		Offset:       offset,
		TriggerPrice: price,
		Volume:       volume,
		Status:       order.StopWaiting,
		Time:         bt.now,
	}
	bt.stopOrders = append(bt.stopOrders, so)
	bt.activeStopOrders = append(bt.activeStopOrders, so)
	return so.ID
}

// crossLimitOrders evaluates every pending limit order against the record
// that just arrived. Orders submitted during the callbacks this raises are
// not part of the snapshot and wait for the next record
func (bt *BackTest) crossLimitOrders() error {
	var longCrossPrice, shortCrossPrice, longBestPrice, shortBestPrice float64
	if bt.settings.Mode == ModeBar {
		longCrossPrice = bt.bar.Low
		shortCrossPrice = bt.bar.High
		longBestPrice = bt.bar.Open
		shortBestPrice = bt.bar.Open
	} else {
		longCrossPrice = bt.tick.AskPrice1
		shortCrossPrice = bt.tick.BidPrice1
		longBestPrice = longCrossPrice
		shortBestPrice = shortCrossPrice
	}

	snapshot := append([]*order.Order(nil), bt.activeLimitOrders...)
	for _, o := range snapshot {
		if !o.IsActive() {
			// cancelled by a callback earlier in this pass
			continue
		}

		// the strategy observes the live state before any fill
		if o.Status == order.Submitting {
			o.Status = order.NotTraded
			if err := bt.strategy.OnOrder(o); err != nil {
				return err
			}
			if !o.IsActive() {
				// cancelled from inside the status push
				continue
			}
		}

		longCross := o.Direction == order.Long &&
			o.Price >= longCrossPrice &&
			longCrossPrice > 0
		shortCross := o.Direction == order.Short &&
			o.Price <= shortCrossPrice &&
			shortCrossPrice > 0
		if !longCross && !shortCross {
			continue
		}

		o.Traded = o.Volume
		o.Status = order.AllTraded
		if err := bt.strategy.OnOrder(o); err != nil {
			return err
		}
		bt.removeActiveLimit(o.ID)

		var tradePrice, posChange float64
		if longCross {
			tradePrice = math.Min(o.Price, longBestPrice)
			posChange = o.Volume
		} else {
			tradePrice = math.Max(o.Price, shortBestPrice)
			posChange = -o.Volume
		}

		bt.tradeCount++
		trade := &order.Trade{
			ID:        strconv.Itoa(bt.tradeCount),
			OrderID:   o.ID,
			Symbol:    o.Symbol,
			Venue:     o.Venue,
			Direction: o.Direction,
			Offset:    o.Offset,
			Price:     tradePrice,
			Volume:    o.Volume,
			Time:      bt.now,
		}
		bt.trades = append(bt.trades, trade)

		bt.strategy.AddPosition(posChange)
		if err := bt.strategy.OnTrade(trade); err != nil {
			return err
		}
	}
	return nil
}

// crossStopOrders evaluates pending stop orders. A trigger synthesises
// exactly one fully filled order at the clamped price; the stop can never
// re-trigger because it leaves the active set atomically
func (bt *BackTest) crossStopOrders() error {
	var longCrossPrice, shortCrossPrice, longBestPrice, shortBestPrice float64
	if bt.settings.Mode == ModeBar {
		longCrossPrice = bt.bar.High
		shortCrossPrice = bt.bar.Low
		longBestPrice = bt.bar.Open
		shortBestPrice = bt.bar.Open
	} else {
		longCrossPrice = bt.tick.LastPrice
		shortCrossPrice = bt.tick.LastPrice
		longBestPrice = longCrossPrice
		shortBestPrice = shortCrossPrice
	}

	snapshot := append([]*order.StopOrder(nil), bt.activeStopOrders...)
	for _, so := range snapshot {
		if !so.IsActive() {
			continue
		}

		longCross := so.Direction == order.Long && so.TriggerPrice <= longCrossPrice
		shortCross := so.Direction == order.Short && so.TriggerPrice >= shortCrossPrice
		if !longCross && !shortCross {
			continue
		}

		// synthesise the resulting order, already fully filled
		bt.limitOrderCount++
		o := &order.Order{
			ID:        strconv.Itoa(bt.limitOrderCount),
			Symbol:    bt.settings.Symbol,
			Venue:     bt.settings.Venue,
			Direction: so.Direction,
			Offset:    so.Offset,
			Price:     so.TriggerPrice,
			Volume:    so.Volume,
			Traded:    so.Volume,
			Status:    order.AllTraded,
			Time:      bt.now,
		}
		bt.limitOrders = append(bt.limitOrders, o)

		var tradePrice, posChange float64
		if longCross {
			tradePrice = math.Max(so.TriggerPrice, longBestPrice)
			posChange = o.Volume
		} else {
			tradePrice = math.Min(so.TriggerPrice, shortBestPrice)
			posChange = -o.Volume
		}

		bt.tradeCount++
		trade := &order.Trade{
			ID:        strconv.Itoa(bt.tradeCount),
			OrderID:   o.ID,
			Symbol:    o.Symbol,
			Venue:     o.Venue,
			Direction: o.Direction,
			Offset:    o.Offset,
			Price:     tradePrice,
			Volume:    o.Volume,
			Time:      bt.now,
		}
		bt.trades = append(bt.trades, trade)

		so.OrderIDs = append(so.OrderIDs, o.ID)
		so.Status = order.StopTriggered
		bt.removeActiveStop(so.ID)

		if err := bt.strategy.OnStopOrder(so); err != nil {
			return err
		}
		if err := bt.strategy.OnOrder(o); err != nil {
			return err
		}
		bt.strategy.AddPosition(posChange)
		if err := bt.strategy.OnTrade(trade); err != nil {
			return err
		}
	}
	return nil
}

// CancelOrder implements strategy.Engine, dispatching on the id prefix.
// Cancelling an unknown or terminal id is a no-op
func (bt *BackTest) CancelOrder(id string) {
	if order.IsStopOrderID(id) {
		bt.cancelStopOrder(id)
		return
	}
	bt.cancelLimitOrder(id)
}

func (bt *BackTest) cancelLimitOrder(id string) {
	o := bt.removeActiveLimit(id)
	if o == nil {
		return
	}
	o.Status = order.Cancelled
	if err := bt.strategy.OnOrder(o); err != nil && bt.deferredErr == nil {
		bt.deferredErr = err
	}
}

func (bt *BackTest) cancelStopOrder(id string) {
	so := bt.removeActiveStop(id)
	if so == nil {
		return
	}
	so.Status = order.StopCancelled
	if err := bt.strategy.OnStopOrder(so); err != nil && bt.deferredErr == nil {
		bt.deferredErr = err
	}
}

// CancelAll implements strategy.Engine, cancelling both limit and stop
// orders
func (bt *BackTest) CancelAll() {
	limitIDs := make([]string, len(bt.activeLimitOrders))
	for i := range bt.activeLimitOrders {
		limitIDs[i] = bt.activeLimitOrders[i].ID
	}
	for _, id := range limitIDs {
		bt.cancelLimitOrder(id)
	}

	stopIDs := make([]string, len(bt.activeStopOrders))
	for i := range bt.activeStopOrders {
		stopIDs[i] = bt.activeStopOrders[i].ID
	}
	for _, id := range stopIDs {
		bt.cancelStopOrder(id)
	}
}

func (bt *BackTest) removeActiveLimit(id string) *order.Order {
	for i := range bt.activeLimitOrders {
		if bt.activeLimitOrders[i].ID != id {
			continue
		}
		o := bt.activeLimitOrders[i]
		bt.activeLimitOrders = append(bt.activeLimitOrders[:i], bt.activeLimitOrders[i+1:]...)
		return o
	}
	return nil
}

func (bt *BackTest) removeActiveStop(id string) *order.StopOrder {
	for i := range bt.activeStopOrders {
		if bt.activeStopOrders[i].ID != id {
			continue
		}
		so := bt.activeStopOrders[i]
		bt.activeStopOrders = append(bt.activeStopOrders[:i], bt.activeStopOrders[i+1:]...)
		return so
	}
	return nil
}

// Orders returns every limit order recorded this run, including synthesised
// stop fills, in creation order
func (bt *BackTest) Orders() []*order.Order {
	out := make([]*order.Order, len(bt.limitOrders))
	copy(out, bt.limitOrders)
	return out
}

// StopOrders returns every stop order recorded this run in creation order
func (bt *BackTest) StopOrders() []*order.StopOrder {
	out := make([]*order.StopOrder, len(bt.stopOrders))
	copy(out, bt.stopOrders)
	return out
}

// Trades returns every trade recorded this run in fill order
func (bt *BackTest) Trades() []*order.Trade {
	out := make([]*order.Trade, len(bt.trades))
	copy(out, bt.trades)
	return out
}
