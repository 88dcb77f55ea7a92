package orderbook

import (
	"fmt"
	"sort"

	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	orderbookv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Book is the full order-level book state: an order index keyed by order id
// plus one price-level map per side. Levels are created lazily on the first
// order at a price and deleted as soon as they become empty.
//
// The book is owned by a single processing run and is not safe for concurrent
// use; events are applied strictly one at a time.
type Book struct {
	BidLevels map[string]*orderbookv1.Level // canonical price -> level
	AskLevels map[string]*orderbookv1.Level // canonical price -> level
	Orders    map[string]*orderbookv1.Order // orderID -> order
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		BidLevels: make(map[string]*orderbookv1.Level),
		AskLevels: make(map[string]*orderbookv1.Level),
		Orders:    make(map[string]*orderbookv1.Order),
	}
}

// Apply runs one event through the book state machine. Add, Cancel,
// Trade/Fill and Clear mutate state; every other action leaves the book
// untouched. References to unknown order ids are no-ops, never errors: they
// reflect benign stream skew, not corruption.
func (b *Book) Apply(event *marketv1.Event) {
	switch event.Action {
	case marketv1.ActionAdd:
		b.add(event)
	case marketv1.ActionCancel:
		b.cancel(event.OrderID)
	case marketv1.ActionTrade, marketv1.ActionFill:
		b.trade(event)
	case marketv1.ActionClear:
		b.Clear()
	case marketv1.ActionOther:
		// Closed action set: anything unrecognized is an explicit no-op.
	}
}

// add inserts a new order at its price level. An event without a side, an id
// that is already resting, or a negative size leaves the book unchanged. A
// zero-size order is inserted and counts toward the level, exactly as it
// arrived on the stream. Validation happens before the side map is touched so
// a rejected add can never persist an empty level.
func (b *Book) add(event *marketv1.Event) {
	if event.Side == marketv1.SideNone || event.OrderID == "" || event.Size < 0 {
		return
	}
	if _, exists := b.Orders[event.OrderID]; exists {
		return
	}

	order := orderbookv1.NewOrder(event.OrderID, event.Side, event.Price, event.Size)

	levels := b.sideLevels(order.Side)
	key := priceKey(order.Price)
	level, exists := levels[key]
	if !exists {
		level = orderbookv1.NewLevel(order.Price)
		levels[key] = level
	}

	if err := level.AddOrder(order); err != nil {
		if level.IsEmpty() {
			delete(levels, key)
		}
		return
	}

	b.Orders[order.ID] = order
}

// cancel removes a resting order and its level when the level becomes empty.
func (b *Book) cancel(orderID string) {
	order, exists := b.Orders[orderID]
	if !exists {
		return
	}

	b.removeOrder(order)
}

// trade reduces the referenced order's remaining size by the traded size,
// clipped to what is actually resting. An order left with no remaining size,
// including one that rested at size zero, is removed the same way a cancel
// removes it. Trades without a side never alter the book.
func (b *Book) trade(event *marketv1.Event) {
	if event.Side == marketv1.SideNone {
		return
	}

	order, exists := b.Orders[event.OrderID]
	if !exists {
		return
	}

	amount := event.Size
	if amount > order.Size {
		amount = order.Size
	}

	if amount > 0 {
		levels := b.sideLevels(order.Side)
		level, exists := levels[priceKey(order.Price)]
		if !exists {
			return
		}
		if err := level.ReduceOrder(order, amount); err != nil {
			return
		}
	}

	if order.IsFilled() {
		b.removeOrder(order)
	}
}

// Clear empties both sides and the order index atomically.
func (b *Book) Clear() {
	b.BidLevels = make(map[string]*orderbookv1.Level)
	b.AskLevels = make(map[string]*orderbookv1.Level)
	b.Orders = make(map[string]*orderbookv1.Order)
}

// removeOrder deletes an order from its level and the index, dropping the
// level if it no longer holds any orders.
func (b *Book) removeOrder(order *orderbookv1.Order) {
	levels := b.sideLevels(order.Side)
	key := priceKey(order.Price)

	if level, exists := levels[key]; exists {
		if err := level.RemoveOrder(order); err == nil && level.IsEmpty() {
			delete(levels, key)
		}
	}

	delete(b.Orders, order.ID)
}

// Lookup returns the resting order with the given id, if any.
func (b *Book) Lookup(orderID string) (*orderbookv1.Order, bool) {
	order, exists := b.Orders[orderID]
	return order, exists
}

// Bids returns bid levels sorted by price (descending).
func (b *Book) Bids() orderbookv1.Levels {
	var levels orderbookv1.Levels
	for _, level := range b.BidLevels {
		levels = append(levels, level)
	}
	sort.Sort(orderbookv1.ByBestBid{Levels: levels})
	return levels
}

// Asks returns ask levels sorted by price (ascending).
func (b *Book) Asks() orderbookv1.Levels {
	var levels orderbookv1.Levels
	for _, level := range b.AskLevels {
		levels = append(levels, level)
	}
	sort.Sort(orderbookv1.ByBestAsk{Levels: levels})
	return levels
}

// Depth returns the zero-based rank of the level at the given price within
// its side's ordering, and whether such a level exists.
func (b *Book) Depth(side marketv1.Side, price decimal.Decimal) (int, bool) {
	var levels orderbookv1.Levels
	switch side {
	case marketv1.SideBid:
		levels = b.Bids()
	case marketv1.SideAsk:
		levels = b.Asks()
	default:
		return 0, false
	}

	for i, level := range levels {
		if level.Price.Equal(price) {
			return i, true
		}
	}
	return 0, false
}

// OrderDepth returns the rank of the level holding the resting order with the
// given id, and whether that order is currently resting.
func (b *Book) OrderDepth(orderID string) (int, bool) {
	order, exists := b.Orders[orderID]
	if !exists {
		return 0, false
	}
	return b.Depth(order.Side, order.Price)
}

// Validate checks the book's structural invariants: every level is internally
// consistent, non-empty and keyed by its own price, and every indexed order is
// a member of exactly the level its price points to.
func (b *Book) Validate() error {
	for _, side := range []map[string]*orderbookv1.Level{b.BidLevels, b.AskLevels} {
		for key, level := range side {
			if level.IsEmpty() {
				return fmt.Errorf("empty level persisted at price %s", key)
			}
			if key != priceKey(level.Price) {
				return fmt.Errorf("level keyed %s holds price %s", key, level.Price)
			}
			if err := level.Validate(); err != nil {
				return err
			}
		}
	}

	for id, order := range b.Orders {
		level, exists := b.sideLevels(order.Side)[priceKey(order.Price)]
		if !exists {
			return fmt.Errorf("order %s indexed without a level at %s", id, order.Price)
		}
		found := false
		for _, member := range level.Orders {
			if member == order {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("order %s missing from its level at %s", id, order.Price)
		}
	}

	return nil
}

// sideLevels picks the level map for a side. Callers never pass SideNone.
func (b *Book) sideLevels(side marketv1.Side) map[string]*orderbookv1.Level {
	if side == marketv1.SideBid {
		return b.BidLevels
	}
	return b.AskLevels
}

// priceKey canonicalizes a price for use as a map key, so that "100.00" and
// "100.0" land on the same level.
func priceKey(price decimal.Decimal) string {
	return price.String()
}
