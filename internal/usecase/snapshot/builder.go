package snapshot

import (
	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	orderbookv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/orderbook/v1"
	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
	"github.com/adarshXpal/orderbook-reconstructor/internal/usecase/orderbook"
)

// Builder derives fixed-shape MBP-10 snapshots from current book state.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build produces one snapshot from the book and the event that was just
// applied to it. depth is the affected level's rank, resolved by the caller:
// for a cancel it must be captured before the order is removed, for an add
// after the order is inserted. Fill events are reported as trades.
func (b *Builder) Build(book *orderbook.Book, event *marketv1.Event, depth int) *snapshotv1.Snapshot {
	snapshot := &snapshotv1.Snapshot{
		TsRecv:       event.TsEvent, // ts_event is echoed into both timestamp columns
		TsEvent:      event.TsEvent,
		RType:        snapshotv1.RTypeMBP,
		PublisherID:  event.PublisherID,
		InstrumentID: event.InstrumentID,
		Action:       outputAction(event),
		Side:         event.Side,
		Depth:        depth,
		Price:        event.Price,
		Size:         event.Size,
		Flags:        event.Flags,
		TsInDelta:    event.TsInDelta,
		Sequence:     event.Sequence,
		Symbol:       event.Symbol,
		OrderID:      event.OrderID,
	}

	fillSide(snapshot.Bids[:], book.Bids())
	fillSide(snapshot.Asks[:], book.Asks())

	return snapshot
}

// ResolveDepth computes the rank of the level an event concerns. Cancel depth
// must be resolved against the book as it stands before the event is applied;
// add depth against the book after. Events that touch no ranked level (trades,
// clears, unknown ids) report depth zero.
func (b *Builder) ResolveDepth(book *orderbook.Book, event *marketv1.Event) int {
	switch event.Action {
	case marketv1.ActionAdd:
		if depth, ok := book.Depth(event.Side, event.Price); ok {
			return depth
		}
	case marketv1.ActionCancel:
		if depth, ok := book.OrderDepth(event.OrderID); ok {
			return depth
		}
	}
	return 0
}

// outputAction maps an input event to the action code reported on the
// snapshot: fills become trades, and an unrecognized action echoes its raw
// input code instead of the parsed placeholder.
func outputAction(event *marketv1.Event) marketv1.Action {
	switch event.Action {
	case marketv1.ActionFill:
		return marketv1.ActionTrade
	case marketv1.ActionOther:
		return marketv1.Action(event.ActionCode)
	default:
		return event.Action
	}
}

// fillSide copies up to len(slots) level triples in book order; remaining
// slots keep their zero value.
func fillSide(slots []snapshotv1.BookLevel, levels orderbookv1.Levels) {
	for i, level := range levels {
		if i >= len(slots) {
			break
		}
		slots[i] = snapshotv1.BookLevel{
			Price: level.Price,
			Size:  level.TotalSize,
			Count: level.OrderCount(),
		}
	}
}
