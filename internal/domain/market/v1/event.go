package marketv1

import (
	"github.com/shopspring/decimal"
)

// Action identifies what an MBO event does to the book. The set is closed:
// any code outside it parses to ActionOther, which never mutates book state.
type Action string

const (
	// ActionAdd places a new order into the book.
	ActionAdd Action = "A"
	// ActionCancel removes a resting order from the book.
	ActionCancel Action = "C"
	// ActionTrade reduces the remaining size of a resting order.
	ActionTrade Action = "T"
	// ActionFill behaves like ActionTrade; it is reported as a trade downstream.
	ActionFill Action = "F"
	// ActionClear empties both sides of the book.
	ActionClear Action = "R"
	// ActionOther covers any unrecognized code; it leaves the book unchanged.
	ActionOther Action = "?"
)

// ParseAction maps a raw action code to an Action.
func ParseAction(code string) Action {
	switch Action(code) {
	case ActionAdd, ActionCancel, ActionTrade, ActionFill, ActionClear:
		return Action(code)
	default:
		return ActionOther
	}
}

// Mutates reports whether the action changes book state.
func (a Action) Mutates() bool {
	return a != ActionOther
}

// Side identifies which side of the book an event concerns.
type Side string

const (
	// SideBid is the buy side.
	SideBid Side = "B"
	// SideAsk is the sell side.
	SideAsk Side = "A"
	// SideNone marks an event that concerns neither side.
	SideNone Side = "N"
)

// ParseSide maps a raw side code to a Side. Unrecognized codes map to SideNone.
func ParseSide(code string) Side {
	switch Side(code) {
	case SideBid, SideAsk:
		return Side(code)
	default:
		return SideNone
	}
}

// Event represents a single MBO record consumed from the input stream.
// ActionCode keeps the raw code exactly as it appeared on the record, so an
// unrecognized action can still be echoed downstream.
type Event struct {
	TsRecv       string
	TsEvent      string
	RType        int
	PublisherID  int
	InstrumentID int
	Action       Action
	ActionCode   string
	Side         Side
	Price        decimal.Decimal
	Size         int64
	ChannelID    int
	OrderID      string
	Flags        int
	TsInDelta    int
	Sequence     int
	Symbol       string
}
