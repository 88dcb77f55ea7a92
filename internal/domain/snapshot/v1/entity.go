package snapshotv1

import (
	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	"github.com/shopspring/decimal"
)

// BookDepth is the number of levels per side carried by a snapshot.
const BookDepth = 10

// RTypeMBP is the record type constant stamped on every emitted MBP row.
const RTypeMBP = 10

// BookLevel is one (price, aggregate size, order count) triple of a snapshot.
// A zero BookLevel marks a slot with no level behind it.
type BookLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
	Count int             `json:"count"`
}

// Equal reports whether two triples match field by field, using exact equality.
func (b BookLevel) Equal(other BookLevel) bool {
	return b.Price.Equal(other.Price) && b.Size == other.Size && b.Count == other.Count
}

// Snapshot is one immutable MBP-10 view of the book, derived from current book
// state plus the event that triggered it.
type Snapshot struct {
	TsRecv       string               `json:"tsRecv"`
	TsEvent      string               `json:"tsEvent"`
	RType        int                  `json:"rtype"`
	PublisherID  int                  `json:"publisherID"`
	InstrumentID int                  `json:"instrumentID"`
	Action       marketv1.Action      `json:"action"`
	Side         marketv1.Side        `json:"side"`
	Depth        int                  `json:"depth"`
	Price        decimal.Decimal      `json:"price"`
	Size         int64                `json:"size"`
	Flags        int                  `json:"flags"`
	TsInDelta    int                  `json:"tsInDelta"`
	Sequence     int                  `json:"sequence"`
	Bids         [BookDepth]BookLevel `json:"bids"`
	Asks         [BookDepth]BookLevel `json:"asks"`
	Symbol       string               `json:"symbol"`
	OrderID      string               `json:"orderID"`
}

// TopEqual reports whether the visible top-of-book view of two snapshots is
// identical across all bid and ask slots. Event metadata is not compared.
func (s *Snapshot) TopEqual(other *Snapshot) bool {
	for i := 0; i < BookDepth; i++ {
		if !s.Bids[i].Equal(other.Bids[i]) || !s.Asks[i].Equal(other.Asks[i]) {
			return false
		}
	}
	return true
}
