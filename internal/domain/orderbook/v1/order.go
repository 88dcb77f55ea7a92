package orderbookv1

import (
	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
	"github.com/shopspring/decimal"
)

// Order represents a single resting order in the order book. The book's order
// index owns the one authoritative copy; a level only holds a reference.
type Order struct {
	ID    string
	Side  marketv1.Side
	Price decimal.Decimal
	Size  int64
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id string, side marketv1.Side, price decimal.Decimal, size int64) *Order {
	return &Order{
		ID:    id,
		Side:  side,
		Price: price,
		Size:  size,
	}
}

// IsBid checks if the order rests on the buy side.
func (o *Order) IsBid() bool {
	return o.Side == marketv1.SideBid
}

// IsFilled checks if the order has no remaining size.
func (o *Order) IsFilled() bool {
	return o.Size <= 0
}
