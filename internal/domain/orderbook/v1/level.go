package orderbookv1

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrNilOrder      = errors.New("order cannot be nil")
	ErrInvalidSize   = errors.New("invalid size")
	ErrOrderNotFound = errors.New("order not found in level")
)

// Level represents a price level in the order book with its resting orders.
// Member orders are kept sorted by order id, the tie-break used everywhere in
// place of arrival-time priority.
type Level struct {
	Price     decimal.Decimal `json:"price"`
	Orders    []*Order        `json:"orders"`
	TotalSize int64           `json:"totalSize"`
}

// NewLevel creates a new Level at the specified price.
func NewLevel(price decimal.Decimal) *Level {
	return &Level{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder adds an order to the level and updates the aggregate size. A
// zero-size order is a valid member and counts toward the level's order
// count; only negative sizes are rejected.
func (l *Level) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Size < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, order.Size)
	}

	i := sort.Search(len(l.Orders), func(i int) bool {
		return l.Orders[i].ID >= order.ID
	})
	l.Orders = append(l.Orders, nil)
	copy(l.Orders[i+1:], l.Orders[i:])
	l.Orders[i] = order
	l.TotalSize += order.Size

	return nil
}

// RemoveOrder removes an order from the level and updates the aggregate size.
func (l *Level) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalSize -= order.Size
			return nil
		}
	}

	return ErrOrderNotFound
}

// ReduceOrder lowers a member order's remaining size by amount and keeps the
// aggregate size in sync. The caller clips amount to the order's remaining size.
func (l *Level) ReduceOrder(order *Order, amount int64) error {
	if order == nil {
		return ErrNilOrder
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, amount)
	}

	for _, o := range l.Orders {
		if o == order {
			order.Size -= amount
			l.TotalSize -= amount
			return nil
		}
	}

	return ErrOrderNotFound
}

// IsEmpty checks if the level has no orders.
func (l *Level) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this level.
func (l *Level) OrderCount() int {
	return len(l.Orders)
}

// Validate performs basic validation of the level's state: the aggregate size
// must equal the sum of the member orders' remaining sizes.
func (l *Level) Validate() error {
	var calculated int64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in level %s", l.Price)
		}
		if order.Size < 0 {
			return fmt.Errorf("%w: order %s has size %d", ErrInvalidSize, order.ID, order.Size)
		}
		calculated += order.Size
	}

	if calculated != l.TotalSize {
		return fmt.Errorf("size mismatch at level %s: calculated %d, stored %d", l.Price, calculated, l.TotalSize)
	}

	return nil
}
