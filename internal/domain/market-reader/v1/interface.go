package marketreaderv1

import (
	"context"

	marketv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/market/v1"
)

// EventReader defines the interface for reading MBO events from a source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketreaderv1_mock
type EventReader interface {
	// Next reads and parses the next event. It returns io.EOF when the
	// stream is exhausted.
	Next(ctx context.Context) (*marketv1.Event, error)
	// Close closes the reader
	Close() error
}
