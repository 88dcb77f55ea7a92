package snapshotpublisherv1

import (
	"context"

	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
)

// Publisher defines the interface for streaming emitted snapshots downstream.
type Publisher interface {
	// PublishSnapshot publishes one emitted snapshot
	PublishSnapshot(ctx context.Context, snapshot *snapshotv1.Snapshot) error
	// Close closes the publisher
	Close() error
}
