package snapshotwriterv1

import (
	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
)

// RowWriter defines the interface for serializing emitted snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotwriterv1_mock
type RowWriter interface {
	// WriteHeader writes the column header row
	WriteHeader() error
	// WriteSnapshot appends one snapshot row
	WriteSnapshot(snapshot *snapshotv1.Snapshot) error
	// Close flushes buffered rows and closes the underlying file
	Close() error
}
