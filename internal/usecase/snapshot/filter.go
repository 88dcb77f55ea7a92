package snapshot

import (
	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
)

// ChangeFilter suppresses snapshots whose visible top-10 view is identical to
// the last one emitted. Only the most recently emitted snapshot is retained.
type ChangeFilter struct {
	last *snapshotv1.Snapshot
}

// NewChangeFilter creates a ChangeFilter with no baseline; the first snapshot
// offered is always emitted.
func NewChangeFilter() *ChangeFilter {
	return &ChangeFilter{}
}

// Offer decides whether the snapshot must be emitted. It returns true for the
// very first snapshot and for any snapshot whose bid or ask triples differ
// from the last emitted one; a true return updates the baseline.
func (f *ChangeFilter) Offer(snapshot *snapshotv1.Snapshot) bool {
	if f.last != nil && snapshot.TopEqual(f.last) {
		return false
	}

	f.last = snapshot
	return true
}

// Last returns the last emitted snapshot, or nil before the first emission.
func (f *ChangeFilter) Last() *snapshotv1.Snapshot {
	return f.last
}
