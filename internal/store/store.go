package store

import (
	"context"

	"tickIndex/internal/model"
	"tickIndex/internal/tickbitmap"
)

// RecordKey addresses one bitmap record: the owning pool plus the word key.
type RecordKey struct {
	Pool model.PoolKey
	Word tickbitmap.WordKey
}

// Store persists tick bitmap records.
//
// Get returns the all-zero record for a key that was never written. Put may
// drop records whose bitmap is zero, since an all-zero record is
// indistinguishable from an absent one.
type Store interface {
	Get(ctx context.Context, key RecordKey) (tickbitmap.Record, error)
	Put(ctx context.Context, rec tickbitmap.Record) error
	List(ctx context.Context, pool model.PoolKey) ([]tickbitmap.Record, error)
}
