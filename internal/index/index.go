package index

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tickIndex/internal/model"
	"tickIndex/internal/store"
	"tickIndex/internal/tickbitmap"
)

// Index exposes tick flip and next-initialized-tick search over a record
// store. Every operation is synchronous and deterministic; errors are
// reported to the caller and never retried, since a malformed tick cannot
// succeed on retry.
type Index struct {
	store  store.Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[store.RecordKey]*sync.Mutex
}

func New(st store.Store, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		store:  st,
		logger: logger,
		locks:  make(map[store.RecordKey]*sync.Mutex),
	}
}

// lockRecord returns the exclusive lock for one record key. Records never
// alias across pools or word keys, so flips on distinct records proceed
// independently; only the read-modify-write on a single record is serialized.
func (ix *Index) lockRecord(key store.RecordKey) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	lock, ok := ix.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[key] = lock
	}
	return lock
}

// locate validates a (pool, tick, spacing) triple and resolves the record
// key and bit position.
func locate(pool model.PoolKey, tick, spacing int32) (store.RecordKey, tickbitmap.BitPos, error) {
	if err := pool.Validate(); err != nil {
		return store.RecordKey{}, 0, err
	}
	tds, err := tickbitmap.DivideBySpacing(tick, spacing)
	if err != nil {
		return store.RecordKey{}, 0, err
	}
	word, bit, err := tickbitmap.Locate(tds)
	if err != nil {
		return store.RecordKey{}, 0, err
	}
	return store.RecordKey{Pool: pool, Word: word}, bit, nil
}

// FlipTick toggles the initialized bit for tick and persists the record.
// The caller owns the invariant that the flip corresponds to a real
// liquidity boundary transition.
func (ix *Index) FlipTick(ctx context.Context, pool model.PoolKey, tick, spacing int32) error {
	key, bit, err := locate(pool, tick, spacing)
	if err != nil {
		return err
	}

	lock := ix.lockRecord(key)
	lock.Lock()
	defer lock.Unlock()

	rec, err := ix.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	rec.Flip(bit)
	if err := ix.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("store record: %w", err)
	}

	ix.logger.Debug("tick flipped",
		zap.String("pool", pool.String()),
		zap.Int32("tick", tick),
		zap.Int16("word_key", int16(key.Word)),
		zap.Uint8("bit_pos", uint8(bit)),
		zap.Bool("initialized", rec.IsSet(bit)),
	)
	return nil
}

// IsTickInitialized reports whether tick currently has a set bit. Read-only;
// supports the read-then-conditionally-flip pattern.
func (ix *Index) IsTickInitialized(ctx context.Context, pool model.PoolKey, tick, spacing int32) (bool, error) {
	key, bit, err := locate(pool, tick, spacing)
	if err != nil {
		return false, err
	}
	rec, err := ix.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load record: %w", err)
	}
	return rec.IsSet(bit), nil
}

// NextInitializedTick searches within tick's word for the nearest
// initialized tick at or before it (left inclusive) or strictly after it
// (right exclusive). When initialized is false the returned tick is the
// boundary of the searched window; the caller steps to the adjacent word
// and retries if the search should continue.
func (ix *Index) NextInitializedTick(ctx context.Context, pool model.PoolKey, tick, spacing int32, dir tickbitmap.Direction) (int32, bool, error) {
	key, bit, err := locate(pool, tick, spacing)
	if err != nil {
		return 0, false, err
	}

	rec, err := ix.store.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("load record: %w", err)
	}

	next, found := rec.Bitmap.NextInitialized(bit, dir)
	nextTick, err := tickbitmap.TickFromComponents(key.Word, next, spacing)
	if err != nil {
		return 0, false, err
	}
	return nextTick, found, nil
}

// Records returns the pool's populated bitmap records ordered by word key.
func (ix *Index) Records(ctx context.Context, pool model.PoolKey) ([]tickbitmap.Record, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return ix.store.List(ctx, pool)
}
