package store

import (
	"context"
	"sort"
	"sync"

	"tickIndex/internal/model"
	"tickIndex/internal/tickbitmap"
)

// MemoryStore keeps records in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[RecordKey]tickbitmap.Word256
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[RecordKey]tickbitmap.Word256)}
}

// Get returns the stored record, or the all-zero record for an unseen key.
func (s *MemoryStore) Get(_ context.Context, key RecordKey) (tickbitmap.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := tickbitmap.NewRecord(key.Pool, key.Word)
	if w, ok := s.records[key]; ok {
		rec.Bitmap = w
	}
	return rec, nil
}

// Put stores the record, dropping it entirely if its bitmap is zero.
func (s *MemoryStore) Put(_ context.Context, rec tickbitmap.Record) error {
	key := RecordKey{Pool: rec.Pool, Word: rec.Word}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Bitmap.IsZero() {
		delete(s.records, key)
		return nil
	}
	s.records[key] = rec.Bitmap
	return nil
}

// List returns the pool's populated records ordered by word key.
func (s *MemoryStore) List(_ context.Context, pool model.PoolKey) ([]tickbitmap.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tickbitmap.Record, 0, len(s.records))
	for key, w := range s.records {
		if key.Pool == pool {
			out = append(out, tickbitmap.Record{Pool: key.Pool, Word: key.Word, Bitmap: w})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}
