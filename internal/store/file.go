package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"tickIndex/internal/model"
	"tickIndex/internal/tickbitmap"
)

// FileStore persists records in a single JSON snapshot file, rewritten
// atomically on every Put. Suited to local tooling; use the postgres store
// for anything bigger.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type recordJSON struct {
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Fee      uint32 `json:"fee"`
	WordKey  int16  `json:"word_key"`
	BitmapLo string `json:"bitmap_lo"`
	BitmapHi string `json:"bitmap_hi"`
}

type snapshot struct {
	Records   []recordJSON `json:"records"`
	UpdatedAt string       `json:"updated_at"`
}

// Get returns the stored record, or the all-zero record for an unseen key.
func (s *FileStore) Get(_ context.Context, key RecordKey) (tickbitmap.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return tickbitmap.Record{}, err
	}

	rec := tickbitmap.NewRecord(key.Pool, key.Word)
	if w, ok := records[key]; ok {
		rec.Bitmap = w
	}
	return rec, nil
}

// Put rewrites the snapshot with the record updated, dropping it if its
// bitmap is zero.
func (s *FileStore) Put(_ context.Context, rec tickbitmap.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	key := RecordKey{Pool: rec.Pool, Word: rec.Word}
	if rec.Bitmap.IsZero() {
		delete(records, key)
	} else {
		records[key] = rec.Bitmap
	}
	return s.save(records)
}

// List returns the pool's populated records ordered by word key.
func (s *FileStore) List(_ context.Context, pool model.PoolKey) ([]tickbitmap.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]tickbitmap.Record, 0, len(records))
	for key, w := range records {
		if key.Pool == pool {
			out = append(out, tickbitmap.Record{Pool: key.Pool, Word: key.Word, Bitmap: w})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func (s *FileStore) load() (map[RecordKey]tickbitmap.Word256, error) {
	records := make(map[RecordKey]tickbitmap.Word256)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}

	for _, rj := range snap.Records {
		if !common.IsHexAddress(rj.Token0) || !common.IsHexAddress(rj.Token1) {
			return nil, fmt.Errorf("invalid token address in store: %s/%s", rj.Token0, rj.Token1)
		}
		lo, err := hexutil.Decode(rj.BitmapLo)
		if err != nil {
			return nil, fmt.Errorf("invalid bitmap_lo: %w", err)
		}
		hi, err := hexutil.Decode(rj.BitmapHi)
		if err != nil {
			return nil, fmt.Errorf("invalid bitmap_hi: %w", err)
		}

		var w tickbitmap.Word256
		if err := w.SetHalfBytes(lo, hi); err != nil {
			return nil, err
		}

		key := RecordKey{
			Pool: model.PoolKey{
				Token0: common.HexToAddress(rj.Token0),
				Token1: common.HexToAddress(rj.Token1),
				Fee:    rj.Fee,
			},
			Word: tickbitmap.WordKey(rj.WordKey),
		}
		records[key] = w
	}
	return records, nil
}

func (s *FileStore) save(records map[RecordKey]tickbitmap.Word256) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	keys := make([]RecordKey, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Pool.String() != keys[j].Pool.String() {
			return keys[i].Pool.String() < keys[j].Pool.String()
		}
		return keys[i].Word < keys[j].Word
	})

	snap := snapshot{
		Records:   make([]recordJSON, 0, len(keys)),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, key := range keys {
		w := records[key]
		lo, hi := w.HalfBytes()
		snap.Records = append(snap.Records, recordJSON{
			Token0:   key.Pool.Token0.Hex(),
			Token1:   key.Pool.Token1.Hex(),
			Fee:      key.Pool.Fee,
			WordKey:  int16(key.Word),
			BitmapLo: hexutil.Encode(lo[:]),
			BitmapHi: hexutil.Encode(hi[:]),
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename store: %w", err)
	}
	return nil
}
