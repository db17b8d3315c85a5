package store

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tickIndex/internal/model"
	"tickIndex/internal/tickbitmap"
)

func testPoolKey(fee uint32) model.PoolKey {
	return model.PoolKey{
		Token0: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Token1: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Fee:    fee,
	}
}

func TestMemoryStoreUnseenKeyIsZero(t *testing.T) {
	s := NewMemoryStore()
	key := RecordKey{Pool: testPoolKey(500), Word: 42}

	rec, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Bitmap.IsZero() {
		t.Fatalf("unseen key must yield an all-zero record")
	}
	if rec.Pool != key.Pool || rec.Word != key.Word {
		t.Fatalf("record addressing mismatch: %+v", rec)
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := RecordKey{Pool: testPoolKey(500), Word: -3}

	rec := tickbitmap.NewRecord(key.Pool, key.Word)
	rec.Flip(17)
	rec.Flip(250)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bitmap != rec.Bitmap {
		t.Fatalf("bitmap mismatch: %v != %v", got.Bitmap, rec.Bitmap)
	}
}

func TestMemoryStoreZeroPutDrops(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := RecordKey{Pool: testPoolKey(3000), Word: 7}

	rec := tickbitmap.NewRecord(key.Pool, key.Word)
	rec.Flip(9)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.Flip(9)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := s.List(ctx, key.Pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("all-zero record must not be listed: %+v", records)
	}
}

func TestMemoryStoreListSortedAndScoped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	pool := testPoolKey(500)
	other := testPoolKey(3000)

	for _, word := range []tickbitmap.WordKey{5, -2, 0} {
		rec := tickbitmap.NewRecord(pool, word)
		rec.Flip(1)
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	otherRec := tickbitmap.NewRecord(other, 9)
	otherRec.Flip(1)
	if err := s.Put(ctx, otherRec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := s.List(ctx, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []tickbitmap.WordKey{-2, 0, 5} {
		if records[i].Word != want {
			t.Fatalf("record %d word: got %d, want %d", i, records[i].Word, want)
		}
	}
}
