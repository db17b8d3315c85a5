package index

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tickIndex/internal/model"
	"tickIndex/internal/store"
	"tickIndex/internal/tickbitmap"
)

func testPool() model.PoolKey {
	return model.PoolKey{
		Token0: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Token1: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Fee:    500,
	}
}

func newTestIndex() *Index {
	return New(store.NewMemoryStore(), nil)
}

func TestFlipTickToggles(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex()
	pool := testPool()

	if err := ix.FlipTick(ctx, pool, 60, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, err := ix.IsTickInitialized(ctx, pool, 60, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set {
		t.Fatalf("tick must be initialized after one flip")
	}

	if err := ix.FlipTick(ctx, pool, 60, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, err = ix.IsTickInitialized(ctx, pool, 60, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set {
		t.Fatalf("tick must be uninitialized after a second flip")
	}
}

func TestFlipTickValidation(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex()
	pool := testPool()

	if err := ix.FlipTick(ctx, pool, 7, 3); !errors.Is(err, tickbitmap.ErrInvalidTickAlignment) {
		t.Fatalf("expected ErrInvalidTickAlignment, got %v", err)
	}
	if err := ix.FlipTick(ctx, pool, 500000, 1); !errors.Is(err, tickbitmap.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := ix.FlipTick(ctx, pool, 0, 0); !errors.Is(err, tickbitmap.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for zero spacing, got %v", err)
	}

	bad := pool
	bad.Token1 = bad.Token0
	if err := ix.FlipTick(ctx, bad, 60, 10); err == nil {
		t.Fatalf("expected pool key validation error")
	}
}

func TestNextInitializedTickWithinWord(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex()
	pool := testPool()

	// tick 60 with spacing 10 sits at word 0, bit 6.
	if err := ix.FlipTick(ctx, pool, 60, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next, found, err := ix.NextInitializedTick(ctx, pool, 0, 10, tickbitmap.SearchRightExclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || next != 60 {
		t.Fatalf("right from 0: got (%d, %v), want (60, true)", next, found)
	}

	next, found, err = ix.NextInitializedTick(ctx, pool, 60, 10, tickbitmap.SearchLeftInclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || next != 60 {
		t.Fatalf("left from 60: got (%d, %v), want (60, true)", next, found)
	}

	next, found, err = ix.NextInitializedTick(ctx, pool, 100, 10, tickbitmap.SearchLeftInclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || next != 60 {
		t.Fatalf("left from 100: got (%d, %v), want (60, true)", next, found)
	}

	// Nothing above bit 6 in word 0: the right boundary is bit 255.
	next, found, err = ix.NextInitializedTick(ctx, pool, 60, 10, tickbitmap.SearchRightExclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || next != 2550 {
		t.Fatalf("right from 60: got (%d, %v), want (2550, false)", next, found)
	}

	// Nothing below bit 6 either: the left boundary is bit 0.
	next, found, err = ix.NextInitializedTick(ctx, pool, 50, 10, tickbitmap.SearchLeftInclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || next != 0 {
		t.Fatalf("left from 50: got (%d, %v), want (0, false)", next, found)
	}
}

func TestNextInitializedTickNegativeWord(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex()
	pool := testPool()

	// tick -2560 with spacing 10 is tick/spacing -256: word -1, bit 0.
	if err := ix.FlipTick(ctx, pool, -2560, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next, found, err := ix.NextInitializedTick(ctx, pool, -10, 10, tickbitmap.SearchLeftInclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || next != -2560 {
		t.Fatalf("left from -10: got (%d, %v), want (-2560, true)", next, found)
	}

	next, found, err = ix.NextInitializedTick(ctx, pool, -2560, 10, tickbitmap.SearchRightExclusive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || next != -10 {
		t.Fatalf("right from -2560: got (%d, %v), want (-10, false)", next, found)
	}
}

func TestPoolsDoNotShareRecords(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex()
	pool := testPool()
	other := pool
	other.Fee = 3000

	if err := ix.FlipTick(ctx, pool, 60, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set, err := ix.IsTickInitialized(ctx, other, 60, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set {
		t.Fatalf("flip leaked across pool identities")
	}
}
