package pool

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"tickIndex/internal/index"
	"tickIndex/internal/model"
	"tickIndex/internal/tickbitmap"
)

// Pool tracks the per-pool state the tick bitmap depends on: identity, tick
// spacing, and boundary liquidity per tick. It owns the decision of when a
// tick flips. Swap execution, fee accrual, and token settlement live
// outside this package.
type Pool struct {
	Key         model.PoolKey
	TickSpacing int32

	ticks  map[int32]*TickLiquidity
	logger *zap.Logger
}

func New(key model.PoolKey, tickSpacing int32, logger *zap.Logger) (*Pool, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if tickSpacing < 1 || tickSpacing > tickbitmap.MaxTickSpacing {
		return nil, fmt.Errorf("tick spacing %d: %w", tickSpacing, tickbitmap.ErrOutOfRange)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		Key:         key,
		TickSpacing: tickSpacing,
		ticks:       make(map[int32]*TickLiquidity),
		logger:      logger,
	}, nil
}

// TickLiquidityAt returns the boundary liquidity tracked for tick, or nil
// when the tick carries none.
func (p *Pool) TickLiquidityAt(tick int32) *TickLiquidity {
	return p.ticks[tick]
}

// UpdateTickLiquidity applies a signed liquidity delta at a position
// boundary and flips the tick's bitmap bit when its gross liquidity
// transitions between zero and nonzero. This is the only path that mutates
// the bitmap.
func (p *Pool) UpdateTickLiquidity(ctx context.Context, ix *index.Index, tick int32, delta *big.Int, upper bool) error {
	if _, err := tickbitmap.DivideBySpacing(tick, p.TickSpacing); err != nil {
		return err
	}

	tl, ok := p.ticks[tick]
	if !ok {
		tl = newTickLiquidity()
		p.ticks[tick] = tl
	}

	flipped, err := tl.update(delta, upper)
	if err != nil {
		return err
	}

	if flipped {
		if err := ix.FlipTick(ctx, p.Key, tick, p.TickSpacing); err != nil {
			return err
		}
		p.logger.Debug("tick liquidity boundary flipped",
			zap.String("pool", p.Key.String()),
			zap.Int32("tick", tick),
			zap.String("gross", tl.LiquidityGross.String()),
		)
	}

	if tl.LiquidityGross.Sign() == 0 && tl.LiquidityNet.Sign() == 0 {
		delete(p.ticks, tick)
	}
	return nil
}

// NextPriceBoundary walks word by word from fromTick until an initialized
// tick is found or the representable domain is exhausted. Each within-word
// probe is bounded by the word size; this loop is the caller-side
// continuation that the index itself deliberately never performs.
func (p *Pool) NextPriceBoundary(ctx context.Context, ix *index.Index, fromTick int32, dir tickbitmap.Direction) (int32, bool, error) {
	tick := fromTick
	for {
		next, found, err := ix.NextInitializedTick(ctx, p.Key, tick, p.TickSpacing, dir)
		if err != nil {
			return 0, false, err
		}
		if found {
			return next, true, nil
		}

		// next is a window boundary with no hit. Step into the adjacent
		// word, or stop at the edge of the domain.
		boundary := next / p.TickSpacing
		if dir == tickbitmap.SearchLeftInclusive {
			if boundary-1 < tickbitmap.MinTickDivSpacing {
				return next, false, nil
			}
			tick = next - p.TickSpacing
			continue
		}

		// Rightward the boundary is bit 255 of the current word. The first
		// candidate of the next word is boundary+1, which a strictly
		// rightward search from it would skip, so probe it directly.
		if boundary+1 > tickbitmap.MaxTickDivSpacing {
			return next, false, nil
		}
		tick = next + p.TickSpacing
		set, err := ix.IsTickInitialized(ctx, p.Key, tick, p.TickSpacing)
		if err != nil {
			return 0, false, err
		}
		if set {
			return tick, true, nil
		}
	}
}
