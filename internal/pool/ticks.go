package pool

import (
	"fmt"
	"math/big"
)

// TickLiquidity is the boundary liquidity bookkeeping for one tick: the
// total liquidity referencing the tick and the net change applied when the
// tick is crossed.
type TickLiquidity struct {
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
}

func newTickLiquidity() *TickLiquidity {
	return &TickLiquidity{
		LiquidityGross: new(big.Int),
		LiquidityNet:   new(big.Int),
	}
}

// update applies a signed liquidity delta at this boundary and reports
// whether the tick transitioned between initialized and uninitialized.
// upper marks the boundary as a position's upper tick, which subtracts from
// the net figure instead of adding.
func (t *TickLiquidity) update(delta *big.Int, upper bool) (bool, error) {
	grossAfter := new(big.Int).Add(t.LiquidityGross, delta)
	if grossAfter.Sign() < 0 {
		return false, fmt.Errorf("gross liquidity would become negative: %s", grossAfter)
	}

	flipped := (grossAfter.Sign() == 0) != (t.LiquidityGross.Sign() == 0)
	t.LiquidityGross = grossAfter

	if upper {
		t.LiquidityNet = new(big.Int).Sub(t.LiquidityNet, delta)
	} else {
		t.LiquidityNet = new(big.Int).Add(t.LiquidityNet, delta)
	}
	return flipped, nil
}
