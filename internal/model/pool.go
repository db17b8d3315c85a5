package model

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// MaxFee is the largest enabled fee tier, in hundredths of a bip (100%).
const MaxFee uint32 = 1_000_000

// PoolKey identifies a pool by its ordered token pair and fee tier. Every
// bitmap record is pinned to exactly one PoolKey; two pools never share a
// record.
type PoolKey struct {
	Token0 common.Address `json:"token0"`
	Token1 common.Address `json:"token1"`
	Fee    uint32         `json:"fee"`
}

// Validate checks that both tokens are set, distinct, ordered, and that the
// fee is within the enabled range.
func (k PoolKey) Validate() error {
	var zero common.Address
	if k.Token0 == zero || k.Token1 == zero {
		return fmt.Errorf("pool tokens must be set")
	}
	if k.Token0 == k.Token1 {
		return fmt.Errorf("pool tokens must differ: %s", k.Token0.Hex())
	}
	if bytes.Compare(k.Token0.Bytes(), k.Token1.Bytes()) > 0 {
		return fmt.Errorf("pool tokens out of order: %s > %s", k.Token0.Hex(), k.Token1.Hex())
	}
	if k.Fee > MaxFee {
		return fmt.Errorf("fee %d exceeds limit %d", k.Fee, MaxFee)
	}
	return nil
}

// String renders the key as token0/token1/fee.
func (k PoolKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Token0.Hex(), k.Token1.Hex(), k.Fee)
}
