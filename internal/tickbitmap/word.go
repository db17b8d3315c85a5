package tickbitmap

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/holiman/uint256"
)

const wordLimbs = 4

// Word256 is a 256-bit bitmap held as four 64-bit limbs, least significant
// limb first. Bit 0 is the lowest bit of limb 0. The flat 256-bit view is
// used for all bit arithmetic; the two 128-bit halves exist only at the
// persistence boundary.
type Word256 [wordLimbs]uint64

// Flip toggles the bit at pos. Flipping the same position twice restores
// the word; there is no direct set or clear.
func (w *Word256) Flip(pos BitPos) {
	w[pos/64] ^= 1 << (pos % 64)
}

// IsSet reports whether the bit at pos is set.
func (w Word256) IsSet(pos BitPos) bool {
	return w[pos/64]&(1<<(pos%64)) != 0
}

// IsZero reports whether no bit is set. An all-zero word is semantically
// indistinguishable from an absent record.
func (w Word256) IsZero() bool {
	return w[0]|w[1]|w[2]|w[3] == 0
}

// Count returns the number of set bits.
func (w Word256) Count() int {
	n := 0
	for _, limb := range w {
		n += bits.OnesCount64(limb)
	}
	return n
}

// Halves returns the persisted representation: the low half holds bits
// 0-127, the high half bits 128-255.
func (w Word256) Halves() (lo, hi *uint256.Int) {
	lo = &uint256.Int{w[0], w[1], 0, 0}
	hi = &uint256.Int{w[2], w[3], 0, 0}
	return lo, hi
}

// SetHalves restores a word from its two 128-bit halves.
func (w *Word256) SetHalves(lo, hi *uint256.Int) error {
	if lo.BitLen() > 128 || hi.BitLen() > 128 {
		return fmt.Errorf("bitmap half wider than 128 bits: %w", ErrOutOfRange)
	}
	w[0], w[1] = lo[0], lo[1]
	w[2], w[3] = hi[0], hi[1]
	return nil
}

// HalfBytes returns each half as 16 big-endian bytes, the byte-for-byte
// storage form.
func (w Word256) HalfBytes() (lo, hi [16]byte) {
	binary.BigEndian.PutUint64(lo[0:8], w[1])
	binary.BigEndian.PutUint64(lo[8:16], w[0])
	binary.BigEndian.PutUint64(hi[0:8], w[3])
	binary.BigEndian.PutUint64(hi[8:16], w[2])
	return lo, hi
}

// SetHalfBytes restores a word from two 16-byte big-endian halves.
func (w *Word256) SetHalfBytes(lo, hi []byte) error {
	if len(lo) != 16 || len(hi) != 16 {
		return fmt.Errorf("bitmap half must be 16 bytes, got %d and %d: %w", len(lo), len(hi), ErrOutOfRange)
	}
	w[1] = binary.BigEndian.Uint64(lo[0:8])
	w[0] = binary.BigEndian.Uint64(lo[8:16])
	w[3] = binary.BigEndian.Uint64(hi[0:8])
	w[2] = binary.BigEndian.Uint64(hi[8:16])
	return nil
}
