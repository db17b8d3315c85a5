package tickbitmap

import "math/bits"

// Direction selects which side of the start position a search scans.
type Direction int

const (
	// SearchLeftInclusive scans start, start-1, ..., 0.
	SearchLeftInclusive Direction = iota
	// SearchRightExclusive scans start+1, start+2, ..., 255.
	SearchRightExclusive
)

func (d Direction) String() string {
	switch d {
	case SearchLeftInclusive:
		return "left"
	case SearchRightExclusive:
		return "right"
	default:
		return "unknown"
	}
}

// NextInitialized finds the nearest set bit at or before start (left
// inclusive) or strictly after it (right exclusive). The scan never leaves
// the word, so each call costs at most one pass over four limbs. The
// boolean is false when the word boundary was reached with no hit; the
// returned position is then that boundary (0 or 255) and the caller decides
// whether to continue in the adjacent word.
func (w Word256) NextInitialized(start BitPos, dir Direction) (BitPos, bool) {
	if dir == SearchLeftInclusive {
		return w.nextLeft(start)
	}
	return w.nextRight(start)
}

func (w Word256) nextLeft(start BitPos) (BitPos, bool) {
	limb := int(start / 64)
	// Keep only bits at or below start within its limb.
	masked := w[limb] & (^uint64(0) >> (63 - start%64))
	for {
		if masked != 0 {
			high := 63 - bits.LeadingZeros64(masked)
			return BitPos(limb*64 + high), true
		}
		if limb == 0 {
			return 0, false
		}
		limb--
		masked = w[limb]
	}
}

func (w Word256) nextRight(start BitPos) (BitPos, bool) {
	if start == 255 {
		return 255, false
	}
	from := start + 1
	limb := int(from / 64)
	// Drop bits below the first candidate within its limb.
	masked := w[limb] &^ (1<<(from%64) - 1)
	for {
		if masked != 0 {
			low := bits.TrailingZeros64(masked)
			return BitPos(limb*64 + low), true
		}
		if limb == wordLimbs-1 {
			return 255, false
		}
		limb++
		masked = w[limb]
	}
}
