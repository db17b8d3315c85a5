package tickbitmap

import (
	"fmt"
	"math"
)

// WordKey identifies one 256-wide window of tick/spacing values. Two
// tick/spacing values share a WordKey exactly when they differ only in
// their low 8 bits.
type WordKey int16

// BitPos is the offset of a tick/spacing value inside its word, in [0, 255].
type BitPos uint8

const (
	// MinTickDivSpacing and MaxTickDivSpacing bound the encodable
	// tick/spacing domain. The bound keeps every WordKey inside 16 bits.
	MinTickDivSpacing int32 = -429772
	MaxTickDivSpacing int32 = 429772

	// MaxTickSpacing is the largest tick spacing a pool may enable.
	MaxTickSpacing int32 = 16384

	wordSize = 256
)

// DivideBySpacing returns tick/spacing, requiring the division to be exact.
// Ticks that are not multiples of the spacing have no bitmap slot.
func DivideBySpacing(tick, spacing int32) (int32, error) {
	if spacing < 1 || spacing > MaxTickSpacing {
		return 0, fmt.Errorf("tick spacing %d: %w", spacing, ErrOutOfRange)
	}
	if tick%spacing != 0 {
		return 0, fmt.Errorf("tick %d with spacing %d: %w", tick, spacing, ErrInvalidTickAlignment)
	}
	return tick / spacing, nil
}

// Locate splits a tick/spacing value into the word that stores it and the
// bit offset inside that word. The mapping is a bijection on the domain and
// order preserving: tickDivSpacing == WordKey*256 + BitPos with BitPos
// always non-negative.
func Locate(tickDivSpacing int32) (WordKey, BitPos, error) {
	if tickDivSpacing < MinTickDivSpacing || tickDivSpacing > MaxTickDivSpacing {
		return 0, 0, fmt.Errorf("tick/spacing %d: %w", tickDivSpacing, ErrOutOfRange)
	}
	// Arithmetic shift floors toward negative infinity, so negative values
	// land in the word below zero with a non-negative bit offset.
	word := tickDivSpacing >> 8
	bit := tickDivSpacing - word*wordSize
	return WordKey(word), BitPos(bit), nil
}

// TickFromComponents reconstructs a tick from a word key, bit offset, and
// spacing. The product is computed in 64 bits and must fit in int32.
func TickFromComponents(word WordKey, bit BitPos, spacing int32) (int32, error) {
	if spacing < 1 || spacing > MaxTickSpacing {
		return 0, fmt.Errorf("tick spacing %d: %w", spacing, ErrOutOfRange)
	}
	tick := (int64(word)*wordSize + int64(bit)) * int64(spacing)
	if tick < math.MinInt32 || tick > math.MaxInt32 {
		return 0, fmt.Errorf("tick %d overflows 32 bits: %w", tick, ErrOutOfRange)
	}
	return int32(tick), nil
}
