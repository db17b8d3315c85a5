package tickbitmap

import "errors"

var (
	// ErrInvalidTickAlignment reports a tick that is not an exact multiple
	// of the pool's tick spacing. Always a caller error, never retried.
	ErrInvalidTickAlignment = errors.New("tick not aligned to spacing")

	// ErrOutOfRange reports a tick/spacing value, word key, bit position,
	// or bitmap half outside its representable domain.
	ErrOutOfRange = errors.New("value out of range")
)
