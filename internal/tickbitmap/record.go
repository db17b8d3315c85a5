package tickbitmap

import "tickIndex/internal/model"

// Record is one persisted 256-tick bitmap window, owned by exactly one
// pool. Records are created implicitly as all-zero the first time a tick in
// their window is touched; a record whose bitmap is zero carries no
// information and may be dropped by the store.
type Record struct {
	Pool   model.PoolKey
	Word   WordKey
	Bitmap Word256
}

// NewRecord returns the implicit all-zero record for an address that has
// never been written.
func NewRecord(pool model.PoolKey, word WordKey) Record {
	return Record{Pool: pool, Word: word}
}

// Flip toggles the tick slot at pos.
func (r *Record) Flip(pos BitPos) {
	r.Bitmap.Flip(pos)
}

// IsSet reports whether the tick slot at pos is initialized.
func (r Record) IsSet(pos BitPos) bool {
	return r.Bitmap.IsSet(pos)
}
