package sampling

import "math/rand"

// NewStream creates the deterministic uniform stream for a study. The stream
// is consumed once, up front, single-threaded, before any parallel dispatch,
// so sample values do not depend on worker count or completion order.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
