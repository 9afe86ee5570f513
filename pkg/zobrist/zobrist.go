package zobrist

import "math/rand/v2"

// New returns one key per cell per mark, drawn from r.
func New(cells int, r *rand.Rand) [][2]uint64 {
	keys := make([][2]uint64, cells)
	for i := range cells {
		keys[i][0] = r.Uint64()
		keys[i][1] = r.Uint64()
	}

	return keys
}
