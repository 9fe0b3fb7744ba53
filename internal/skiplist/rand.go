package skiplist

import "math/rand"

// Source is the injectable bit source random_height draws from. Tests
// supply a Source with a fixed seed so height sampling, and therefore
// skip list shape, is reproducible.
type Source interface {
	Uint32() uint32
}

// mathRandSource is the Source NewSource returns, a thin wrapper over
// math/rand seeded at construction time.
type mathRandSource struct {
	r *rand.Rand
}

// NewSource returns a Source seeded with seed.
func NewSource(seed int64) Source {
	return &mathRandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) Uint32() uint32 {
	return s.r.Uint32()
}
