package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// SecretSource draws the secret code for a new round.
type SecretSource func() Code

// RandomSecrets samples from the auto-seeded global generator.
func RandomSecrets() SecretSource {
	return func() Code { return sample(rand.Perm) }
}

// SeededSecrets is reproducible for a given seed. The returned source is safe
// to share between sessions.
func SeededSecrets(seed uint64) SecretSource {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() Code {
		mu.Lock()
		defer mu.Unlock()
		return sample(r.Perm)
	}
}

// FixedSecret always yields the same code. It panics on a code that could
// never be drawn (wrong length, unknown or repeated colors).
func FixedSecret(c Code) SecretSource {
	if err := c.validate(); err != nil {
		panic(fmt.Sprintf("game: fixed secret: %v", err))
	}
	if !c.distinct() {
		panic("game: fixed secret repeats a color")
	}
	c = c.clone()
	return func() Code { return c.clone() }
}

// sample picks SlotCount colors without replacement.
func sample(perm func(int) []int) Code {
	idx := perm(len(palette))
	out := make(Code, SlotCount)
	for i := range out {
		out[i] = palette[idx[i]]
	}
	return out
}
