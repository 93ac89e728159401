package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// cryptoSource draws from crypto/rand. Live rounds use it when no seed is
// configured.
type cryptoSource struct{}

// NewCryptoSource returns a non-deterministic Source.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	mustPositive(n)
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}

func mustPositive(n int) {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
}

// seededSource is a deterministic PCG-backed Source.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources created with
// the same seed produce the same sequence.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(n int) int {
	mustPositive(n)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
