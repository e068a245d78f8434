package dice

import (
	"crypto/rand"
	"math/big"
	"sync"

	xrand "golang.org/x/exp/rand"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a reproducible Source. The same seed always yields the
// same sequence of Intn results.
type seededSource struct {
	mu  sync.Mutex
	rng *xrand.Rand
}

// NewSeededSource returns a deterministic Source for replays and simulations.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: xrand.New(xrand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
