package wallet

import (
	"math/rand" // Mock name selection
	"sync"      // Guard the shared rand source
	"time"      // Seed
)

// NameProvider supplies the account-holder name attached to a withdrawal.
// The mock implementation stands in for a real banking lookup; swapping in a
// real provider must not touch the engine.
type NameProvider interface {
	AccountHolderName() string
}

// MockNames picks a pseudo-random first+last name pair from fixed pools.
// The result is display-only, not an identity claim.
type MockNames struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	first []string
	last  []string
}

// NewMockNames builds a provider over the configured name pools
func NewMockNames(first, last []string) *MockNames {
	return &MockNames{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		first: first,
		last:  last,
	}
}

// AccountHolderName returns a random "First Last" pair
func (m *MockNames) AccountHolderName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.first[m.rnd.Intn(len(m.first))] + " " + m.last[m.rnd.Intn(len(m.last))]
}
