package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
type StateStore struct {
	mu     sync.Mutex
	states map[string]domain.AuthState
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[string]domain.AuthState),
	}
}

// Put stores a new consent-flow state record.
func (s *StateStore) Put(_ context.Context, state domain.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Nonce] = state
	return nil
}

// Consume retrieves and deletes the record for a nonce. Unknown,
// replayed and expired nonces all return (nil, nil).
func (s *StateStore) Consume(_ context.Context, nonce string) (*domain.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[nonce]
	if !ok {
		return nil, nil
	}
	delete(s.states, nonce)

	if state.Expired(time.Now()) {
		return nil, nil
	}
	return &state, nil
}
