package driven

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// StateStore persists single-use consent-flow state records.
type StateStore interface {
	// Put stores a new state record.
	Put(ctx context.Context, state domain.AuthState) error

	// Consume retrieves and deletes the record for a nonce. A second
	// Consume of the same nonce, or of an expired record, returns
	// (nil, nil) so replayed callbacks fail closed.
	Consume(ctx context.Context, nonce string) (*domain.AuthState, error)
}
