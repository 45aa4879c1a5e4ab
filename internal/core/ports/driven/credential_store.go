package driven

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// CredentialStore persists the single per-user credential row.
//
// Every invocation re-reads the store; no implementation may assume an
// in-process cache survives between calls.
type CredentialStore interface {
	// Get retrieves the credential row for a user.
	// Returns (nil, nil) when no row exists yet.
	Get(ctx context.Context, userID string) (*domain.Credential, error)

	// UpsertTokens writes the outcome of a completed authorization
	// exchange. Creates the row when absent. For a proxied service it
	// fills the service column family and sets enabled=true; for
	// domain.ServiceUnified it fills the unified pair.
	UpsertTokens(ctx context.Context, userID string, svc domain.Service, tokens domain.TokenPair) error

	// UpdateTokens persists a refreshed token into the column family it
	// was read from. The write is conditional on previousAccess still
	// being the stored access token of that family; a racing refresher
	// that lost simply matches zero rows and gets swapped=false.
	UpdateTokens(ctx context.Context, userID string, svc domain.Service, source domain.CredentialSource, previousAccess string, tokens domain.TokenPair) (swapped bool, err error)

	// Disconnect clears the token fields a service resolves through and
	// flips its enabled flag to false. The row itself is kept for audit
	// continuity.
	Disconnect(ctx context.Context, userID string, svc domain.Service) error
}
