package driven

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// OAuthGateway performs the provider-side authorization primitives.
// Implementations encapsulate the provider's OAuth quirks (for Google,
// access_type=offline and prompt=consent are mandatory on the consent
// URL or the provider will not reliably return a refresh token).
type OAuthGateway interface {
	// ConsentURL builds the provider consent redirect URL for a service
	// with the given opaque state. Fails with a configuration fault when
	// the deployment has no client id.
	ConsentURL(svc domain.Service, state string) (string, error)

	// Exchange trades a one-time authorization code for tokens.
	// Provider rejections surface as authorization_denied faults carrying
	// the provider's error description.
	Exchange(ctx context.Context, code string) (*domain.TokenPair, error)

	// Refresh mints a new access token from a refresh token. A rejected
	// or revoked grant returns an error wrapping domain.ErrUnauthorized;
	// network failures return transient faults.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// Probe performs a cheap authenticated read to test whether an
	// access token is still accepted. Returns nil when accepted, an
	// error wrapping domain.ErrUnauthorized when rejected, and a
	// transient fault on network failure.
	Probe(ctx context.Context, accessToken string) error
}
