package driving

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// ExchangeResult reports a completed authorization-code exchange.
type ExchangeResult struct {
	// UserID is the principal the flow belonged to.
	UserID string `json:"user_id"`
	// Service is the integration that was connected.
	Service domain.Service `json:"service"`
}

// AuthorizationService manages the consent flow and connection state.
type AuthorizationService interface {
	// BuildConsentURL constructs the provider consent redirect URL for a
	// user and service, registering a single-use state record.
	BuildConsentURL(ctx context.Context, userID string, svc domain.Service) (string, error)

	// CompleteExchange finishes the flow on callback: resolves the state,
	// exchanges the code, and upserts the credential row.
	CompleteExchange(ctx context.Context, code, state string) (*ExchangeResult, error)

	// CheckConnection reports whether a service is connected for a user
	// without probing the provider.
	CheckConnection(ctx context.Context, userID string, svc domain.Service) (*domain.ConnectionStatus, error)

	// Disconnect revokes a service connection, clearing its tokens and
	// keeping the credential row.
	Disconnect(ctx context.Context, userID string, svc domain.Service) error
}
