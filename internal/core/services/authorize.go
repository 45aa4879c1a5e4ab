package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
)

// stateTTL bounds how long a consent flow may sit between the redirect
// and the callback.
const stateTTL = 10 * time.Minute

// Ensure AuthorizationFlow implements the interface.
var _ driving.AuthorizationService = (*AuthorizationFlow)(nil)

// AuthorizationFlow builds consent URLs and completes the
// authorization-code exchange, writing results into the credential
// store. Callback correlation uses a persisted single-use nonce rather
// than the raw user identity, so a forged or replayed state fails
// closed.
type AuthorizationFlow struct {
	store  driven.CredentialStore
	states driven.StateStore
	oauth  driven.OAuthGateway
	audit  driven.AuditSink
	log    *zap.Logger
}

// NewAuthorizationFlow creates the authorization flow service.
func NewAuthorizationFlow(store driven.CredentialStore, states driven.StateStore, oauth driven.OAuthGateway, audit driven.AuditSink, log *zap.Logger) *AuthorizationFlow {
	return &AuthorizationFlow{store: store, states: states, oauth: oauth, audit: audit, log: log}
}

// BuildConsentURL constructs the provider consent redirect URL for a
// user and service. The state parameter is a fresh nonce persisted with
// a TTL; the gateway fails with a configuration fault when the
// deployment has no client id.
func (f *AuthorizationFlow) BuildConsentURL(ctx context.Context, userID string, svc domain.Service) (string, error) {
	nonce := uuid.NewString()

	consentURL, err := f.oauth.ConsentURL(svc, nonce)
	if err != nil {
		return "", err
	}

	state := domain.AuthState{
		Nonce:     nonce,
		UserID:    userID,
		Service:   svc,
		ExpiresAt: time.Now().Add(stateTTL),
	}
	if err := f.states.Put(ctx, state); err != nil {
		return "", fmt.Errorf("store auth state: %w", err)
	}

	return consentURL, nil
}

// CompleteExchange finishes the consent flow: consumes the state nonce,
// exchanges the code for tokens, and upserts the credential row for the
// service that initiated the flow. Provider rejections surface as
// authorization_denied with the provider's own description. The upsert
// is idempotent; a retried callback re-exchanges a spent code, fails at
// the provider, and leaves the first result intact.
func (f *AuthorizationFlow) CompleteExchange(ctx context.Context, code, state string) (*driving.ExchangeResult, error) {
	st, err := f.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("consume auth state: %w", err)
	}
	if st == nil {
		return nil, domain.Faultf(domain.FaultAuthorizationDenied, "unknown or expired state")
	}

	pair, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := f.store.UpsertTokens(ctx, st.UserID, st.Service, *pair); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}

	f.log.Info("integration connected",
		zap.String("user_id", st.UserID),
		zap.String("service", string(st.Service)))
	recordAudit(ctx, f.audit, f.log, st.UserID, st.Service, domain.AuditActionConnected, "")

	return &driving.ExchangeResult{UserID: st.UserID, Service: st.Service}, nil
}

// CheckConnection reports connection state from the store alone; it
// never probes the provider.
func (f *AuthorizationFlow) CheckConnection(ctx context.Context, userID string, svc domain.Service) (*domain.ConnectionStatus, error) {
	cred, err := f.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	status := &domain.ConnectionStatus{Service: svc}
	if cred == nil {
		return status, nil
	}
	if active, err := cred.SelectActive(svc); err == nil {
		status.Connected = true
		status.Source = active.Source
	}
	return status, nil
}

// Disconnect clears the service's tokens and flips its enabled flag.
// The credential row is kept for audit continuity.
func (f *AuthorizationFlow) Disconnect(ctx context.Context, userID string, svc domain.Service) error {
	if err := f.store.Disconnect(ctx, userID, svc); err != nil {
		return fmt.Errorf("disconnect %s: %w", svc, err)
	}

	f.log.Info("integration disconnected",
		zap.String("user_id", userID),
		zap.String("service", string(svc)))
	recordAudit(ctx, f.audit, f.log, userID, svc, domain.AuditActionDisconnected, "")
	return nil
}
