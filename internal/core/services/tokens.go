package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// TokenService resolves, validates and refreshes access tokens for the
// proxied integrations. Each logical call is stateless: the store is
// re-read on every invocation and no token is cached in process, so the
// service behaves correctly under horizontal scale-out.
type TokenService struct {
	store driven.CredentialStore
	oauth driven.OAuthGateway
	log   *zap.Logger
}

// NewTokenService creates a token service.
func NewTokenService(store driven.CredentialStore, oauth driven.OAuthGateway, log *zap.Logger) *TokenService {
	return &TokenService{store: store, oauth: oauth, log: log}
}

// Resolve reads the credential row and selects the authoritative token
// for a service: the unified pair when present, else the
// service-specific pair. Fails with a not_connected fault when neither
// exists.
func (s *TokenService) Resolve(ctx context.Context, userID string, svc domain.Service) (*domain.ActiveCredential, error) {
	cred, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if cred == nil {
		return nil, domain.Faultf(domain.FaultNotConnected, "no credential for service %s", svc)
	}
	return cred.SelectActive(svc)
}

// EnsureValid probes the provider with the resolved token and, when the
// probe is rejected, performs exactly one refresh and persists the new
// token into the column family the original was read from. Network
// failures propagate untouched; a missing or rejected refresh token
// surfaces as reauthorization_required.
func (s *TokenService) EnsureValid(ctx context.Context, userID string, svc domain.Service, active *domain.ActiveCredential) (*domain.ActiveCredential, error) {
	valid, _, err := s.ensureValid(ctx, userID, svc, active)
	return valid, err
}

// ensureValid is EnsureValid plus a flag telling the caller whether a
// refresh already happened, so WithRefresh never refreshes twice in one
// logical call.
func (s *TokenService) ensureValid(ctx context.Context, userID string, svc domain.Service, active *domain.ActiveCredential) (*domain.ActiveCredential, bool, error) {
	err := s.oauth.Probe(ctx, active.AccessToken)
	if err == nil {
		return active, false, nil
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		return nil, false, err
	}

	refreshed, err := s.refreshAndStore(ctx, userID, svc, active)
	if err != nil {
		return nil, false, err
	}
	return refreshed, true, nil
}

// WithRefresh runs op with a validated access token, retrying it once
// after a refresh if the provider rejects the token between probe and
// use. At most one refresh happens per logical call: a refreshed token
// that still fails is a terminal reauthorization_required, never a loop.
func (s *TokenService) WithRefresh(ctx context.Context, userID string, svc domain.Service, op func(ctx context.Context, accessToken string) error) error {
	active, err := s.Resolve(ctx, userID, svc)
	if err != nil {
		return err
	}

	active, alreadyRefreshed, err := s.ensureValid(ctx, userID, svc, active)
	if err != nil {
		return err
	}

	err = op(ctx, active.AccessToken)
	if err == nil || !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	if alreadyRefreshed {
		return domain.NewFault(domain.FaultReauthorizationRequired,
			"provider rejected a freshly refreshed token", err)
	}

	// Token invalidated in the window between probe and use.
	active, refreshErr := s.refreshAndStore(ctx, userID, svc, active)
	if refreshErr != nil {
		return refreshErr
	}

	err = op(ctx, active.AccessToken)
	if err != nil && errors.Is(err, domain.ErrUnauthorized) {
		return domain.NewFault(domain.FaultReauthorizationRequired,
			"provider rejected a freshly refreshed token", err)
	}
	return err
}

// refreshAndStore mints a new access token from the stored refresh
// token and persists it. The write targets the same column family the
// token was read from and is conditional on the previous access token;
// when a racing refresher got there first, the store is re-read and the
// winner's token is used instead.
func (s *TokenService) refreshAndStore(ctx context.Context, userID string, svc domain.Service, active *domain.ActiveCredential) (*domain.ActiveCredential, error) {
	if active.RefreshToken == "" {
		return nil, domain.Faultf(domain.FaultReauthorizationRequired,
			"access token rejected and no refresh token stored for %s", svc)
	}

	pair, err := s.oauth.Refresh(ctx, active.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.NewFault(domain.FaultReauthorizationRequired,
				"refresh token rejected by provider", err)
		}
		return nil, err
	}

	// The provider may rotate the refresh token. When it does not, the
	// stored one stays; it is never dropped.
	if pair.RefreshToken == "" {
		pair.RefreshToken = active.RefreshToken
	}

	swapped, err := s.store.UpdateTokens(ctx, userID, svc, active.Source, active.AccessToken, *pair)
	if err != nil {
		return nil, fmt.Errorf("persist refreshed token: %w", err)
	}
	if !swapped {
		s.log.Debug("concurrent refresh detected, using stored token",
			zap.String("user_id", userID), zap.String("service", string(svc)))
		return s.Resolve(ctx, userID, svc)
	}

	s.log.Info("access token refreshed",
		zap.String("user_id", userID),
		zap.String("service", string(svc)),
		zap.String("source", string(active.Source)))

	return &domain.ActiveCredential{
		Source:       active.Source,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
