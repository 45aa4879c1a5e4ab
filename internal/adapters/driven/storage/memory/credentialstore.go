package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]*domain.Credential
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]*domain.Credential),
	}
}

// Get retrieves the credential row for a user. Returns (nil, nil) when
// no row exists yet.
func (s *CredentialStore) Get(_ context.Context, userID string) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[userID]
	if !ok {
		return nil, nil
	}
	return cloneCredential(cred), nil
}

// UpsertTokens writes the outcome of a completed authorization exchange.
func (s *CredentialStore) UpsertTokens(_ context.Context, userID string, svc domain.Service, tokens domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred := s.row(userID)
	if svc == domain.ServiceUnified {
		pair := tokens
		cred.Unified = &pair
	} else {
		cred.Services[svc] = &domain.ServiceTokens{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			Enabled:      true,
		}
	}
	cred.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateTokens persists a refreshed token into the column family it was
// read from, conditional on previousAccess still being stored.
func (s *CredentialStore) UpdateTokens(_ context.Context, userID string, svc domain.Service, source domain.CredentialSource, previousAccess string, tokens domain.TokenPair) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[userID]
	if !ok {
		return false, nil
	}

	if source == domain.SourceUnified {
		if cred.Unified == nil || cred.Unified.AccessToken != previousAccess {
			return false, nil
		}
		pair := tokens
		cred.Unified = &pair
	} else {
		st, ok := cred.Services[svc]
		if !ok || st.AccessToken != previousAccess {
			return false, nil
		}
		st.AccessToken = tokens.AccessToken
		st.RefreshToken = tokens.RefreshToken
	}
	cred.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Disconnect clears a service's tokens and flips its enabled flag. The
// unified pair is cleared once every service is explicitly disconnected.
func (s *CredentialStore) Disconnect(_ context.Context, userID string, svc domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[userID]
	if !ok {
		return nil
	}

	if svc == domain.ServiceUnified {
		cred.Unified = nil
		cred.UpdatedAt = time.Now().UTC()
		return nil
	}

	cred.Services[svc] = &domain.ServiceTokens{Enabled: false}

	allDisconnected := true
	for _, other := range domain.Services {
		st, ok := cred.Services[other]
		if !ok || st.Enabled {
			allDisconnected = false
			break
		}
	}
	if allDisconnected {
		cred.Unified = nil
	}
	cred.UpdatedAt = time.Now().UTC()
	return nil
}

// row returns the stored row for userID, creating it when absent.
// Callers must hold the write lock.
func (s *CredentialStore) row(userID string) *domain.Credential {
	cred, ok := s.creds[userID]
	if !ok {
		cred = &domain.Credential{
			UserID:   userID,
			Services: make(map[domain.Service]*domain.ServiceTokens),
		}
		s.creds[userID] = cred
	}
	return cred
}

func cloneCredential(cred *domain.Credential) *domain.Credential {
	out := &domain.Credential{
		UserID:    cred.UserID,
		UpdatedAt: cred.UpdatedAt,
		Services:  make(map[domain.Service]*domain.ServiceTokens, len(cred.Services)),
	}
	if cred.Unified != nil {
		pair := *cred.Unified
		out.Unified = &pair
	}
	for svc, st := range cred.Services {
		copied := *st
		out.Services[svc] = &copied
	}
	return out
}
