package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
)

// Ensure ContactsService implements the interface.
var _ driving.ContactsService = (*ContactsService)(nil)

// ContactsService proxies contact listing and search. Read-only; no
// audit entries.
type ContactsService struct {
	tokens  *TokenService
	gateway driven.ContactsGateway
	log     *zap.Logger
}

// NewContactsService creates the contacts proxy service.
func NewContactsService(tokens *TokenService, gateway driven.ContactsGateway, log *zap.Logger) *ContactsService {
	return &ContactsService{tokens: tokens, gateway: gateway, log: log}
}

// List returns the user's contacts.
func (s *ContactsService) List(ctx context.Context, userID string, maxResults int64) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceContacts, func(ctx context.Context, accessToken string) error {
		listed, err := s.gateway.ListContacts(ctx, accessToken, maxResults)
		if err != nil {
			return err
		}
		contacts = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// Search returns contacts matching the query.
func (s *ContactsService) Search(ctx context.Context, userID, query string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceContacts, func(ctx context.Context, accessToken string) error {
		found, err := s.gateway.SearchContacts(ctx, accessToken, query)
		if err != nil {
			return err
		}
		contacts = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
