package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
	"github.com/custodia-labs/officelink/internal/mailmime"
)

// Ensure MailService implements the interface.
var _ driving.MailService = (*MailService)(nil)

// MailService proxies mail dispatch through the provider API on the
// user's behalf.
type MailService struct {
	tokens  *TokenService
	gateway driven.MailGateway
	audit   driven.AuditSink
	log     *zap.Logger
}

// NewMailService creates the mail proxy service.
func NewMailService(tokens *TokenService, gateway driven.MailGateway, audit driven.AuditSink, log *zap.Logger) *MailService {
	return &MailService{tokens: tokens, gateway: gateway, audit: audit, log: log}
}

// Send encodes the logical email into the provider's raw transport
// format and dispatches it, refreshing the access token once on expiry.
func (s *MailService) Send(ctx context.Context, userID string, email domain.OutboundEmail) (*domain.SentMessage, error) {
	raw := mailmime.Encode(email.To, email.Cc, email.Bcc, email.Subject, email.Body, email.InReplyTo)

	var sent *domain.SentMessage
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceMail, func(ctx context.Context, accessToken string) error {
		msg, err := s.gateway.SendRaw(ctx, accessToken, raw, email.ThreadID)
		if err != nil {
			return err
		}
		sent = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, userID, domain.ServiceMail, domain.AuditActionMessageSent, sent.ID)
	return sent, nil
}

// SaveDraft stores the encoded message as a provider-side draft.
func (s *MailService) SaveDraft(ctx context.Context, userID string, email domain.OutboundEmail) (*domain.SentMessage, error) {
	raw := mailmime.Encode(email.To, email.Cc, email.Bcc, email.Subject, email.Body, email.InReplyTo)

	var draft *domain.SentMessage
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceMail, func(ctx context.Context, accessToken string) error {
		msg, err := s.gateway.CreateDraft(ctx, accessToken, raw, email.ThreadID)
		if err != nil {
			return err
		}
		draft = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, userID, domain.ServiceMail, domain.AuditActionDraftSaved, draft.ID)
	return draft, nil
}
