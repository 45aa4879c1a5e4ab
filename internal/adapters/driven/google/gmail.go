package google

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

var _ driven.MailGateway = (*GmailGateway)(nil)

// GmailGateway sends raw MIME messages and drafts through the Gmail API.
type GmailGateway struct {
	limiter *RateLimiter
}

// NewGmailGateway creates the gateway with mail rate limits.
func NewGmailGateway() *GmailGateway {
	return &GmailGateway{limiter: NewRateLimiter(domain.ServiceMail)}
}

func (g *GmailGateway) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}
	return svc, nil
}

// SendRaw sends a base64url-encoded RFC-822 message as the
// authenticated user.
func (g *GmailGateway) SendRaw(ctx context.Context, accessToken, raw, threadID string) (*domain.SentMessage, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg := &gmail.Message{Raw: raw, ThreadId: threadID}
	sent, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	return &domain.SentMessage{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

// CreateDraft saves a base64url-encoded RFC-822 message as a draft.
func (g *GmailGateway) CreateDraft(ctx context.Context, accessToken, raw, threadID string) (*domain.SentMessage, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	draft := &gmail.Draft{Message: &gmail.Message{Raw: raw, ThreadId: threadID}}
	created, err := svc.Users.Drafts.Create("me", draft).Context(ctx).Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	out := &domain.SentMessage{ID: created.Id}
	if created.Message != nil {
		out.ThreadID = created.Message.ThreadId
	}
	return out, nil
}
