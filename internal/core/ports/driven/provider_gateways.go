package driven

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// The provider gateways issue the real API calls behind each service
// proxy. All of them take the resolved access token per call; none hold
// credentials. Authorization rejections surface as errors wrapping
// domain.ErrUnauthorized so the refresh-retry cycle can trigger.

// MailGateway dispatches raw transport-encoded messages.
type MailGateway interface {
	// SendRaw sends a base64url-encoded RFC-822 message.
	SendRaw(ctx context.Context, accessToken, raw, threadID string) (*domain.SentMessage, error)

	// CreateDraft saves a base64url-encoded RFC-822 message as a draft.
	CreateDraft(ctx context.Context, accessToken, raw, threadID string) (*domain.SentMessage, error)
}

// CalendarGateway reads and writes calendar events.
type CalendarGateway interface {
	ListEvents(ctx context.Context, accessToken string, window domain.EventWindow) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, accessToken string, event domain.CalendarEvent) (*domain.CalendarEvent, error)
}

// DriveGateway lists and searches stored files.
type DriveGateway interface {
	ListFiles(ctx context.Context, accessToken string, maxResults int64) ([]domain.DriveFile, error)
	SearchFiles(ctx context.Context, accessToken, query string, maxResults int64) ([]domain.DriveFile, error)
}

// ContactsGateway lists and searches the user's contacts.
type ContactsGateway interface {
	ListContacts(ctx context.Context, accessToken string, maxResults int64) ([]domain.Contact, error)
	SearchContacts(ctx context.Context, accessToken, query string) ([]domain.Contact, error)
}
