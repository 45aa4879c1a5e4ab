package driving

import (
	"context"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// MailService sends and drafts messages on the user's behalf.
type MailService interface {
	Send(ctx context.Context, userID string, email domain.OutboundEmail) (*domain.SentMessage, error)
	SaveDraft(ctx context.Context, userID string, email domain.OutboundEmail) (*domain.SentMessage, error)
}

// CalendarService reads and writes the user's calendar.
type CalendarService interface {
	ListEvents(ctx context.Context, userID string, window domain.EventWindow) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, userID string, event domain.CalendarEvent) (*domain.CalendarEvent, error)
}

// DriveService lists and searches the user's stored files.
type DriveService interface {
	ListFiles(ctx context.Context, userID string, maxResults int64) ([]domain.DriveFile, error)
	Search(ctx context.Context, userID, query string, maxResults int64) ([]domain.DriveFile, error)
}

// ContactsService lists and searches the user's contacts.
type ContactsService interface {
	List(ctx context.Context, userID string, maxResults int64) ([]domain.Contact, error)
	Search(ctx context.Context, userID, query string) ([]domain.Contact, error)
}
