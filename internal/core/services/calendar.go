package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
)

// Ensure CalendarService implements the interface.
var _ driving.CalendarService = (*CalendarService)(nil)

// CalendarService proxies calendar reads and writes.
type CalendarService struct {
	tokens  *TokenService
	gateway driven.CalendarGateway
	audit   driven.AuditSink
	log     *zap.Logger
}

// NewCalendarService creates the calendar proxy service.
func NewCalendarService(tokens *TokenService, gateway driven.CalendarGateway, audit driven.AuditSink, log *zap.Logger) *CalendarService {
	return &CalendarService{tokens: tokens, gateway: gateway, audit: audit, log: log}
}

// ListEvents returns events inside the window.
func (s *CalendarService) ListEvents(ctx context.Context, userID string, window domain.EventWindow) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceCalendar, func(ctx context.Context, accessToken string) error {
		listed, err := s.gateway.ListEvents(ctx, accessToken, window)
		if err != nil {
			return err
		}
		events = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent writes an event to the user's calendar.
func (s *CalendarService) CreateEvent(ctx context.Context, userID string, event domain.CalendarEvent) (*domain.CalendarEvent, error) {
	var created *domain.CalendarEvent
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceCalendar, func(ctx context.Context, accessToken string) error {
		ev, err := s.gateway.CreateEvent(ctx, accessToken, event)
		if err != nil {
			return err
		}
		created = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, userID, domain.ServiceCalendar, domain.AuditActionEventCreated, created.ID)
	return created, nil
}
