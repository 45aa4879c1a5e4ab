package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

var _ driven.CalendarGateway = (*CalendarGateway)(nil)

// CalendarGateway reads and writes events on the user's primary
// calendar through the Calendar API.
type CalendarGateway struct {
	limiter *RateLimiter
}

// NewCalendarGateway creates the gateway with calendar rate limits.
func NewCalendarGateway() *CalendarGateway {
	return &CalendarGateway{limiter: NewRateLimiter(domain.ServiceCalendar)}
}

func (g *CalendarGateway) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}
	return svc, nil
}

// ListEvents returns events on the primary calendar inside the window,
// ordered by start time with recurring events expanded.
func (g *CalendarGateway) ListEvents(ctx context.Context, accessToken string, window domain.EventWindow) ([]domain.CalendarEvent, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if !window.TimeMin.IsZero() {
		call = call.TimeMin(window.TimeMin.Format(time.RFC3339))
	}
	if !window.TimeMax.IsZero() {
		call = call.TimeMax(window.TimeMax.Format(time.RFC3339))
	}
	if window.MaxResults > 0 {
		call = call.MaxResults(window.MaxResults)
	}

	resp, err := call.Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	events := make([]domain.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, eventFromAPI(item))
	}
	return events, nil
}

// CreateEvent inserts an event on the primary calendar and returns the
// created event with its provider-assigned identifier.
func (g *CalendarGateway) CreateEvent(ctx context.Context, accessToken string, event domain.CalendarEvent) (*domain.CalendarEvent, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	apiEvent := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       &calendar.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
	for _, email := range event.Attendees {
		apiEvent.Attendees = append(apiEvent.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert("primary", apiEvent).Context(ctx).Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	out := eventFromAPI(created)
	return &out, nil
}

func eventFromAPI(item *calendar.Event) domain.CalendarEvent {
	event := domain.CalendarEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
	}
	if item.Start != nil {
		event.Start = parseEventTime(item.Start)
	}
	if item.End != nil {
		event.End = parseEventTime(item.End)
	}
	for _, att := range item.Attendees {
		event.Attendees = append(event.Attendees, att.Email)
	}
	return event
}

// parseEventTime handles both timed events (DateTime) and all-day
// events (Date only).
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
