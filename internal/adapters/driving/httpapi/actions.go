package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// actionRequest is the envelope for POST /api/:service. Action selects
// the operation; the remaining fields are read per action.
type actionRequest struct {
	Action string `json:"action"`

	// Mail fields.
	To        []string `json:"to,omitempty"`
	Cc        []string `json:"cc,omitempty"`
	Bcc       []string `json:"bcc,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	Body      string   `json:"body,omitempty"`
	InReplyTo string   `json:"in_reply_to,omitempty"`
	ThreadID  string   `json:"thread_id,omitempty"`

	// Calendar fields.
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Attendees   []string   `json:"attendees,omitempty"`
	TimeMin     *time.Time `json:"time_min,omitempty"`
	TimeMax     *time.Time `json:"time_max,omitempty"`

	// Drive and contacts fields.
	Query      string `json:"query,omitempty"`
	MaxResults int64  `json:"max_results,omitempty"`
}

// handleAction dispatches one service action for the authenticated user.
func (s *Server) handleAction(c fiber.Ctx) error {
	svc, err := domain.ParseService(c.Params("service"))
	if err != nil {
		return errorJSON(c, err)
	}

	var req actionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
			"code":  "invalid_input",
		})
	}

	userID := currentUser(c)
	ctx := c.Context()

	// Connection management actions apply to every service, including
	// the unified pseudo-service.
	switch req.Action {
	case "get-auth-url":
		url, err := s.services.Auth.BuildConsentURL(ctx, userID, svc)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{"auth_url": url})

	case "check-connection":
		status, err := s.services.Auth.CheckConnection(ctx, userID, svc)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(status)

	case "disconnect":
		if err := s.services.Auth.Disconnect(ctx, userID, svc); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{"disconnected": true})
	}

	switch svc {
	case domain.ServiceMail:
		return s.handleMailAction(c, userID, req)
	case domain.ServiceCalendar:
		return s.handleCalendarAction(c, userID, req)
	case domain.ServiceDrive:
		return s.handleDriveAction(c, userID, req)
	case domain.ServiceContacts:
		return s.handleContactsAction(c, userID, req)
	default:
		return unknownAction(c, req.Action)
	}
}

func (s *Server) handleMailAction(c fiber.Ctx, userID string, req actionRequest) error {
	email := domain.OutboundEmail{
		To:        req.To,
		Cc:        req.Cc,
		Bcc:       req.Bcc,
		Subject:   req.Subject,
		Body:      req.Body,
		InReplyTo: req.InReplyTo,
		ThreadID:  req.ThreadID,
	}

	switch req.Action {
	case "send":
		sent, err := s.services.Mail.Send(c.Context(), userID, email)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(sent)
	case "save-draft":
		draft, err := s.services.Mail.SaveDraft(c.Context(), userID, email)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(draft)
	default:
		return unknownAction(c, req.Action)
	}
}

func (s *Server) handleCalendarAction(c fiber.Ctx, userID string, req actionRequest) error {
	switch req.Action {
	case "list":
		window := domain.EventWindow{MaxResults: req.MaxResults}
		if req.TimeMin != nil {
			window.TimeMin = *req.TimeMin
		}
		if req.TimeMax != nil {
			window.TimeMax = *req.TimeMax
		}
		events, err := s.services.Calendar.ListEvents(c.Context(), userID, window)
		if err != nil {
			return errorJSON(c, err)
		}
		if events == nil {
			events = []domain.CalendarEvent{}
		}
		return c.JSON(fiber.Map{"events": events})

	case "create":
		if req.Start == nil || req.End == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start and end are required",
				"code":  "invalid_input",
			})
		}
		event := domain.CalendarEvent{
			Summary:     req.Summary,
			Description: req.Description,
			Location:    req.Location,
			Start:       *req.Start,
			End:         *req.End,
			Attendees:   req.Attendees,
		}
		created, err := s.services.Calendar.CreateEvent(c.Context(), userID, event)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(created)

	default:
		return unknownAction(c, req.Action)
	}
}

func (s *Server) handleDriveAction(c fiber.Ctx, userID string, req actionRequest) error {
	switch req.Action {
	case "list":
		files, err := s.services.Drive.ListFiles(c.Context(), userID, req.MaxResults)
		if err != nil {
			return errorJSON(c, err)
		}
		if files == nil {
			files = []domain.DriveFile{}
		}
		return c.JSON(fiber.Map{"files": files})

	case "search":
		files, err := s.services.Drive.Search(c.Context(), userID, req.Query, req.MaxResults)
		if err != nil {
			return errorJSON(c, err)
		}
		if files == nil {
			files = []domain.DriveFile{}
		}
		return c.JSON(fiber.Map{"files": files})

	default:
		return unknownAction(c, req.Action)
	}
}

func (s *Server) handleContactsAction(c fiber.Ctx, userID string, req actionRequest) error {
	switch req.Action {
	case "list":
		contacts, err := s.services.Contacts.List(c.Context(), userID, req.MaxResults)
		if err != nil {
			return errorJSON(c, err)
		}
		if contacts == nil {
			contacts = []domain.Contact{}
		}
		return c.JSON(fiber.Map{"contacts": contacts})

	case "search":
		contacts, err := s.services.Contacts.Search(c.Context(), userID, req.Query)
		if err != nil {
			return errorJSON(c, err)
		}
		if contacts == nil {
			contacts = []domain.Contact{}
		}
		return c.JSON(fiber.Map{"contacts": contacts})

	default:
		return unknownAction(c, req.Action)
	}
}

func unknownAction(c fiber.Ctx, action string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "unknown action " + action,
		"code":  "invalid_input",
	})
}
