package httpapi

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
)

// Config holds the HTTP server settings.
type Config struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Services bundles the driving ports the server dispatches to.
type Services struct {
	Auth     driving.AuthorizationService
	Mail     driving.MailService
	Calendar driving.CalendarService
	Drive    driving.DriveService
	Contacts driving.ContactsService
}

// AuditReader exposes a user's recent audit entries. Implemented by the
// storage adapters next to their AuditSink.
type AuditReader interface {
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error)
}

// Server is the Fiber HTTP server for the integration API.
type Server struct {
	app      *fiber.App
	services Services
	audit    AuditReader
	log      *zap.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(cfg Config, services Services, sessions driven.SessionVerifier, audit AuditReader, log *zap.Logger) *Server {
	if cfg.AppName == "" {
		cfg.AppName = "officelink"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())

	s := &Server{
		app:      app,
		services: services,
		audit:    audit,
		log:      log,
	}

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "app": cfg.AppName})
	})

	// The provider redirects here; there is no session on this request.
	app.Get("/oauth/callback", s.handleCallback)

	api := app.Group("/api", sessionMiddleware(sessions))
	api.Get("/audit", s.handleAudit)
	api.Post("/:service", s.handleAction)

	return s
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or the app is shut down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleAudit returns the caller's recent audit entries, newest first.
func (s *Server) handleAudit(c fiber.Ctx) error {
	if s.audit == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "audit log not available",
			"code":  "not_available",
		})
	}

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	entries, err := s.audit.RecentByUser(c.Context(), currentUser(c), limit)
	if err != nil {
		return errorJSON(c, err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return c.JSON(fiber.Map{"entries": entries})
}
