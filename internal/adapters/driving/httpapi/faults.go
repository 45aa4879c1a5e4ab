package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// statusForError maps core failures to HTTP status codes.
func statusForError(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) {
		return fiber.StatusBadRequest
	}

	var f *domain.Fault
	if !errors.As(err, &f) {
		return fiber.StatusInternalServerError
	}

	switch f.Kind {
	case domain.FaultNotConnected:
		return fiber.StatusNotFound
	case domain.FaultReauthorizationRequired:
		return fiber.StatusUnauthorized
	case domain.FaultAuthorizationDenied:
		return fiber.StatusForbidden
	case domain.FaultTransient:
		return fiber.StatusServiceUnavailable
	case domain.FaultProviderRejected:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON renders a core failure as the API error envelope. The body
// carries the fault kind so clients can branch without parsing text.
func errorJSON(c fiber.Ctx, err error) error {
	code := "internal"
	if errors.Is(err, domain.ErrInvalidInput) {
		code = "invalid_input"
	} else {
		var f *domain.Fault
		if errors.As(err, &f) {
			code = string(f.Kind)
		}
	}
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
