package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

// userIDKey is the Fiber locals key carrying the verified user id.
const userIDKey = "userID"

// sessionMiddleware authenticates the platform session bearer token and
// injects the verified user id into Fiber locals.
func sessionMiddleware(sessions driven.SessionVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		var token string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
				"code":  "unauthenticated",
			})
		}

		userID, err := sessions.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "unauthenticated",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// currentUser extracts the verified user id from Fiber locals.
func currentUser(c fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}
