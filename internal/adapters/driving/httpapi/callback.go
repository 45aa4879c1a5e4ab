package httpapi

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// handleCallback processes the provider redirect at the end of a
// consent flow. The request carries no session; identity comes from the
// state record resolved by the core.
func (s *Server) handleCallback(c fiber.Ctx) error {
	// Provider-reported denial (user clicked cancel).
	if errParam := c.Query("error"); errParam != "" {
		errDesc := c.Query("error_description")
		if errDesc == "" {
			errDesc = errParam
		}
		s.log.Info("authorization denied at consent screen", zap.String("error", errParam))
		return renderCallbackPage(c, "Authorization failed",
			html.EscapeString(errDesc))
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return renderCallbackPage(c, "Authorization failed",
			"The callback was missing required parameters.")
	}

	result, err := s.services.Auth.CompleteExchange(c.Context(), code, state)
	if err != nil {
		s.log.Warn("authorization exchange failed", zap.Error(err))
		return renderCallbackPage(c, "Authorization failed",
			html.EscapeString(err.Error()))
	}

	s.log.Info("service connected",
		zap.String("user_id", result.UserID),
		zap.String("service", string(result.Service)))
	return renderCallbackPage(c, "Authorization successful!",
		"You can close this window and return to the application.")
}

func renderCallbackPage(c fiber.Ctx, title, message string) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(callbackHTML(title, message))
}

//nolint:misspell // CSS properties use American spelling
func callbackHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>OfficeLink - OAuth Callback</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 {
            color: #333F50;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #7B8088;
            margin: 0;
            font-size: 16px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
    <script>setTimeout(function() { window.close(); }, 3000);</script>
</body>
</html>`, title, message)
}
