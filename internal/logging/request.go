package logging

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// RequestError logs a failed request at ERROR using the keys DBHandler maps to columns.
func RequestError(c *fiber.Ctx, msg string, err error) {
	args := []any{"action", c.Method() + " " + c.Path()}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if userID, uerr := identity.GetUserID(c); uerr == nil {
		args = append(args, "user_id", userID.String())
	}
	slog.Error(msg, args...)
}
