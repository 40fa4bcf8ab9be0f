package server

import (
	"errors"
	"strings"

	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// principal builds the caller identity from the locals set by the auth
// middleware. Requests without a token yield the anonymous principal.
func principal(c *fiber.Ctx) models.Principal {
	var p models.Principal
	if uid, ok := c.Locals("userID").(uint); ok {
		p.UserID = uid
	}
	if role, ok := c.Locals("userRole").(models.Role); ok {
		p.Role = role
	}
	return p
}

// splitList parses a comma-separated query value into trimmed items.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// respondServiceError maps an engine error onto its HTTP status and writes
// the standardized error body.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.ErrorStatus(err), err)
}
