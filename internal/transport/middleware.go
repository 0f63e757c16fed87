package transport

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/replayhq/replay/internal/observability"
)

// HeaderCorrelationID carries the request correlation ID in and out.
const HeaderCorrelationID = "X-Correlation-Id"

// CorrelationMiddleware ensures every request has a correlation ID,
// honoring a client-supplied one. The ID rides the request context so
// logs written anywhere below pick it up.
func CorrelationMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID := strings.TrimSpace(c.Get(HeaderCorrelationID))
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), correlationID))
		c.Set(HeaderCorrelationID, correlationID)
		return c.Next()
	}
}
