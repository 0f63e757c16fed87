package transport

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/replayhq/replay/internal/observability"
)

func newCorrelationApp(t *testing.T, seen *string) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(CorrelationMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok := observability.CorrelationIDFromContext(c.UserContext())
		if !ok {
			t.Error("expected a correlation ID in the request context")
		}
		*seen = id
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCorrelationMiddlewareGeneratesID(t *testing.T) {
	t.Parallel()

	var seen string
	app := newCorrelationApp(t, &seen)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a generated UUID, got %q", seen)
	}
	if got := resp.Header.Get(HeaderCorrelationID); got != seen {
		t.Fatalf("expected response header %q, got %q", seen, got)
	}
}

func TestCorrelationMiddlewareHonorsClientID(t *testing.T) {
	t.Parallel()

	var seen string
	app := newCorrelationApp(t, &seen)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "client-supplied-id")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen != "client-supplied-id" {
		t.Fatalf("expected the client ID to pass through, got %q", seen)
	}
	if got := resp.Header.Get(HeaderCorrelationID); got != "client-supplied-id" {
		t.Fatalf("expected response header echo, got %q", got)
	}
}
