package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/domain"
	"github.com/replayhq/replay/internal/repository"
)

const currentUserKey = "currentUser"

// Middleware verifies the bearer token and loads the current user into
// request locals. Handlers behind it can rely on CurrentUser succeeding.
func Middleware(tokens *TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return fiber.NewError(fiber.StatusUnauthorized, "bearer token required")
		}

		userID, _, err := tokens.Parse(tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// OptionalMiddleware resolves the bearer token when one is sent but lets
// anonymous requests through. Routes with per-viewer visibility use it.
func OptionalMiddleware(tokens *TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return c.Next()
		}

		userID, _, err := tokens.Parse(tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by Middleware, or nil on routes
// that skipped it.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}

// RequireAdmin rejects requests from accounts without the ADMIN role.
// It must run after Middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
		}
		if !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}
