package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/session"
)

// SessionAuth validates the bearer session token against the session store
// and places the token and restored identity in locals for downstream
// handlers.
func SessionAuth(sessions *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		identity, err := sessions.Restore(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fiber.NewError(http.StatusUnauthorized, err.Error())
			}
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		c.Locals(session.LocalsTokenKey, token)
		c.Locals(session.LocalsIdentityKey, identity)
		return c.Next()
	}
}
