package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/session"
)

// RegisterSessionRoutes wires the public session endpoints.
func RegisterSessionRoutes(r fiber.Router, h *session.Handler, rateLimiter fiber.Handler) {
	r.Post("/auth/login", rateLimiter, h.Login)
}

// RegisterSessionMeRoutes wires the session endpoints that require an active
// session.
func RegisterSessionMeRoutes(r fiber.Router, h *session.Handler) {
	r.Get("/me", h.Me)
	r.Post("/auth/logout", h.Logout)
	r.Post("/wallet/connect", h.ConnectWallet)
}
