package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/trends"
)

// RegisterTrendsRoutes wires the read-only sentiment dashboard endpoints.
func RegisterTrendsRoutes(r fiber.Router, h *trends.Handler) {
	r.Get("/trends/parties", h.Parties)
	r.Get("/trends/timeline", h.Timeline)
	r.Get("/trends/topics", h.Topics)
}
