package trends

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the read-only sentiment endpoints.
type Handler struct{}

// NewHandler builds the trends handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Parties returns per-party sentiment aggregates.
func (h *Handler) Parties(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"sentiment": PartySentiment()})
}

// Timeline returns per-month sentiment aggregates.
func (h *Handler) Timeline(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"sentiment": TimelineSentiment()})
}

// Topics returns per-topic sentiment aggregates.
func (h *Handler) Topics(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"sentiment": TopicSentiment()})
}
