package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/ballot"
)

// RegisterBallotRoutes wires the ballot endpoints. submitGuards are applied
// to the settlement call only.
func RegisterBallotRoutes(r fiber.Router, h *ballot.Handler, submitGuards ...fiber.Handler) {
	r.Get("/ballot", h.Get)
	r.Post("/ballot/select", h.Select)
	r.Post("/ballot/reset", h.Reset)

	submit := append(submitGuards, h.Submit)
	r.Post("/ballot/submit", submit...)
}
