package ballot

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/session"
)

// Handler exposes the ballot endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the ballot handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Parties returns the static ballot options.
func (h *Handler) Parties(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"parties": Parties()})
}

// Get returns the caller's ballot.
func (h *Handler) Get(c *fiber.Ctx) error {
	identity, ok := c.Locals(session.LocalsIdentityKey).(session.Identity)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, session.ErrNoSession.Error())
	}
	return c.Status(http.StatusOK).JSON(h.svc.Get(identity.ID))
}

type selectRequest struct {
	PartyID string `json:"partyId"`
}

// Select records the caller's party choice.
func (h *Handler) Select(c *fiber.Ctx) error {
	identity, ok := c.Locals(session.LocalsIdentityKey).(session.Identity)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, session.ErrNoSession.Error())
	}
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	b, err := h.svc.Select(identity.ID, req.PartyID)
	if err != nil {
		return mapBallotError(err)
	}
	return c.Status(http.StatusOK).JSON(b)
}

// Submit settles the caller's vote.
func (h *Handler) Submit(c *fiber.Ctx) error {
	identity, ok := c.Locals(session.LocalsIdentityKey).(session.Identity)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, session.ErrNoSession.Error())
	}

	b, err := h.svc.Submit(c.UserContext(), identity)
	if err != nil {
		return mapBallotError(err)
	}
	return c.Status(http.StatusOK).JSON(b)
}

// Reset clears the caller's local ballot state.
func (h *Handler) Reset(c *fiber.Ctx) error {
	identity, ok := c.Locals(session.LocalsIdentityKey).(session.Identity)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, session.ErrNoSession.Error())
	}

	b, err := h.svc.Reset(identity.ID)
	if err != nil {
		return mapBallotError(err)
	}
	return c.Status(http.StatusOK).JSON(b)
}

// Results returns per-party vote counts from the ledger.
func (h *Handler) Results(c *fiber.Ctx) error {
	tally, err := h.svc.Tally(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"tally": tally})
}

func mapBallotError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownParty):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoSelection), errors.Is(err, ErrWalletRequired):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrSubmitInFlight):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
