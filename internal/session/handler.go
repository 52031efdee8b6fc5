package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes session endpoints: login, restore, wallet connect, logout.
type Handler struct {
	svc *Service
}

// NewHandler builds the session handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string   `json:"token,omitempty"`
	Identity Identity `json:"identity"`
}

// Login authenticates and opens a new session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Email) == "" {
		return fiber.NewError(http.StatusBadRequest, "email is required")
	}

	token, identity, err := h.svc.Login(c.UserContext(), Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Token: token, Identity: identity})
}

// Me returns the identity restored for the presented session token.
func (h *Handler) Me(c *fiber.Ctx) error {
	identity, ok := c.Locals(LocalsIdentityKey).(Identity)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, ErrNoSession.Error())
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Identity: identity})
}

// ConnectWallet assigns a wallet address to the active identity.
func (h *Handler) ConnectWallet(c *fiber.Ctx) error {
	token, _ := c.Locals(LocalsTokenKey).(string)
	identity, err := h.svc.ConnectWallet(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Identity: identity})
}

// Logout clears the session record.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(LocalsTokenKey).(string)
	if err := h.svc.Logout(c.UserContext(), token); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

// Locals keys shared with the session auth middleware.
const (
	LocalsTokenKey    = "session_token"
	LocalsIdentityKey = "session_identity"
)
