package document

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the document wallet endpoints. The voter is resolved from
// the session identity placed in locals by the auth middleware.
type Handler struct {
	registry *Registry
	voterID  func(*fiber.Ctx) string
}

// NewHandler builds the document handler. voterID extracts the caller's
// voter identifier from the request context.
func NewHandler(registry *Registry, voterID func(*fiber.Ctx) string) *Handler {
	return &Handler{registry: registry, voterID: voterID}
}

// List returns the caller's document wallet.
func (h *Handler) List(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"documents": h.registry.List(h.voterID(c))})
}

type uploadRequest struct {
	Filename string `json:"filename"`
}

// Upload attaches a file to a document slot.
func (h *Handler) Upload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.registry.Upload(h.voterID(c), c.Params("documentId"), req.Filename)
	if err != nil {
		return mapDocumentError(err)
	}
	return c.Status(http.StatusOK).JSON(doc)
}

// Verify starts a verification episode. A later rejected outcome is a
// business result surfaced through the document state, never an HTTP error.
func (h *Handler) Verify(c *fiber.Ctx) error {
	doc, err := h.registry.Verify(h.voterID(c), c.Params("documentId"))
	if err != nil {
		return mapDocumentError(err)
	}
	return c.Status(http.StatusAccepted).JSON(doc)
}

// Delete clears a slot back to a placeholder.
func (h *Handler) Delete(c *fiber.Ctx) error {
	doc, err := h.registry.Delete(h.voterID(c), c.Params("documentId"))
	if err != nil {
		return mapDocumentError(err)
	}
	return c.Status(http.StatusOK).JSON(doc)
}

func mapDocumentError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownDocument):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrFilenameRequired), errors.Is(err, ErrNoFile):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyVerified):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
