package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/document"
)

// RegisterDocumentRoutes wires the document wallet endpoints.
func RegisterDocumentRoutes(r fiber.Router, h *document.Handler) {
	r.Get("/documents", h.List)
	r.Post("/documents/:documentId/upload", h.Upload)
	r.Post("/documents/:documentId/verify", h.Verify)
	r.Delete("/documents/:documentId", h.Delete)
}
