package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/llante/llante_site/internal/api/http/handler"
)

func (r *Router) registerSubmissionRoutes(api fiber.Router, h *handler.SubmissionHandler, limit fiber.Handler) {
	api.Post("/contact", limit, h.Contact)
	api.Post("/join", limit, h.Join)
}

func (r *Router) registerContentRoutes(api fiber.Router, h *handler.ContentHandler) {
	api.Get("/locales", h.Locales)
	api.Get("/locale/switch", h.Switch)

	messages := api.Group("/messages")
	messages.Get("/:locale", h.Messages)
	messages.Get("/:locale/:namespace", h.Namespace)

	api.Get("/legal/:locale/:kind", h.Legal)
}
