package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/llante/llante_site/internal/content"
	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/pkg/reqctx"
)

type ContentHandler struct {
	loader *content.Loader
	set    *locale.Set
	logger *slog.Logger
}

func NewContentHandler(loader *content.Loader, logger *slog.Logger) *ContentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{loader: loader, set: loader.Locales(), logger: logger.With("handler", "content")}
}

type localesResponse struct {
	Default    string   `json:"default"`
	Supported  []string `json:"supported"`
	Namespaces []string `json:"namespaces"`
}

// GET /api/v1/locales
func (h *ContentHandler) Locales(c fiber.Ctx) error {
	supported := h.set.Supported()
	names := make([]string, 0, len(supported))
	for _, l := range supported {
		names = append(names, string(l))
	}
	return ok(c, localesResponse{
		Default:    string(h.set.Default()),
		Supported:  names,
		Namespaces: h.loader.Namespaces(),
	})
}

// GET /api/v1/messages/:locale
func (h *ContentHandler) Messages(c fiber.Ctx) error {
	b, loaded := h.bundle(c)
	if !loaded {
		return nil
	}
	c.Set(fiber.HeaderContentLanguage, string(b.Locale()))
	return c.JSON(b.Messages())
}

// GET /api/v1/messages/:locale/:namespace
func (h *ContentHandler) Namespace(c fiber.Ctx) error {
	b, loaded := h.bundle(c)
	if !loaded {
		return nil
	}
	ns, found := b.Namespace(c.Params("namespace"))
	if !found {
		return notFound(c, "namespace not found")
	}
	c.Set(fiber.HeaderContentLanguage, string(b.Locale()))
	return c.JSON(ns)
}

type documentResponse struct {
	Document content.Document `json:"document"`
	Found    bool             `json:"found"`
}

// GET /api/v1/legal/:locale/:kind
// Unknown kinds still answer 200 with the localized not-found document.
func (h *ContentHandler) Legal(c fiber.Ctx) error {
	b, loaded := h.bundle(c)
	if !loaded {
		return nil
	}
	doc, found := b.Document(c.Params("kind"))
	c.Set(fiber.HeaderContentLanguage, string(b.Locale()))
	return c.JSON(documentResponse{Document: doc, Found: found})
}

// GET /api/v1/locale/switch?path=/es/about&to=en
func (h *ContentHandler) Switch(c fiber.Ctx) error {
	p := c.Query("path", "/")
	to, valid := h.set.Parse(c.Query("to"))
	if !valid {
		return badRequest(c, "unsupported locale")
	}
	return c.JSON(fiber.Map{"path": h.set.Rewrite(p, to)})
}

// bundle loads the bundle for :locale. Unsupported locales resolve to the
// default; only a broken default locale is an error.
func (h *ContentHandler) bundle(c fiber.Ctx) (*content.Bundle, bool) {
	loc := h.set.OrDefault(c.Params("locale"))
	b, err := h.loader.Load(c.Context(), loc)
	if err != nil {
		log := h.logger.With(reqctx.LogAttrs(c.Context())...)
		if errors.Is(err, content.ErrDefaultMissing) {
			log.Error("default locale content missing", "locale", loc, "error", err)
		} else {
			log.Error("load content failed", "locale", loc, "error", err)
		}
		_ = serverError(c)
		return nil, false
	}
	return b, true
}
