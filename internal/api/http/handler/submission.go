package handler

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/service/contact"
	"github.com/llante/llante_site/internal/service/join"
	"github.com/llante/llante_site/internal/submission"
	"github.com/llante/llante_site/pkg/reqctx"
)

type SubmissionHandler struct {
	contact contact.Service
	join    join.Service
	set     *locale.Set
	logger  *slog.Logger
}

func NewSubmissionHandler(cs contact.Service, js join.Service, set *locale.Set, logger *slog.Logger) *SubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionHandler{contact: cs, join: js, set: set, logger: logger.With("handler", "submission")}
}

// POST /api/contact
func (h *SubmissionHandler) Contact(c fiber.Ctx) error {
	var req submission.ContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalid(c, nil)
	}
	if req.Locale == "" {
		req.Locale = h.refererLocale(c)
	}

	res, err := h.contact.Submit(c.Context(), req)
	if err != nil {
		return h.submitError(c, err, contact.ErrInvalid)
	}
	if !res.Dropped {
		h.logger.Info("contact accepted", append(reqctx.LogAttrs(c.Context()), "lead_id", res.ID)...)
	}
	return accepted(c)
}

// POST /api/join
func (h *SubmissionHandler) Join(c fiber.Ctx) error {
	var req submission.JoinRequest
	if err := c.Bind().JSON(&req); err != nil {
		return invalid(c, nil)
	}
	if req.Locale == "" {
		req.Locale = h.refererLocale(c)
	}

	res, err := h.join.Submit(c.Context(), req)
	if err != nil {
		return h.submitError(c, err, join.ErrInvalid)
	}
	if !res.Dropped {
		h.logger.Info("join request accepted", append(reqctx.LogAttrs(c.Context()), "lead_id", res.ID)...)
	}
	return accepted(c)
}

func (h *SubmissionHandler) submitError(c fiber.Ctx, err, errInvalid error) error {
	if errors.Is(err, errInvalid) {
		var verr *submission.ValidationError
		if errors.As(err, &verr) {
			return invalid(c, verr.Fields)
		}
		return invalid(c, nil)
	}
	return serverError(c)
}

// refererLocale reads the locale of the page the form was posted from.
// Forms that send no locale get the page's language, or the default.
func (h *SubmissionHandler) refererLocale(c fiber.Ctx) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	loc, _, prefixed := h.set.Split(u.Path)
	if !prefixed {
		return ""
	}
	return string(loc)
}
