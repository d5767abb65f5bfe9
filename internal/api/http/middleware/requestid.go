package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/llante/llante_site/pkg/reqctx"
)

const (
	HeaderRequestID = "X-Request-Id"
	// LocalRequestID is also read by the access log format.
	LocalRequestID = "requestId"
	localMeta      = "requestMeta"

	maxRequestIDLen = 64
)

// RequestID echoes a well-formed incoming X-Request-Id or mints a UUID, and
// stores the request's reqctx.Meta in locals and the user context.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(LocalRequestID, rid)

		meta := &reqctx.Meta{
			RequestID: rid,
			ClientIP:  c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			Start:     time.Now(),
		}
		c.Locals(localMeta, meta)
		c.SetContext(reqctx.With(c.Context(), meta))
		return c.Next()
	}
}

// validRequestID accepts ids that are safe to echo into headers and logs.
func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func RequestIDFromFiber(c fiber.Ctx) (string, bool) {
	s, ok := c.Locals(LocalRequestID).(string)
	return s, ok && s != ""
}

func metaFromFiber(c fiber.Ctx) (*reqctx.Meta, bool) {
	m, _ := c.Locals(localMeta).(*reqctx.Meta)
	return m, m != nil
}
