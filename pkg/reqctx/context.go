package reqctx

import (
	"context"
	"log/slog"
	"time"
)

type metaKey struct{}

// Meta describes the request a context belongs to. Locale starts empty and
// is filled in once the path prefix has been resolved.
type Meta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Locale    string
	Start     time.Time
}

func With(ctx context.Context, m *Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// From returns the Meta stored by With, if any.
func From(ctx context.Context) (*Meta, bool) {
	m, _ := ctx.Value(metaKey{}).(*Meta)
	return m, m != nil
}

// RequestID is "" outside a request.
func RequestID(ctx context.Context) string {
	if m, ok := From(ctx); ok {
		return m.RequestID
	}
	return ""
}

// LogAttrs tags log lines with the request id and, once known, the locale.
func LogAttrs(ctx context.Context) []any {
	m, ok := From(ctx)
	if !ok {
		return nil
	}
	if m.Locale == "" {
		return []any{slog.String("request_id", m.RequestID)}
	}
	return []any{slog.String("request_id", m.RequestID), slog.String("locale", m.Locale)}
}
