package reqctx

import (
	"context"
	"testing"
)

func TestMeta(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID(empty) = %q", got)
	}
	if attrs := LogAttrs(ctx); attrs != nil {
		t.Errorf("LogAttrs(empty) = %v", attrs)
	}

	m := &Meta{RequestID: "rid-1"}
	ctx = With(ctx, m)
	if got := RequestID(ctx); got != "rid-1" {
		t.Errorf("RequestID() = %q, want rid-1", got)
	}
	if attrs := LogAttrs(ctx); len(attrs) != 1 {
		t.Errorf("LogAttrs() before locale = %v", attrs)
	}

	m.Locale = "en"
	if attrs := LogAttrs(ctx); len(attrs) != 2 {
		t.Errorf("LogAttrs() = %v, want request_id and locale", attrs)
	}
}

func TestFrom_NilMeta(t *testing.T) {
	ctx := With(context.Background(), nil)
	if _, ok := From(ctx); ok {
		t.Error("From() reported a nil Meta as present")
	}
}
