package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestTraceRequests(t *testing.T) {
	rec := withRecorder(t)

	app := fiber.New()
	app.Use(TraceRequests(
		WithSkipPrefixes("/health"),
		WithRequestAttributes(func(c fiber.Ctx) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("site.locale", "es")}
		}),
	))
	app.Get("/api/v1/messages/:locale", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/health/live", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/boom", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/messages/es", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderTraceID))

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /api/v1/messages/:locale", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("site.locale", "es"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.response.status_code", 200))

	assert.Equal(t, "GET /boom", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}

func TestSubmissionMetrics_NilSafe(t *testing.T) {
	var m *SubmissionMetrics
	assert.NotPanics(t, func() { m.Record(t.Context(), "contact", OutcomeAccepted) })
}
