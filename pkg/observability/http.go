package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/llante/llante_site/pkg/observability"

// HeaderTraceID carries the trace id back to the browser so a failed form
// post can be matched to its span.
const HeaderTraceID = "X-Trace-Id"

type httpOptions struct {
	skipPrefixes []string
	attrs        func(c fiber.Ctx) []attribute.KeyValue
}

// HTTPOption tunes TraceRequests.
type HTTPOption func(*httpOptions)

// WithSkipPrefixes leaves requests under any of the prefixes untraced.
// Probes and the metrics scrape would otherwise dominate the span volume.
func WithSkipPrefixes(prefixes ...string) HTTPOption {
	return func(o *httpOptions) { o.skipPrefixes = append(o.skipPrefixes, prefixes...) }
}

// WithRequestAttributes adds attributes computed after the handler chain ran,
// so values stored in locals by later middleware are visible.
func WithRequestAttributes(fn func(c fiber.Ctx) []attribute.KeyValue) HTTPOption {
	return func(o *httpOptions) { o.attrs = fn }
}

// TraceRequests opens a server span per request and records request count and
// latency against the global providers.
func TraceRequests(opts ...HTTPOption) fiber.Handler {
	var o httpOptions
	for _, opt := range opts {
		opt(&o)
	}

	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)
	requests, _ := meter.Int64Counter(
		"llante_http_requests_total",
		metric.WithDescription("HTTP requests by method, route and status"),
		metric.WithUnit("{request}"),
	)
	latency, _ := meter.Float64Histogram(
		"llante_http_request_duration_ms",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"),
	)

	return func(c fiber.Ctx) error {
		if o.skip(c.Path()) {
			return c.Next()
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Method()),
				attribute.String("url.path", c.Path()),
				attribute.String("user_agent.original", c.Get(fiber.HeaderUserAgent)),
				attribute.String("client.address", c.IP()),
			),
		)
		defer span.End()
		c.SetContext(ctx)

		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceID, sc.TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		// The matched route is only known once routing happened.
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)

		status := c.Response().StatusCode()
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		}
		span.SetAttributes(attrs...)
		if o.attrs != nil {
			span.SetAttributes(o.attrs(c)...)
		}

		set := metric.WithAttributes(attrs...)
		requests.Add(ctx, 1, set)
		latency.Record(ctx, elapsed, set)

		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
			if err != nil {
				span.RecordError(err)
			}
		}
		return err
	}
}

func (o httpOptions) skip(path string) bool {
	for _, p := range o.skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
