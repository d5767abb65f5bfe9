package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestLokiWriter(t *testing.T) {
	var got lokiPush
	var user string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		user, _, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Logging.Output.Loki = config.LokiConfig{Enabled: true, Endpoint: srv.URL, Username: "grafana"}

	lw := newLokiWriter(cfg)
	lw.now = func() time.Time { return time.Unix(0, 42) }

	n, err := lw.Write([]byte(`{"msg":"lead dispatched"}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 26, n)
	assert.Equal(t, "grafana", user)
	require.Len(t, got.Streams, 1)
	assert.Equal(t, map[string]string{"service": "llante", "env": "production"}, got.Streams[0].Stream)
	assert.Equal(t, [2]string{"42", `{"msg":"lead dispatched"}`}, got.Streams[0].Values[0])
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(h).With("component", "test")

	logger.Info("hello")
	assert.Contains(t, a.String(), `"component":"test"`)
	assert.Empty(t, b.String())

	logger.Error("boom")
	assert.Contains(t, b.String(), "boom")
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestRequestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(requestHandler{slog.NewJSONHandler(&buf, nil)})

	logger.Info("boot")
	assert.NotContains(t, buf.String(), "request_id")

	buf.Reset()
	ctx := reqctx.With(context.Background(), &reqctx.Meta{RequestID: "rid-9", Locale: "es"})
	logger.With("component", "contact").InfoContext(ctx, "contact accepted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rid-9", line["request_id"])
	assert.Equal(t, "es", line["locale"])
	assert.Equal(t, "contact", line["component"])
}

func TestLocalHandlerAndWriter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "development"

	h := localHandler(&bytes.Buffer{}, cfg, slog.LevelInfo)
	_, isText := h.(*slog.TextHandler)
	assert.True(t, isText)

	cfg.Logging.Format = "json"
	_, isJSON := localHandler(&bytes.Buffer{}, cfg, slog.LevelInfo).(*slog.JSONHandler)
	assert.True(t, isJSON)

	assert.Equal(t, os.Stdout, localWriter(config.OutputConfig{}))
	assert.NotNil(t, New(cfg))
}
