package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/api/http/middleware"
	"github.com/llante/llante_site/internal/content"
	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/service/contact"
	"github.com/llante/llante_site/internal/service/join"
	"github.com/llante/llante_site/internal/submission"
	"github.com/llante/llante_site/pkg/constants"
)

type spyDispatcher struct {
	mu    sync.Mutex
	calls []submission.Submission
	err   error
}

func (s *spyDispatcher) Dispatch(_ context.Context, sub submission.Submission) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sub)
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.New(), nil
}

func (s *spyDispatcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type testServer struct {
	app  *fiber.App
	spy  *spyDispatcher
	cfg  *config.Config
	load *content.Loader
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.RateLimit = config.RateLimitConfig{Max: 100, ExpirationSeconds: 60}
	for _, m := range mutate {
		m(cfg)
	}

	set := locale.MustNewSet(constants.DefaultLocales, constants.DefaultLocale)
	loader := content.NewLoader(content.NewEmbedSource(), set, constants.DefaultNamespaces, nil)
	v := submission.NewValidator(set, submission.DefaultRules())
	spy := &spyDispatcher{}

	app := fiber.New()
	app.Use(middleware.RequestID())
	NewRouter(Params{
		Cfg:        cfg,
		Loader:     loader,
		ContactSvc: contact.New(v, spy, nil, nil),
		JoinSvc:    join.New(v, spy, nil, nil),
	}).Register(app)

	return &testServer{app: app, spy: spy, cfg: cfg, load: loader}
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ts.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	}
	return resp, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestContact_Accepted(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, postJSON("/api/contact", `{"name":"Ana","email":"ana@x.com","message":"Hola, quiero info"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"ok": true}, body)

	require.Equal(t, 1, ts.spy.count())
	sub := ts.spy.calls[0]
	assert.Equal(t, submission.KindContact, sub.Kind())
	assert.Equal(t, locale.Locale("es"), sub.Locale())
}

func TestContact_LocaleFromReferer(t *testing.T) {
	ts := newTestServer(t)

	req := postJSON("/api/v1/contact", `{"name":"Ana","email":"ana@x.com","message":"Hello, some info"}`)
	req.Header.Set(fiber.HeaderReferer, "https://llante.example/en/contact?x=1")
	resp, _ := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, ts.spy.count())
	assert.Equal(t, locale.Locale("en"), ts.spy.calls[0].Locale())
}

func TestContact_Invalid(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, postJSON("/api/contact", `{"name":"A","email":"ana.x.com","message":"Hola, quiero info"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid", body["error"])

	fields, ok := body["fields"].([]any)
	require.True(t, ok, "fields = %v", body["fields"])
	var names []string
	for _, f := range fields {
		names = append(names, f.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"name", "email"}, names)
	assert.Zero(t, ts.spy.count())
}

func TestContact_MalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, postJSON("/api/contact", `{"name":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Invalid"}, body)
	assert.Zero(t, ts.spy.count())
}

func TestContact_HoneypotLooksAccepted(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, postJSON("/api/contact", `{"name":"A","email":"bad","message":"x","website":"http://spam"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"ok": true}, body)
	assert.Zero(t, ts.spy.count())
}

func TestContact_DispatchFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.spy.err = errors.New("smtp down")

	resp, body := ts.do(t, postJSON("/api/contact", `{"name":"Ana","email":"ana@x.com","message":"Hola, quiero info"}`))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Server error"}, body)
}

func TestJoin(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, postJSON("/api/join", `{"q1":"developer","q3":"ana@x.com","locale":"en"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"ok": true}, body)
	require.Equal(t, 1, ts.spy.count())
	assert.Equal(t, submission.KindJoin, ts.spy.calls[0].Kind())
	assert.Equal(t, locale.Locale("en"), ts.spy.calls[0].Locale())

	resp, body = ts.do(t, postJSON("/api/v1/join", `{"q1":"astronaut","q3":"ana@x.com"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid", body["error"])

	resp, _ = ts.do(t, postJSON("/api/join", `{"q1":"astronaut","company":"bots inc"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, ts.spy.count())
}

func TestSubmissions_RateLimited(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Server.RateLimit.Max = 2 })

	for i := 0; i < 2; i++ {
		resp, _ := ts.do(t, postJSON("/api/contact", `{"name":`))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	resp, body := ts.do(t, postJSON("/api/contact", `{"name":`))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests", body["error"])
}

func TestMessages(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/messages/en", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", resp.Header.Get(fiber.HeaderContentLanguage))
	for _, ns := range constants.DefaultNamespaces {
		assert.Contains(t, body, ns)
	}
	nav := body["common"].(map[string]any)["nav"].(map[string]any)
	assert.Equal(t, "Story", nav["about"])

	// unsupported locales are served the default
	resp, body = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/messages/fr/common", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "es", resp.Header.Get(fiber.HeaderContentLanguage))
	assert.Equal(t, "Llante", body["brand"])

	resp, _ = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/messages/es/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLegal(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/legal/es/privacy", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["found"])
	doc := body["document"].(map[string]any)
	assert.NotEmpty(t, doc["title"])

	resp, body = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/legal/en/cookies", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["found"])
	sections := body["document"].(map[string]any)["sections"].([]any)
	require.Len(t, sections, 1)
	assert.Equal(t, "Document not found.", sections[0].(map[string]any)["body"])
}

func TestLocaleSwitch(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query    string
		wantCode int
		wantPath string
	}{
		{"?path=/es/about&to=en", http.StatusOK, "/en/about"},
		{"?path=/en&to=es", http.StatusOK, "/es"},
		{"?path=/about%3Fx%3D1&to=en", http.StatusOK, "/en/about?x=1"},
		{"?path=/es/about&to=fr", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/locale/switch"+tt.query, nil))
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, body["path"])
			}
		})
	}
}

func TestLocales(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/locales", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "es", data["default"])
	assert.Equal(t, []any{"es", "en"}, data["supported"])
}

func TestPages_RedirectToLocale(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		accept string
		want   string
	}{
		{"root default", "/", "", "/es"},
		{"english browser", "/about", "en-US,en;q=0.9", "/en/about"},
		{"unsupported browser", "/about", "de-DE", "/es/about"},
		{"query kept", "/projects?tab=2", "en", "/en/projects?tab=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set(fiber.HeaderAcceptLanguage, tt.accept)
			}
			resp, _ := ts.do(t, req)
			assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
			assert.Equal(t, tt.want, resp.Header.Get(fiber.HeaderLocation))
		})
	}
}

func TestPages_NotRedirected(t *testing.T) {
	ts := newTestServer(t)

	for _, p := range []string{"/es/about", "/en", "/favicon.ico", "/api/v1/unknown", healthcheck.LivenessEndpoint} {
		resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, p, nil))
		assert.NotEqual(t, http.StatusTemporaryRedirect, resp.StatusCode, p)
	}
}

func TestStaticShell(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir+"/es/index.html", "<h1>Hola</h1>"))

	ts := newTestServer(t, func(c *config.Config) { c.Site.StaticDir = dir })

	resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, "/es/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Hola")
	assert.Equal(t, "es", resp.Header.Get(fiber.HeaderContentLanguage))
}

func TestReadiness(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, healthcheck.ReadinessEndpoint, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
