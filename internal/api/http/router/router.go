package router

import (
	"database/sql"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/api/http/handler"
	"github.com/llante/llante_site/internal/api/http/middleware"
	"github.com/llante/llante_site/internal/content"
	"github.com/llante/llante_site/internal/service/contact"
	"github.com/llante/llante_site/internal/service/join"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg        *config.Config
	Loader     *content.Loader
	ContactSvc contact.Service
	JoinSvc    join.Service
	Redis      *redis.Client `optional:"true"`
	DB         *sql.DB       `optional:"true"`
	Logger     *slog.Logger  `optional:"true"`
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Handlers
	submitH := handler.NewSubmissionHandler(r.p.ContactSvc, r.p.JoinSvc, r.p.Loader.Locales(), r.p.Logger)
	contentH := handler.NewContentHandler(r.p.Loader, r.p.Logger)
	limit := middleware.NewLimiter(r.p.Cfg.Server.RateLimit, r.p.Redis)

	// 3. API. The unversioned form endpoints are what the site's forms post to.
	r.registerSubmissionRoutes(app.Group("/api"), submitH, limit)
	v1 := app.Group("/api/v1")
	r.registerSubmissionRoutes(v1, submitH, limit)
	r.registerContentRoutes(v1, contentH)

	// 4. Pages
	app.Use(middleware.Locale(middleware.LocaleConfig{
		Set:          r.p.Loader.Locales(),
		SkipPrefixes: r.skipPrefixes(),
	}))
	if dir := r.p.Cfg.Site.StaticDir; dir != "" {
		app.Get("/*", static.New(dir, static.Config{Compress: true}))
	}
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			if r.p.DB == nil {
				return true
			}
			return r.p.DB.PingContext(c.Context()) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if path, ok := r.metricsPath(); ok {
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

func (r *Router) metricsPath() (string, bool) {
	obs := r.p.Cfg.Observability
	if !obs.Enabled || !obs.Metrics.Enabled {
		return "", false
	}
	if obs.Metrics.Path == "" {
		return "/metrics", true
	}
	return obs.Metrics.Path, true
}

func (r *Router) skipPrefixes() []string {
	skip := []string{
		"/api",
		healthcheck.LivenessEndpoint,
		healthcheck.ReadinessEndpoint,
		healthcheck.StartupEndpoint,
	}
	if path, ok := r.metricsPath(); ok {
		skip = append(skip, path)
	}
	return skip
}
