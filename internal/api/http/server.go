package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/api/http/middleware"
	"github.com/llante/llante_site/internal/api/http/router"
	"github.com/llante/llante_site/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := New(p.Cfg, p.OTel)
	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// New builds the Fiber app with the global middleware stack but no routes.
func New(cfg *config.Config, otel *observability.Provider) *fiber.App {
	fc := fiber.Config{AppName: "llante"}
	if cfg.Server.TimeoutSeconds > 0 {
		timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
		fc.ReadTimeout = timeout
		fc.WriteTimeout = timeout
	}
	app := fiber.New(fc)

	if otel != nil && cfg.Observability.Tracing.Enabled {
		app.Use(observability.TraceRequests(
			observability.WithSkipPrefixes("/health", "/metrics"),
			observability.WithRequestAttributes(requestAttributes),
		))
	}

	configureGlobalMiddleware(app, cfg)
	return app
}

func requestAttributes(c fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id, ok := middleware.RequestIDFromFiber(c); ok {
		attrs = append(attrs, attribute.String("request.id", id))
	}
	if loc, ok := middleware.LocaleFromFiber(c); ok {
		attrs = append(attrs, attribute.String("site.locale", loc))
	}
	return attrs
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
	}
	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORS.AllowOrigins,
			AllowMethods:     cfg.Server.CORS.AllowMethods,
			AllowHeaders:     cfg.Server.CORS.AllowHeaders,
			AllowCredentials: cfg.Server.CORS.AllowCredentials,
			MaxAge:           cfg.Server.CORS.MaxAgeSeconds,
		}))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${locals:requestId}] ${method} ${url} ${status} ${latency}\n",
	}))
}
