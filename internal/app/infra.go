package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/content"
	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/repo"
	"github.com/llante/llante_site/pkg/database"
	"github.com/llante/llante_site/pkg/email"
	"github.com/llante/llante_site/pkg/observability"
	redispkg "github.com/llante/llante_site/pkg/redis"
	s3pkg "github.com/llante/llante_site/pkg/s3"
	"github.com/llante/llante_site/pkg/sms"
)

// InfraModule provides all infrastructure dependencies. Optional backends
// (database, Redis, NATS, S3, telemetry) are provided as nil when they are
// not configured.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideRepo),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideSubmissionMetrics),
	fx.Provide(ProvideS3Client),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideLocaleSet),
	fx.Provide(ProvideContentSource),
	fx.Provide(ProvideContentLoader),
)

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*sql.DB, error) {
	if !database.Enabled(cfg.Database) {
		slog.Warn("database not configured, leads will not be stored")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := database.Open(ctx, database.FromCentralConfig(cfg.Database))
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrations.AutoMigrate {
		if err := database.Migrate(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return conn.Close()
		},
	})
	return conn, nil
}

func ProvideRepo(db *sql.DB) *repo.Client {
	if db == nil {
		return nil
	}
	return repo.New(db)
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if !redispkg.Enabled(cfg.Redis) {
		slog.Info("redis not configured, rate limits are kept in memory")
		return nil, nil
	}
	rdb, err := redispkg.Open(context.Background(), redispkg.FromCentralConfig(cfg.Redis))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

func ProvideS3Client(cfg *config.Config) (*s3pkg.Client, error) {
	if cfg.S3.Bucket == "" {
		return nil, nil
	}
	return s3pkg.New(cfg.S3)
}

func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name("llante"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.Setup(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideSubmissionMetrics takes the provider only so the global meter is
// installed before the counter is created.
func ProvideSubmissionMetrics(_ *observability.Provider) *observability.SubmissionMetrics {
	return observability.NewSubmissionMetrics()
}

func ProvideLocaleSet(cfg *config.Config) (*locale.Set, error) {
	return locale.NewSet(cfg.Site.Locales, cfg.Site.DefaultLocale)
}

func ProvideContentSource(cfg *config.Config, s3 *s3pkg.Client) (content.Source, error) {
	return NewContentSource(cfg, s3)
}

// NewContentSource picks the namespace file source named by
// site.content.source.
func NewContentSource(cfg *config.Config, s3 *s3pkg.Client) (content.Source, error) {
	switch strings.ToLower(cfg.Site.Content.Source) {
	case "", "embed":
		return content.NewEmbedSource(), nil
	case "dir":
		return content.NewDirSource(cfg.Site.Content.Dir), nil
	case "s3":
		if s3 == nil {
			return nil, fmt.Errorf("content source s3 requires s3.bucket")
		}
		return content.NewS3Source(s3, cfg.Site.Content.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Site.Content.Source)
	}
}

// ProvideContentLoader preloads every locale on start so a missing default
// locale namespace stops the process instead of failing the first request.
func ProvideContentLoader(lc fx.Lifecycle, cfg *config.Config, src content.Source, set *locale.Set) *content.Loader {
	loader := content.NewLoader(src, set, cfg.Site.Namespaces, slog.Default())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := loader.Preload(ctx); err != nil {
				return fmt.Errorf("preload content: %w", err)
			}
			slog.Info("content loaded", "locales", cfg.Site.Locales, "namespaces", len(cfg.Site.Namespaces))
			return nil
		},
	})
	return loader
}
