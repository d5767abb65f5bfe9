package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Site          SiteConfig          `mapstructure:"site"`
	Forms         FormsConfig         `mapstructure:"forms"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Nats          NatsConfig          `mapstructure:"nats"`
	Email         EmailConfig         `mapstructure:"email"`
	Notify        NotifyConfig        `mapstructure:"notify"`
	SMS           SMSConfig           `mapstructure:"sms"`
	S3            S3Config            `mapstructure:"s3"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url" yaml:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix" yaml:"subject_prefix"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type RateLimitConfig struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	Domain         string          `mapstructure:"domain"`
	Databases      []string        `mapstructure:"databases"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

// SiteConfig describes the locale set and where namespace content comes from.
type SiteConfig struct {
	Locales       []string      `mapstructure:"locales"`
	DefaultLocale string        `mapstructure:"default_locale"`
	Namespaces    []string      `mapstructure:"namespaces"`
	StaticDir     string        `mapstructure:"static_dir"`
	Content       ContentConfig `mapstructure:"content"`
}

type ContentConfig struct {
	Source string `mapstructure:"source"` // embed, dir, s3
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"` // key prefix inside the S3 bucket
}

type FormsConfig struct {
	PhoneRegion string            `mapstructure:"phone_region"`
	Contact     ContactFormConfig `mapstructure:"contact"`
	Join        JoinFormConfig    `mapstructure:"join"`
}

type ContactFormConfig struct {
	RequirePhone   bool     `mapstructure:"require_phone"`
	RequireService bool     `mapstructure:"require_service"`
	StrictPhone    bool     `mapstructure:"strict_phone"`
	Services       []string `mapstructure:"services"`
}

type JoinFormConfig struct {
	Options []string `mapstructure:"options"`
}

type EmailConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	From    string     `mapstructure:"from"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// NotifyConfig addresses the human operator who receives new leads.
type NotifyConfig struct {
	To       []string `mapstructure:"to"`
	AppName  string   `mapstructure:"app_name"`
	SMSPhone string   `mapstructure:"sms_phone"`
}

type SMSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	SMSIR   SMSIRConfig `mapstructure:"smsir"`
}

type SMSIRConfig struct {
	APIKey     string `mapstructure:"api_key"`
	SecretKey  string `mapstructure:"secret_key"`
	TemplateID string `mapstructure:"template_id"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
}

// Validate checks the settings that would otherwise only fail on the first
// request. Missing default-locale content is checked later by the loader.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Site.Locales) == 0 {
		errs = append(errs, errors.New("site.locales must not be empty"))
	}
	if !slices.Contains(c.Site.Locales, c.Site.DefaultLocale) {
		errs = append(errs, fmt.Errorf("site.default_locale %q is not in site.locales", c.Site.DefaultLocale))
	}
	if len(c.Site.Namespaces) == 0 {
		errs = append(errs, errors.New("site.namespaces must not be empty"))
	}

	switch strings.ToLower(c.Site.Content.Source) {
	case "", "embed":
	case "dir":
		if c.Site.Content.Dir == "" {
			errs = append(errs, errors.New("site.content.dir is required when source is dir"))
		}
	case "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required when site.content.source is s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown site.content.source %q", c.Site.Content.Source))
	}

	if len(c.Forms.Join.Options) == 0 {
		errs = append(errs, errors.New("forms.join.options must not be empty"))
	}
	if c.Forms.Contact.RequireService && len(c.Forms.Contact.Services) == 0 {
		errs = append(errs, errors.New("forms.contact.services must not be empty when require_service is set"))
	}

	if c.Email.Enabled && len(c.Notify.To) == 0 {
		errs = append(errs, errors.New("notify.to is required when email is enabled"))
	}

	return errors.Join(errs...)
}
