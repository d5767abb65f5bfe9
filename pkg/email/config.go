package email

import (
	"time"

	"github.com/llante/llante_site/config"
)

// Config holds email service configuration
type Config struct {
	Enabled bool
	From    string

	// SMTP settings
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// Lead notifications
	To            []string
	AppName       string
	PrimaryColor  string
	DefaultLocale string
}

// DefaultConfig returns sensible defaults for email configuration
func DefaultConfig() Config {
	return Config{
		Enabled:            false,
		SMTPPort:           587,
		SMTPUseTLS:         true,
		SMTPTimeoutSeconds: 30,
		AppName:            "Llante",
		PrimaryColor:       "#111827",
		DefaultLocale:      "es",
	}
}

// SMTPTimeout returns the SMTP timeout as a duration
func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// FromCentralConfig converts the email, notify and site sections of the
// central config to package Config
func FromCentralConfig(cfg *config.Config) Config {
	d := DefaultConfig()
	c, n := cfg.Email, cfg.Notify
	appName := n.AppName
	if appName == "" {
		appName = d.AppName
	}
	defLocale := cfg.Site.DefaultLocale
	if defLocale == "" {
		defLocale = d.DefaultLocale
	}
	return Config{
		To:                 n.To,
		AppName:            appName,
		PrimaryColor:       d.PrimaryColor,
		DefaultLocale:      defLocale,
		Enabled:            c.Enabled,
		From:               c.From,
		SMTPHost:           c.SMTP.Host,
		SMTPPort:           c.SMTP.Port,
		SMTPUsername:       c.SMTP.Username,
		SMTPPassword:       c.SMTP.Password,
		SMTPUseTLS:         c.SMTP.UseTLS,
		SMTPTimeoutSeconds: c.SMTP.TimeoutSeconds,
	}
}
