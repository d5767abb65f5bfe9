// Package email delivers lead notifications to the site operators over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/llante/llante_site/config"
)

// deliverFunc hands a rendered message to the relay.
type deliverFunc func(*gomail.Message) error

type Client struct {
	cfg     Config
	leads   *LeadTemplates
	deliver deliverFunc
}

func NewFromCentral(cfg *config.Config) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	if cfg.Enabled && strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, invalid("smtp host is required when email is enabled")
	}
	leads, err := NewLeadTemplates(cfg.AppName, cfg.PrimaryColor, cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, leads: leads}
	d := c.dialer()
	c.deliver = func(m *gomail.Message) error { return d.DialAndSend(m) }
	return c, nil
}

// Enabled reports whether sends attempt delivery.
func (c *Client) Enabled() bool { return c.cfg.Enabled }

// SendLead notifies the configured operators about a new lead.
func (c *Client) SendLead(ctx context.Context, l Lead) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	m, err := c.leads.Build(c.cfg.To, l)
	if err != nil {
		return err
	}
	return c.Send(ctx, m)
}

// Send delivers m, giving up at the SMTP timeout or when ctx ends, whichever
// comes first. An abandoned delivery may still complete in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	msg, err := m.render(c.cfg.From)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.deliver(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return &DeliveryError{Host: c.cfg.SMTPHost, Err: err}
		}
		return nil
	case <-ctx.Done():
		return &DeliveryError{Host: c.cfg.SMTPHost, Err: ctx.Err()}
	}
}

func (c *Client) dialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	if c.cfg.SMTPUseTLS {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	}
	return d
}
