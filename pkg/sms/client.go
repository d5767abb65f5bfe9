package sms

import (
	"context"
	"fmt"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/llante/llante_site/config"
)

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client     *smsir.Client
	enabled    bool
	templateID string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.TemplateID == "" {
		return nil, fmt.Errorf("sms.ir template ID required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:     client,
		enabled:    true,
		templateID: cfg.SMSIR.TemplateID,
	}, nil
}

// LeadAlert is the short operator alert sent when a lead arrives.
type LeadAlert struct {
	Phone  string
	Kind   string
	LeadID string
}

// SendLeadAlert pings the operator phone through the configured template,
// which must declare the parameters "kind" and "id".
// If SMS is disabled, this is a no-op and returns nil.
func (c *Client) SendLeadAlert(ctx context.Context, a LeadAlert) error {
	if !c.enabled {
		return nil
	}

	if a.Phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if a.Kind == "" || a.LeadID == "" {
		return fmt.Errorf("lead kind and id are required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     a.Phone,
		TemplateID: c.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "kind", Value: a.Kind},
			{Key: "id", Value: a.LeadID},
		},
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
