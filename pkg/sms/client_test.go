package sms

import (
	"context"
	"testing"

	"github.com/llante/llante_site/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.SMSConfig
		wantEnabled bool
		expectError bool
	}{
		{
			name: "disabled",
			cfg:  config.SMSConfig{Enabled: false},
		},
		{
			name: "enabled without API key",
			cfg: config.SMSConfig{
				Enabled: true,
				SMSIR:   config.SMSIRConfig{TemplateID: "lead-alert"},
			},
			expectError: true,
		},
		{
			name: "enabled without template",
			cfg: config.SMSConfig{
				Enabled: true,
				SMSIR:   config.SMSIRConfig{APIKey: "test-api-key"},
			},
			expectError: true,
		},
		{
			name: "enabled",
			cfg: config.SMSConfig{
				Enabled: true,
				SMSIR: config.SMSIRConfig{
					APIKey:     "test-api-key",
					SecretKey:  "test-secret-key",
					TemplateID: "lead-alert",
				},
			},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewFromConfig(tt.cfg)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromConfig failed: %v", err)
			}
			if client.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", client.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestSendLeadAlert_DisabledClient(t *testing.T) {
	client := &Client{enabled: false}

	err := client.SendLeadAlert(context.Background(), LeadAlert{Phone: "+5491123456789", Kind: "contact", LeadID: "x"})
	if err != nil {
		t.Errorf("Expected no error for disabled client, got: %v", err)
	}
}

func TestSendLeadAlert_Validation(t *testing.T) {
	client := &Client{enabled: true, templateID: "lead-alert"}

	tests := []struct {
		name  string
		alert LeadAlert
	}{
		{"empty phone number", LeadAlert{Kind: "contact", LeadID: "x"}},
		{"empty kind", LeadAlert{Phone: "+5491123456789", LeadID: "x"}},
		{"empty lead id", LeadAlert{Phone: "+5491123456789", Kind: "join"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.SendLeadAlert(context.Background(), tt.alert); err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}
