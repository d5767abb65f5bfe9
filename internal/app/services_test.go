package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/content"
)

func TestRulesFromConfig(t *testing.T) {
	rules := RulesFromConfig(config.FormsConfig{})
	assert.Equal(t, "AR", rules.PhoneRegion)
	assert.False(t, rules.StrictPhone)
	assert.NotEmpty(t, rules.Services)
	assert.NotEmpty(t, rules.JoinOptions)

	rules = RulesFromConfig(config.FormsConfig{
		PhoneRegion: "ES",
		Contact:     config.ContactFormConfig{RequirePhone: true, StrictPhone: true, Services: []string{"audit"}},
		Join:        config.JoinFormConfig{Options: []string{"mentor"}},
	})
	assert.True(t, rules.RequirePhone)
	assert.True(t, rules.StrictPhone)
	assert.False(t, rules.RequireService)
	assert.Equal(t, []string{"audit"}, rules.Services)
	assert.Equal(t, []string{"mentor"}, rules.JoinOptions)
	assert.Equal(t, "ES", rules.PhoneRegion)
}

func TestNewContentSource(t *testing.T) {
	cfg := &config.Config{}

	src, err := NewContentSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &content.FSSource{}, src)

	cfg.Site.Content = config.ContentConfig{Source: "dir", Dir: t.TempDir()}
	src, err = NewContentSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &content.FSSource{}, src)

	cfg.Site.Content = config.ContentConfig{Source: "s3"}
	_, err = NewContentSource(cfg, nil)
	assert.Error(t, err)

	cfg.Site.Content = config.ContentConfig{Source: "ftp"}
	_, err = NewContentSource(cfg, nil)
	assert.Error(t, err)
}
