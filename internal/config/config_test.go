package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.AutoSubmit, "auto-submit must default off")
	assert.Equal(t, "Yes", cfg.WorkAuthorizationAnswer)
	assert.Equal(t, "No", cfg.SponsorshipAnswer)
}

func TestPlatformEnabled(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.PlatformEnabled("workday"), "unlisted platforms default to enabled")

	cfg.Platforms = map[string]bool{"taleo": false, "lever": true}
	assert.False(t, cfg.PlatformEnabled("taleo"))
	assert.True(t, cfg.PlatformEnabled("lever"))
	assert.True(t, cfg.PlatformEnabled("greenhouse"))
}
