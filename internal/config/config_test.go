package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Zero(t, cfg.TokenMaxAge)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoadTokenMaxAge(t *testing.T) {
	t.Setenv("TOKEN_MAX_AGE", "168h")
	cfg := Load()
	assert.Equal(t, 168*time.Hour, cfg.TokenMaxAge)
}

func TestLoadTokenMaxAgeInvalid(t *testing.T) {
	t.Setenv("TOKEN_MAX_AGE", "not-a-duration")
	cfg := Load()
	assert.Zero(t, cfg.TokenMaxAge)
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://www.tastella.app, https://tastella.app")
	cfg := Load()
	assert.Equal(t, []string{"https://www.tastella.app", "https://tastella.app"}, cfg.AllowedOrigins)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "Production")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
}
