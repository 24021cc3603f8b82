package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "ja", cfg.Report.Locale)
	assert.Equal(t, 0.05, cfg.Report.Alpha)
	assert.Equal(t, 120*time.Second, cfg.Model.Timeout)
	assert.False(t, cfg.DB.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_URL", "http://model:8000")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_NAME", "metrics")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "http://model:8000", cfg.Model.URL)
	assert.True(t, cfg.DB.Enabled)
	assert.Equal(t, "postgres://postgres:@localhost:5432/metrics?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
