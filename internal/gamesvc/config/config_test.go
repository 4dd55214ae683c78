package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost:5432/fourcorners")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/fourcorners", cfg.DBUrl)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")

	_, err := Load()
	assert.Error(t, err)
}
