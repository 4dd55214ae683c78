package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Port  string   `env:"SAMPLE_PORT" envDefault:"9000"`
	Hosts []string `env:"SAMPLE_HOSTS" envSeparator:","`
}

func TestParseEnv(t *testing.T) {
	t.Setenv("SAMPLE_HOSTS", "a,b")

	var cfg sample
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Hosts)
}

func TestParseEnvRejectsNonPointer(t *testing.T) {
	assert.Error(t, ParseEnv(sample{}))
}

func TestCustomLoggerMiddlewarePassesThrough(t *testing.T) {
	h := CustomLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("test")
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetInstanceId())
}
