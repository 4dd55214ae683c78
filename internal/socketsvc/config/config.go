package config

import (
	"net/http"
	"slices"

	configs "github.com/avvvet/fourcorners-services/configs"
)

type Config struct {
	Port           string   `env:"SOCKET_SERVICE_PORT" envDefault:"8081"`
	RateLimit      int      `env:"RATE_LIMIT" envDefault:"100"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := configs.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CheckOrigin accepts requests without an Origin header and those from AllowedOrigins.
func (c Config) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}
