package config

import (
	"time"

	configs "github.com/avvvet/fourcorners-services/configs"
)

type Config struct {
	MongoURI  string        `env:"MONGODB_URI,required,notEmpty"`
	Port      string        `env:"ARCHIVE_SERVICE_PORT" envDefault:"8082"`
	RateLimit int           `env:"RATE_LIMIT" envDefault:"100"`
	Retention time.Duration `env:"ARCHIVE_RETENTION" envDefault:"720h"` // 0 keeps events forever
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := configs.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
