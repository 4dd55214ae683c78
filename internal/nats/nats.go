package nats

import (
	"time"

	configs "github.com/avvvet/fourcorners-services/configs"
	"github.com/nats-io/nats.go"
)

type Nats struct {
	Url   string
	Token string
	Conn  *nats.Conn
}

type Config struct {
	Url   string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	Token string `env:"NATS_TOKEN"`
}

// Connect dials NATS_URL, authenticating with NATS_TOKEN when set.
func Connect(name string) (*Nats, error) {
	var cfg Config
	if err := configs.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	n := &Nats{
		Url:   cfg.Url,
		Token: cfg.Token,
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}

	// if token provided
	if n.Token != "" {
		opts = append(opts, nats.Token(n.Token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn

	return n, nil
}
