package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

const schema = `
CREATE TABLE IF NOT EXISTS games (
  id                BIGSERIAL PRIMARY KEY,
  status            TEXT        NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'finished')),
  eliminated_corner SMALLINT    CHECK (eliminated_corner BETWEEN 1 AND 4),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS games_status_id_idx ON games (status, id DESC);

CREATE TABLE IF NOT EXISTS players (
  id         BIGSERIAL PRIMARY KEY,
  name       TEXT        NOT NULL CHECK (name <> ''),
  corner     SMALLINT    NOT NULL CHECK (corner BETWEEN 1 AND 4),
  game_id    BIGINT      NOT NULL REFERENCES games (id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS players_game_corner_idx ON players (game_id, corner);
`

// Connect initializes the connection pool
func Connect(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	DB = pool

	return pool, nil
}

// Migrate creates the games and players tables when they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// ClosePool is for graceful shutdown
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}
