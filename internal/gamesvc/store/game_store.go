package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, status, eliminated_corner, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.Status,
		&game.LastEliminatedCorner,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (q *queries) InsertGame(ctx context.Context, status models.GameStatus) (*models.Game, error) {
	query := `
		INSERT INTO games (status)
		VALUES ($1)
		RETURNING ` + gameColumns

	game, err := scanGame(q.db.QueryRow(ctx, query, status))
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	return game, nil
}

func (q *queries) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1`

	game, err := scanGame(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return game, nil
}

func (q *queries) LockGame(ctx context.Context, id int64) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
		FOR UPDATE`

	game, err := scanGame(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock game %d: %w", id, err)
	}
	return game, nil
}

// GetLatestGameByStatus returns the most recently created game with status.
// Ids come from a sequence, so they order games by insertion.
func (q *queries) GetLatestGameByStatus(ctx context.Context, status models.GameStatus) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1
		ORDER BY id DESC
		LIMIT 1`

	game, err := scanGame(q.db.QueryRow(ctx, query, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest %s game: %w", status, err)
	}
	return game, nil
}

func (q *queries) UpdateGameStatus(ctx context.Context, id int64, status models.GameStatus) error {
	tag, err := q.db.Exec(ctx, `UPDATE games SET status = $1, updated_at = clock_timestamp() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *queries) UpdateGameLastEliminatedCorner(ctx context.Context, id int64, corner int) error {
	tag, err := q.db.Exec(ctx, `UPDATE games SET eliminated_corner = $1, updated_at = clock_timestamp() WHERE id = $2`, corner, id)
	if err != nil {
		return fmt.Errorf("failed to update eliminated corner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
