package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// InsertPlayer enrolls a player into an active game.
// The CTE locks the game row and enforces status='active', so a player can
// not land in a game that a concurrent round is finishing.
func (q *queries) InsertPlayer(ctx context.Context, name string, corner int, gameID int64) (*models.Player, error) {
	const query = `
WITH locked_game AS (
  SELECT id
  FROM games
  WHERE id = $3
    AND status = 'active'
  FOR UPDATE
)
INSERT INTO players (name, corner, game_id)
SELECT $1, $2, lg.id
FROM locked_game lg
RETURNING id, name, corner, game_id, created_at;
`
	p := &models.Player{}
	err := q.db.QueryRow(ctx, query, name, corner, gameID).Scan(
		&p.ID,
		&p.Name,
		&p.Corner,
		&p.GameID,
		&p.CreatedAt,
	)
	if err != nil {
		// zero rows means the game isn't active (or doesn't exist)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503": // foreign key violation
				return nil, ErrNotFound
			case "23514": // check violation
				return nil, fmt.Errorf("invalid player: %s", pgErr.Message)
			}
		}
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	return p, nil
}

func (q *queries) DeletePlayersByGameAndCorner(ctx context.Context, gameID int64, corner int) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM players WHERE game_id = $1 AND corner = $2`, gameID, corner)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *queries) ListPlayersByGame(ctx context.Context, gameID int64) ([]*models.Player, error) {
	query := `
		SELECT id, name, corner, game_id, created_at
		FROM players
		WHERE game_id = $1
		ORDER BY id
	`

	rows, err := q.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		var p models.Player
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Corner,
			&p.GameID,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, &p)
	}

	return players, rows.Err()
}
