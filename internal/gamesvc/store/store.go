package store

import (
	"context"
	"errors"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
)

// ErrNotFound is returned when a game row does not exist, or when a player
// is inserted into a game that is missing or no longer active.
var ErrNotFound = errors.New("store: not found")

// Querier is the set of operations the game engine runs against storage.
type Querier interface {
	InsertGame(ctx context.Context, status models.GameStatus) (*models.Game, error)
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	// LockGame reads the game and holds its row until the enclosing
	// transaction ends.
	LockGame(ctx context.Context, id int64) (*models.Game, error)
	GetLatestGameByStatus(ctx context.Context, status models.GameStatus) (*models.Game, error)
	UpdateGameStatus(ctx context.Context, id int64, status models.GameStatus) error
	UpdateGameLastEliminatedCorner(ctx context.Context, id int64, corner int) error
	// LockActiveGames serializes transactions that resolve the latest active
	// game or create one. It must be taken before any LockGame in the same
	// transaction.
	LockActiveGames(ctx context.Context) error

	InsertPlayer(ctx context.Context, name string, corner int, gameID int64) (*models.Player, error)
	DeletePlayersByGameAndCorner(ctx context.Context, gameID int64, corner int) (int64, error)
	ListPlayersByGame(ctx context.Context, gameID int64) ([]*models.Player, error)
}

// Store is a Querier that can group operations into one atomic unit.
// When fn returns an error nothing it did is kept.
type Store interface {
	Querier
	WithTx(ctx context.Context, fn func(q Querier) error) error
}
