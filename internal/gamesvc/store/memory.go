package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
)

// MemoryStore keeps games and players in process memory. Every call, and
// every WithTx callback as a whole, runs under one mutex.
type MemoryStore struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	games        map[int64]*models.Game
	players      map[int64]*models.Player
	nextGameID   int64
	nextPlayerID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: memState{
			games:   make(map[int64]*models.Game),
			players: make(map[int64]*models.Player),
		},
	}
}

func (st *memState) clone() memState {
	c := memState{
		games:        make(map[int64]*models.Game, len(st.games)),
		players:      make(map[int64]*models.Player, len(st.players)),
		nextGameID:   st.nextGameID,
		nextPlayerID: st.nextPlayerID,
	}
	for id, g := range st.games {
		c.games[id] = copyGame(g)
	}
	for id, p := range st.players {
		cp := *p
		c.players[id] = &cp
	}
	return c
}

func copyGame(g *models.Game) *models.Game {
	c := *g
	if g.LastEliminatedCorner != nil {
		corner := *g.LastEliminatedCorner
		c.LastEliminatedCorner = &corner
	}
	return &c
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(q Querier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memQueries{st: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) InsertGame(ctx context.Context, status models.GameStatus) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).InsertGame(ctx, status)
}

func (s *MemoryStore) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).GetGame(ctx, id)
}

func (s *MemoryStore) LockGame(ctx context.Context, id int64) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).LockGame(ctx, id)
}

func (s *MemoryStore) GetLatestGameByStatus(ctx context.Context, status models.GameStatus) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).GetLatestGameByStatus(ctx, status)
}

func (s *MemoryStore) UpdateGameStatus(ctx context.Context, id int64, status models.GameStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).UpdateGameStatus(ctx, id, status)
}

func (s *MemoryStore) UpdateGameLastEliminatedCorner(ctx context.Context, id int64, corner int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).UpdateGameLastEliminatedCorner(ctx, id, corner)
}

func (s *MemoryStore) LockActiveGames(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) InsertPlayer(ctx context.Context, name string, corner int, gameID int64) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).InsertPlayer(ctx, name, corner, gameID)
}

func (s *MemoryStore) DeletePlayersByGameAndCorner(ctx context.Context, gameID int64, corner int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).DeletePlayersByGameAndCorner(ctx, gameID, corner)
}

func (s *MemoryStore) ListPlayersByGame(ctx context.Context, gameID int64) ([]*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{st: &s.state}).ListPlayersByGame(ctx, gameID)
}

// memQueries runs against state whose lock is already held.
type memQueries struct {
	st *memState
}

func (q *memQueries) InsertGame(_ context.Context, status models.GameStatus) (*models.Game, error) {
	q.st.nextGameID++
	now := time.Now().UTC()
	g := &models.Game{
		ID:        q.st.nextGameID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q.st.games[g.ID] = g
	return copyGame(g), nil
}

func (q *memQueries) GetGame(_ context.Context, id int64) (*models.Game, error) {
	g, ok := q.st.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGame(g), nil
}

// LockGame is GetGame: the caller already holds the store mutex.
func (q *memQueries) LockGame(ctx context.Context, id int64) (*models.Game, error) {
	return q.GetGame(ctx, id)
}

// Ids are assigned in creation order, so the highest id is the latest game.
func (q *memQueries) GetLatestGameByStatus(_ context.Context, status models.GameStatus) (*models.Game, error) {
	var latest *models.Game
	for _, g := range q.st.games {
		if g.Status != status {
			continue
		}
		if latest == nil || g.ID > latest.ID {
			latest = g
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return copyGame(latest), nil
}

func (q *memQueries) UpdateGameStatus(_ context.Context, id int64, status models.GameStatus) error {
	g, ok := q.st.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (q *memQueries) UpdateGameLastEliminatedCorner(_ context.Context, id int64, corner int) error {
	g, ok := q.st.games[id]
	if !ok {
		return ErrNotFound
	}
	g.LastEliminatedCorner = &corner
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (q *memQueries) LockActiveGames(context.Context) error {
	return nil
}

func (q *memQueries) InsertPlayer(_ context.Context, name string, corner int, gameID int64) (*models.Player, error) {
	g, ok := q.st.games[gameID]
	if !ok || !g.IsActive() {
		return nil, ErrNotFound
	}
	q.st.nextPlayerID++
	p := &models.Player{
		ID:        q.st.nextPlayerID,
		Name:      name,
		Corner:    corner,
		GameID:    gameID,
		CreatedAt: time.Now().UTC(),
	}
	q.st.players[p.ID] = p
	cp := *p
	return &cp, nil
}

func (q *memQueries) DeletePlayersByGameAndCorner(_ context.Context, gameID int64, corner int) (int64, error) {
	var n int64
	for id, p := range q.st.players {
		if p.GameID == gameID && p.Corner == corner {
			delete(q.st.players, id)
			n++
		}
	}
	return n, nil
}

func (q *memQueries) ListPlayersByGame(_ context.Context, gameID int64) ([]*models.Player, error) {
	players := []*models.Player{}
	for _, p := range q.st.players {
		if p.GameID == gameID {
			cp := *p
			players = append(players, &cp)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}
