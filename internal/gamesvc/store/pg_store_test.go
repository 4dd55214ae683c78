package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/db"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPgStore connects to POSTGRES_TEST_URL, skipping when it is unset.
func newTestPgStore(t *testing.T) *PgStore {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	pool, err := db.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE players, games RESTART IDENTITY`)
	require.NoError(t, err)

	return NewPgStore(pool)
}

func TestPgStoreRound(t *testing.T) {
	s := newTestPgStore(t)
	ctx := context.Background()

	g, err := s.InsertGame(ctx, models.GameStatusActive)
	require.NoError(t, err)
	assert.Nil(t, g.LastEliminatedCorner)

	for _, c := range []int{1, 2, 2, 4} {
		_, err := s.InsertPlayer(ctx, "p", c, g.ID)
		require.NoError(t, err)
	}

	err = s.WithTx(ctx, func(q Querier) error {
		locked, err := q.LockGame(ctx, g.ID)
		if err != nil {
			return err
		}
		assert.True(t, locked.IsActive())
		if err := q.UpdateGameLastEliminatedCorner(ctx, g.ID, 2); err != nil {
			return err
		}
		n, err := q.DeletePlayersByGameAndCorner(ctx, g.ID, 2)
		assert.EqualValues(t, 2, n)
		return err
	})
	require.NoError(t, err)

	got, err := s.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastEliminatedCorner)
	assert.Equal(t, 2, *got.LastEliminatedCorner)

	players, err := s.ListPlayersByGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestPgStoreInsertPlayerIntoFinishedGame(t *testing.T) {
	s := newTestPgStore(t)
	ctx := context.Background()

	g, err := s.InsertGame(ctx, models.GameStatusActive)
	require.NoError(t, err)
	require.NoError(t, s.UpdateGameStatus(ctx, g.ID, models.GameStatusFinished))

	_, err = s.InsertPlayer(ctx, "late", 1, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.InsertPlayer(ctx, "ghost", 1, g.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetGame(ctx, g.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPgStoreWithTxRollsBack(t *testing.T) {
	s := newTestPgStore(t)
	ctx := context.Background()

	g, err := s.InsertGame(ctx, models.GameStatusActive)
	require.NoError(t, err)
	_, err = s.InsertPlayer(ctx, "ana", 3, g.ID)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(q Querier) error {
		if err := q.UpdateGameLastEliminatedCorner(ctx, g.ID, 3); err != nil {
			return err
		}
		if _, err := q.DeletePlayersByGameAndCorner(ctx, g.ID, 3); err != nil {
			return err
		}
		if err := q.UpdateGameStatus(ctx, g.ID, models.GameStatusFinished); err != nil {
			return err
		}
		if _, err := q.InsertGame(ctx, models.GameStatusActive); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
	assert.Nil(t, got.LastEliminatedCorner)

	players, err := s.ListPlayersByGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, players, 1)

	latest, err := s.GetLatestGameByStatus(ctx, models.GameStatusActive)
	require.NoError(t, err)
	assert.Equal(t, g.ID, latest.ID)
}

func TestPgStoreConcurrentFindOrCreate(t *testing.T) {
	s := newTestPgStore(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.WithTx(ctx, func(q Querier) error {
				if err := q.LockActiveGames(ctx); err != nil {
					return err
				}
				game, err := q.GetLatestGameByStatus(ctx, models.GameStatusActive)
				if errors.Is(err, ErrNotFound) {
					game, err = q.InsertGame(ctx, models.GameStatusActive)
				}
				if err != nil {
					return err
				}
				_, err = q.InsertPlayer(ctx, "p", 1, game.ID)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var games, players int
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT count(*) FROM games`).Scan(&games))
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT count(*) FROM players`).Scan(&players))
	assert.Equal(t, 1, games)
	assert.Equal(t, workers, players)
}

func TestPgStoreLatestFollowsInsertOrder(t *testing.T) {
	s := newTestPgStore(t)
	ctx := context.Background()

	var early, late *models.Game
	err := s.WithTx(ctx, func(q Querier) error {
		time.Sleep(10 * time.Millisecond)
		g, err := s.InsertGame(ctx, models.GameStatusActive)
		if err != nil {
			return err
		}
		early = g
		late, err = q.InsertGame(ctx, models.GameStatusActive)
		return err
	})
	require.NoError(t, err)
	require.Greater(t, late.ID, early.ID)
	assert.False(t, late.CreatedAt.Before(early.CreatedAt))

	latest, err := s.GetLatestGameByStatus(ctx, models.GameStatusActive)
	require.NoError(t, err)
	assert.Equal(t, late.ID, latest.ID)
}
