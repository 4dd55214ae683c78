package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/corner"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/models"
	"github.com/avvvet/fourcorners-services/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
)

// Publisher receives an event after the change it describes is committed.
type Publisher interface {
	PublishEvent(ev comm.GameEvent) error
}

type Outcome string

const (
	OutcomeContinue  Outcome = "continue"
	OutcomeWinner    Outcome = "winner"
	OutcomeNoPlayers Outcome = "no_players"
)

type Enrollment struct {
	GameID  int64          `json:"game_id"`
	Corner  int            `json:"corner"`
	Player  *models.Player `json:"player"`
	Message string         `json:"message"`
}

type RoundResult struct {
	GameID           int64            `json:"game_id"`
	EliminatedCorner int              `json:"eliminated_corner"`
	Removed          int64            `json:"removed"`
	Remaining        []*models.Player `json:"remaining"`
	Outcome          Outcome          `json:"outcome"`
	Winner           *models.Player   `json:"winner,omitempty"`
	NextGameID       int64            `json:"next_game_id,omitempty"`
	Message          string           `json:"message"`
}

type GameStatus struct {
	Game    *models.Game     `json:"game"`
	Players []*models.Player `json:"players"`
}

type GameService struct {
	store    store.Store
	selector *corner.Selector
	events   Publisher
}

// NewGameService wires the engine. events may be nil.
func NewGameService(st store.Store, selector *corner.Selector, events Publisher) *GameService {
	return &GameService{store: st, selector: selector, events: events}
}

func (s *GameService) CreateGame(ctx context.Context) (*models.Game, error) {
	game, err := s.store.InsertGame(ctx, models.GameStatusActive)
	if err != nil {
		return nil, storeErr("create game", err)
	}

	log.WithField("game_id", game.ID).Info("game created")
	s.publish(comm.GameEvent{Type: comm.EventGameCreated, GameID: game.ID, Message: "Game started!"})
	return game, nil
}

// EnrollPlayer adds a player to gameID, or to the latest active game when
// gameID is nil. A game is created when none is active.
func (s *GameService) EnrollPlayer(ctx context.Context, name string, c int, gameID *int64) (*Enrollment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name is required")
	}
	if !corner.Valid(c) {
		return nil, validationErr("corner must be between %d and %d, got %d", corner.Min, corner.Max, c)
	}

	var (
		player  *models.Player
		created *models.Game
	)

	if gameID != nil {
		p, err := s.store.InsertPlayer(ctx, name, c, *gameID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("game %d: %w", *gameID, ErrGameNotFound)
			}
			return nil, storeErr("enroll player", err)
		}
		player = p
	} else {
		err := s.store.WithTx(ctx, func(q store.Querier) error {
			if err := q.LockActiveGames(ctx); err != nil {
				return storeErr("enroll player", err)
			}

			game, err := q.GetLatestGameByStatus(ctx, models.GameStatusActive)
			if errors.Is(err, store.ErrNotFound) {
				game, err = q.InsertGame(ctx, models.GameStatusActive)
				created = game
			}
			if err != nil {
				return storeErr("resolve active game", err)
			}

			player, err = q.InsertPlayer(ctx, name, c, game.ID)
			if err != nil {
				return storeErr("enroll player", err)
			}
			return nil
		})
		if err != nil {
			return nil, txErr("enroll player", err)
		}
	}

	if created != nil {
		log.WithField("game_id", created.ID).Info("game created for enrollment")
		s.publish(comm.GameEvent{Type: comm.EventGameCreated, GameID: created.ID, Message: "Game started!"})
	}

	msg := fmt.Sprintf("Player %s added to corner %d!", player.Name, player.Corner)
	log.WithFields(log.Fields{
		"game_id": player.GameID,
		"player":  player.Name,
		"corner":  player.Corner,
	}).Info("player enrolled")
	s.publish(comm.GameEvent{
		Type:       comm.EventPlayerEnrolled,
		GameID:     player.GameID,
		Corner:     player.Corner,
		PlayerName: player.Name,
		Message:    msg,
	})

	return &Enrollment{
		GameID:  player.GameID,
		Corner:  player.Corner,
		Player:  player,
		Message: msg,
	}, nil
}

// EliminateCorner plays one round on gameID, or on the latest active game
// when gameID is nil. The whole round is one transaction.
func (s *GameService) EliminateCorner(ctx context.Context, gameID *int64) (*RoundResult, error) {
	var res *RoundResult

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		if err := q.LockActiveGames(ctx); err != nil {
			return storeErr("eliminate corner", err)
		}

		game, err := s.resolveActiveGame(ctx, q, gameID)
		if err != nil {
			return err
		}

		eliminated, err := s.selector.Select(game.LastEliminatedCorner)
		if err != nil {
			return err
		}

		if err := q.UpdateGameLastEliminatedCorner(ctx, game.ID, eliminated); err != nil {
			return storeErr("record eliminated corner", err)
		}

		removed, err := q.DeletePlayersByGameAndCorner(ctx, game.ID, eliminated)
		if err != nil {
			return storeErr("remove eliminated players", err)
		}

		remaining, err := q.ListPlayersByGame(ctx, game.ID)
		if err != nil {
			return storeErr("count remaining players", err)
		}

		res = &RoundResult{
			GameID:           game.ID,
			EliminatedCorner: eliminated,
			Removed:          removed,
			Remaining:        remaining,
		}

		switch len(remaining) {
		case 0:
			res.Outcome = OutcomeNoPlayers
			res.Message = "No players remaining, game over!"
		case 1:
			res.Outcome = OutcomeWinner
			res.Winner = remaining[0]
			res.Message = fmt.Sprintf("Player %s wins the game!", remaining[0].Name)
		default:
			res.Outcome = OutcomeContinue
			res.Message = fmt.Sprintf("Corner %d eliminated. %d players remain.", eliminated, len(remaining))
			return nil
		}

		if err := q.UpdateGameStatus(ctx, game.ID, models.GameStatusFinished); err != nil {
			return storeErr("finish game", err)
		}
		next, err := q.InsertGame(ctx, models.GameStatusActive)
		if err != nil {
			return storeErr("start next game", err)
		}
		res.NextGameID = next.ID
		return nil
	})
	if err != nil {
		return nil, txErr("eliminate corner", err)
	}

	s.logRound(res)
	s.publishRound(res)
	return res, nil
}

// resolveActiveGame locks the game a round is played on. Unknown and
// finished games both resolve to ErrNoActiveGame.
func (s *GameService) resolveActiveGame(ctx context.Context, q store.Querier, gameID *int64) (*models.Game, error) {
	var id int64
	if gameID != nil {
		id = *gameID
	} else {
		latest, err := q.GetLatestGameByStatus(ctx, models.GameStatusActive)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNoActiveGame
			}
			return nil, storeErr("resolve active game", err)
		}
		id = latest.ID
	}

	game, err := q.LockGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("game %d: %w: %w", id, ErrNoActiveGame, ErrGameNotFound)
		}
		return nil, storeErr("lock game", err)
	}
	if !game.IsActive() {
		return nil, fmt.Errorf("game %d is %s: %w", id, game.Status, ErrNoActiveGame)
	}
	return game, nil
}

func (s *GameService) GetStatus(ctx context.Context, gameID int64) (*GameStatus, error) {
	status := &GameStatus{}

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		game, err := q.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrGameNotFound)
			}
			return storeErr("get game", err)
		}

		players, err := q.ListPlayersByGame(ctx, gameID)
		if err != nil {
			return storeErr("list players", err)
		}

		status.Game = game
		status.Players = players
		return nil
	})
	if err != nil {
		return nil, txErr("get status", err)
	}
	return status, nil
}

func (s *GameService) logRound(res *RoundResult) {
	entry := log.WithFields(log.Fields{
		"game_id":   res.GameID,
		"corner":    res.EliminatedCorner,
		"removed":   res.Removed,
		"remaining": len(res.Remaining),
		"outcome":   res.Outcome,
	})
	if res.NextGameID != 0 {
		entry = entry.WithField("next_game_id", res.NextGameID)
	}
	entry.Info(res.Message)
}

func (s *GameService) publishRound(res *RoundResult) {
	s.publish(comm.GameEvent{
		Type:      comm.EventCornerEliminated,
		GameID:    res.GameID,
		Corner:    res.EliminatedCorner,
		Removed:   res.Removed,
		Remaining: len(res.Remaining),
		Message:   fmt.Sprintf("Corner %d eliminated. %d players remain.", res.EliminatedCorner, len(res.Remaining)),
	})

	if res.Outcome == OutcomeContinue {
		return
	}

	finished := comm.GameEvent{
		Type:       comm.EventGameFinished,
		GameID:     res.GameID,
		Corner:     res.EliminatedCorner,
		Remaining:  len(res.Remaining),
		NextGameID: res.NextGameID,
		Message:    res.Message,
	}
	if res.Winner != nil {
		finished.Winner = res.Winner.Name
	}
	s.publish(finished)
	s.publish(comm.GameEvent{Type: comm.EventGameCreated, GameID: res.NextGameID, Message: "Game started!"})
}

// publish never fails the caller: the change is already committed.
func (s *GameService) publish(ev comm.GameEvent) {
	if s.events == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if err := s.events.PublishEvent(ev); err != nil {
		log.Errorf("Error publishing %s for game %d: %s", ev.Type, ev.GameID, err)
	}
}
