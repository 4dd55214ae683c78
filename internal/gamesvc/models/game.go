package models

import (
	"time"
)

type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusFinished GameStatus = "finished"
)

type Game struct {
	ID                   int64      `json:"id"`                     // Primary key
	Status               GameStatus `json:"status"`                 // 'active', 'finished'
	LastEliminatedCorner *int       `json:"last_eliminated_corner"` // nil until the first round
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IsActive reports whether rounds can still be played on the game.
func (g *Game) IsActive() bool {
	return g.Status == GameStatusActive
}
