package models

import "time"

type Player struct {
	ID        int64     `json:"id"`      // Primary key
	Name      string    `json:"name"`    // Display name
	Corner    int       `json:"corner"`  // 1..4, fixed at enrollment
	GameID    int64     `json:"game_id"` // FK to games(id)
	CreatedAt time.Time `json:"created_at"`
}
