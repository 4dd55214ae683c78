package store

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsCollection = "game_events"

// EventRecord is a GameEvent as stored in Mongo.
type EventRecord struct {
	Type       string     `bson:"type" json:"type"`
	GameID     int64      `bson:"game_id" json:"game_id"`
	Corner     int        `bson:"corner,omitempty" json:"corner,omitempty"`
	PlayerName string     `bson:"player_name,omitempty" json:"player_name,omitempty"`
	Removed    int64      `bson:"removed,omitempty" json:"removed,omitempty"`
	Remaining  int        `bson:"remaining" json:"remaining"`
	Winner     string     `bson:"winner,omitempty" json:"winner,omitempty"`
	NextGameID int64      `bson:"next_game_id,omitempty" json:"next_game_id,omitempty"`
	Message    string     `bson:"message" json:"message"`
	Timestamp  time.Time  `bson:"timestamp" json:"timestamp"`
	ExpiresAt  *time.Time `bson:"expires_at,omitempty" json:"-"`
}

// NewEventRecord copies ev, setting an expiry when retention is positive.
func NewEventRecord(ev *comm.GameEvent, retention time.Duration) EventRecord {
	rec := EventRecord{
		Type:       ev.Type,
		GameID:     ev.GameID,
		Corner:     ev.Corner,
		PlayerName: ev.PlayerName,
		Removed:    ev.Removed,
		Remaining:  ev.Remaining,
		Winner:     ev.Winner,
		NextGameID: ev.NextGameID,
		Message:    ev.Message,
		Timestamp:  ev.Timestamp,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if retention > 0 {
		exp := rec.Timestamp.Add(retention)
		rec.ExpiresAt = &exp
	}
	return rec
}

type EventStore struct {
	coll      *mongo.Collection
	retention time.Duration
}

func NewEventStore(db *mongo.Database, retention time.Duration) *EventStore {
	return &EventStore{coll: db.Collection(EventsCollection), retention: retention}
}

func (s *EventStore) Insert(ctx context.Context, ev *comm.GameEvent) error {
	if _, err := s.coll.InsertOne(ctx, NewEventRecord(ev, s.retention)); err != nil {
		return fmt.Errorf("insert %s event for game %d: %w", ev.Type, ev.GameID, err)
	}
	return nil
}

// ListByGame returns up to limit events of a game, oldest first.
func (s *EventStore) ListByGame(ctx context.Context, gameID int64, limit int64) ([]EventRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cur, err := s.coll.Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events for game %d: %w", gameID, err)
	}
	defer cur.Close(ctx)

	events := []EventRecord{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events for game %d: %w", gameID, err)
	}
	return events, nil
}
