package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/avvvet/fourcorners-services/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventRecord(t *testing.T) {
	ts := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	ev := &comm.GameEvent{Type: comm.EventGameFinished, GameID: 3, Winner: "E", NextGameID: 4, Timestamp: ts}

	rec := NewEventRecord(ev, time.Hour)
	assert.Equal(t, "E", rec.Winner)
	assert.EqualValues(t, 4, rec.NextGameID)
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, ts.Add(time.Hour), *rec.ExpiresAt)

	rec = NewEventRecord(&comm.GameEvent{Type: comm.EventGameCreated, GameID: 4}, 0)
	assert.Nil(t, rec.ExpiresAt)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestEventStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	client, database, err := db.ConnectToDB(uri)
	require.NoError(t, err)
	ctx := context.Background()
	t.Cleanup(func() {
		database.Collection(EventsCollection).Drop(ctx)
		client.Disconnect(ctx)
	})
	require.NoError(t, db.CreateEventIndexes(ctx, database, EventsCollection))

	s := NewEventStore(database, 0)
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, typ := range []string{comm.EventGameCreated, comm.EventPlayerEnrolled, comm.EventCornerEliminated} {
		require.NoError(t, s.Insert(ctx, &comm.GameEvent{Type: typ, GameID: 11, Timestamp: base.Add(time.Duration(i) * time.Second)}))
	}
	require.NoError(t, s.Insert(ctx, &comm.GameEvent{Type: comm.EventGameCreated, GameID: 12, Timestamp: base}))

	events, err := s.ListByGame(ctx, 11, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, comm.EventGameCreated, events[0].Type)
	assert.Equal(t, comm.EventCornerEliminated, events[2].Type)
}
