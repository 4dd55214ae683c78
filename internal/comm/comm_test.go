package comm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEventEnvelope(t *testing.T) {
	payload, err := EncodeEvent(GameEvent{Type: EventCornerEliminated, GameID: 3, Corner: 2, Remaining: 5})
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, EventCornerEliminated, msg.Type)
	assert.Empty(t, msg.SocketId)

	ev, err := DecodeEvent(payload)
	require.NoError(t, err)
	assert.EqualValues(t, 3, ev.GameID)
	assert.Equal(t, 2, ev.Corner)
	assert.Equal(t, 5, ev.Remaining)
}

func TestDecodeEventFillsTypeFromEnvelope(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"game-finished","data":{"game_id":9,"winner":"ana"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventGameFinished, ev.Type)
	assert.Equal(t, "ana", ev.Winner)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`{"type":"x","data":"nope"}`))
	assert.Error(t, err)
}
