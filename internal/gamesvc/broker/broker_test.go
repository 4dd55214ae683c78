package broker

import (
	"errors"
	"testing"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return f.err
}

func TestPublishEvent(t *testing.T) {
	conn := &fakeConn{}
	b := NewBroker(conn)

	err := b.PublishEvent(comm.GameEvent{Type: comm.EventGameFinished, GameID: 4, Winner: "E", NextGameID: 5})
	require.NoError(t, err)

	require.Len(t, conn.payloads, 1)
	assert.Equal(t, comm.EventsTopic, conn.subjects[0])

	ev, err := comm.DecodeEvent(conn.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, comm.EventGameFinished, ev.Type)
	assert.Equal(t, "E", ev.Winner)
	assert.EqualValues(t, 5, ev.NextGameID)
}

func TestPublishEventError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	b := NewBroker(conn)

	assert.Error(t, b.PublishEvent(comm.GameEvent{Type: comm.EventGameCreated, GameID: 1}))
}
