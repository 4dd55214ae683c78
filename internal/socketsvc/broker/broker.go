package broker

import (
	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn      *nats.Conn
	Broadcast func(ev *comm.GameEvent, payload []byte)
}

func NewBroker(conn *nats.Conn, fncBroadcast func(*comm.GameEvent, []byte)) *Broker {
	return &Broker{
		Conn:      conn,
		Broadcast: fncBroadcast,
	}
}

// consume game events from game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleMessages forwards game events to websocket clients untouched.
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	ev, err := comm.DecodeEvent(msgNats.Data)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch ev.Type {
	case comm.EventGameCreated, comm.EventPlayerEnrolled, comm.EventCornerEliminated, comm.EventGameFinished:
		b.Broadcast(ev, msgNats.Data)
	default:
		log.Warnf("Unknown message type %s", ev.Type)
	}
}
