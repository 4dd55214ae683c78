package broker

import (
	"context"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const QueueGroup = "archive"

type Archiver interface {
	Insert(ctx context.Context, ev *comm.GameEvent) error
}

type Broker struct {
	Conn     *nats.Conn
	Archiver Archiver
	timeout  time.Duration
}

func NewBroker(conn *nats.Conn, archiver Archiver) *Broker {
	return &Broker{
		Conn:     conn,
		Archiver: archiver,
		timeout:  10 * time.Second,
	}
}

// QueueSubscribe consumes events once per archive instance group.
func (b *Broker) QueueSubscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.QueueSubscribe(topic, QueueGroup, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessage(msgNats *nats.Msg) {
	ev, err := comm.DecodeEvent(msgNats.Data)
	if err != nil {
		log.Errorf("Error decoding game event: %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.Archiver.Insert(ctx, ev); err != nil {
		log.Errorf("Error [Archiver.Insert] %s", err)
		return
	}
	log.Debugf("archived %s for game %d", ev.Type, ev.GameID)
}
