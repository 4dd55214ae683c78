package broker

import (
	"github.com/avvvet/fourcorners-services/internal/comm"
	log "github.com/sirupsen/logrus"
)

// Conn is the part of *nats.Conn the broker publishes through.
type Conn interface {
	Publish(subj string, data []byte) error
}

type Broker struct {
	Conn  Conn
	Topic string
}

func NewBroker(nc Conn) *Broker {
	return &Broker{
		Conn:  nc,
		Topic: comm.EventsTopic,
	}
}

// PublishEvent sends ev to the events topic for socket and archive services.
func (b *Broker) PublishEvent(ev comm.GameEvent) error {
	payload, err := comm.EncodeEvent(ev)
	if err != nil {
		log.Errorf("[PublishEvent] unable to marshal %s event for game %d: %s", ev.Type, ev.GameID, err)
		return err
	}

	return b.Publish(b.Topic, payload)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
