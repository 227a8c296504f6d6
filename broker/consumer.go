package broker

import (
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// Message is a broker message detached from the transport.
type Message struct {
	Subject string
	Data    []byte
}

type Consumer struct {
	conn     *nats.Conn
	subs     []*nats.Subscription
	incoming chan *nats.Msg
	messages chan Message
}

// InitConsumer subscribes to every subject under a queue group and forwards
// the deliveries on a single channel.
func InitConsumer(url string, subjects []string, group string) (*Consumer, error) {
	conn, err := Connect(url, "notesai-"+group)
	if err != nil {
		return nil, err
	}

	c := &Consumer{
		conn:     conn,
		incoming: make(chan *nats.Msg, 256),
		messages: make(chan Message, 256),
	}

	for _, subject := range subjects {
		sub, err := conn.ChanQueueSubscribe(subject, group, c.incoming)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		c.subs = append(c.subs, sub)
	}

	go c.forward()

	log.Printf("NATS consumer %s listening on %v", group, subjects)
	return c, nil
}

func (c *Consumer) forward() {
	defer close(c.messages)
	for msg := range c.incoming {
		c.messages <- Message{Subject: msg.Subject, Data: msg.Data}
	}
}

// Messages returns the channel of received messages. It is closed by Close.
func (c *Consumer) Messages() <-chan Message {
	return c.messages
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe from %s: %v", sub.Subject, err)
		}
	}
	c.subs = nil
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.incoming != nil {
		close(c.incoming)
		c.incoming = nil
	}
}
