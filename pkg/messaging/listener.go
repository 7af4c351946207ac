package messaging

import (
	"log"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Listen binds the topic queue and feeds decoded messages to the handler
// until the channel closes. Broken payloads are logged and dropped; they are
// acked so one bad message cannot wedge the queue.
func Listen[V any](conn *amqp.Connection, prefix string, topic Topic, handler func(V)) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := DefineTopic(ch, prefix, topic); err != nil {
		ch.Close()
		return err
	}
	name := topicName(prefix, topic)
	if err := ch.QueueBind(name, name, name, false, nil); err != nil {
		ch.Close()
		return err
	}
	deliveries, err := ch.Consume(name, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return err
	}
	go func() {
		defer ch.Close()
		for d := range deliveries {
			var msg V
			if err := sonic.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("dropping broken message on %s: %v", name, err)
				_ = d.Ack(false)
				continue
			}
			handler(msg)
			_ = d.Ack(false)
		}
	}()
	return nil
}
