package messaging

import (
	"fmt"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Topic string

const (
	TopicTracking       Topic = "tracking"
	TopicProductUpdated Topic = "product_updated"
	TopicProductDeleted Topic = "product_deleted"
)

func topicName(prefix string, topic Topic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func DefineTopic(ch *amqp.Channel, prefix string, topic Topic) error {
	name := topicName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return err
	}
	return nil
}

func Publish[V any](c *amqp.Connection, prefix string, topic Topic, data V) error {
	bytes, err := sonic.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := topicName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}
