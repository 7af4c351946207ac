package sync

import (
	"log"

	"github.com/matst80/slask-catalogue/pkg/messaging"
	"github.com/matst80/slask-catalogue/pkg/store"
	"github.com/matst80/slask-catalogue/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

const topicPrefix = "catalogue"

// ProductSync keeps a read replica's store in step with the catalogue
// management system by consuming product change topics.
type ProductSync struct {
	connection *amqp.Connection
}

func NewProductSync(url string) (*ProductSync, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &ProductSync{connection: conn}, nil
}

func (s *ProductSync) Close() error {
	return s.connection.Close()
}

// Listen applies product upserts and deletions to the store as they arrive.
func (s *ProductSync) Listen(target *store.MemoryStore) error {
	err := messaging.Listen(s.connection, topicPrefix, messaging.TopicProductUpdated, func(p types.Product) {
		target.UpsertProduct(&p)
	})
	if err != nil {
		return err
	}
	return messaging.Listen(s.connection, topicPrefix, messaging.TopicProductDeleted, func(id uint) {
		target.DeleteProduct(id)
	})
}

// PublishUpsert announces a product change to every listening replica.
func (s *ProductSync) PublishUpsert(p *types.Product) {
	if err := messaging.Publish(s.connection, topicPrefix, messaging.TopicProductUpdated, p); err != nil {
		log.Printf("failed to publish product %d: %v", p.ID, err)
	}
}

func (s *ProductSync) PublishDelete(id uint) {
	if err := messaging.Publish(s.connection, topicPrefix, messaging.TopicProductDeleted, id); err != nil {
		log.Printf("failed to publish delete of product %d: %v", id, err)
	}
}
