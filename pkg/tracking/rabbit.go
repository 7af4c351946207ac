package tracking

import (
	"log"
	"net/http"

	"github.com/matst80/slask-catalogue/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitTracking struct {
	connection *amqp.Connection
}

const topicPrefix = "catalogue"

func NewRabbitTracking(url string) (*RabbitTracking, error) {
	ret := &RabbitTracking{}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	return ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, topicPrefix, messaging.TopicTracking)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.Publish(t.connection, topicPrefix, messaging.TopicTracking, data)
}

func clientIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) TrackSession(sessionID string, r *http.Request) {
	err := t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: eventSession, SessionID: sessionID},
		UserAgent: r.UserAgent(),
		IP:        clientIP(r),
		Language:  r.Header.Get("Accept-Language"),
	})
	if err != nil {
		log.Printf("Error sending session event: %v", err)
	}
}

func (t *RabbitTracking) TrackCatalogueView(sessionID string, view CatalogueViewEvent, r *http.Request) {
	view.BaseEvent = &BaseEvent{Event: eventCatalogueView, SessionID: sessionID}
	view.Referer = r.Referer()
	if err := t.send(view); err != nil {
		log.Printf("Error sending catalogue view event: %v", err)
	}
}
