package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"sortir/internal/domain"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

type RabbitMQ struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger.With("component", "publisher"),
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Without a queue name the exchange is declared but nothing is bound.
	if cfg.QueueName == "" {
		return nil
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// EventPayload is the part of a stored event that consumers receive.
type EventPayload struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	Segment    string `json:"segment"`
	Genre      string `json:"genre,omitempty"`
	SubGenre   string `json:"subGenre,omitempty"`
	LocalDate  string `json:"localDate"`
	LocalTime  string `json:"localTime,omitempty"`
	City       string `json:"city,omitempty"`
	Status     string `json:"status,omitempty"`
}

type EventMessage struct {
	Action    string       `json:"action"`
	Event     EventPayload `json:"event"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewEventMessage(event *domain.Event, isNew bool, now time.Time) EventMessage {
	action := ActionUpdate
	if isNew {
		action = ActionCreate
	}

	payload := EventPayload{
		ExternalID: event.ExternalID,
		Name:       event.Name,
		URL:        event.URL,
		Segment:    event.Segment,
		Genre:      event.Genre,
		SubGenre:   event.SubGenre,
		LocalDate:  event.Date.LocalDate,
		LocalTime:  event.Date.LocalTime,
		Status:     event.Status,
	}
	if event.Venue != nil {
		payload.City = event.Venue.City
	}

	return EventMessage{Action: action, Event: payload, Timestamp: now.UTC()}
}

func (r *RabbitMQ) Publish(ctx context.Context, event *domain.Event, isNew bool) error {
	msg := NewEventMessage(event, isNew, time.Now())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	r.mu.Lock()
	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published event change",
		"external_id", event.ExternalID,
		"action", msg.Action,
	)

	return nil
}

// Ping reports whether the broker connection is still open.
func (r *RabbitMQ) Ping(context.Context) error {
	if r.conn == nil || r.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
