//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"sortir/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) newPublisher(name string) (*RabbitMQ, Config) {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "sortir-" + name,
		RoutingKey: "events-" + name,
		QueueName:  "queue-" + name,
	}
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	return pub, cfg
}

func sampleEvent(id string) *domain.Event {
	return &domain.Event{
		ExternalID: id,
		Name:       "Concert " + id,
		Segment:    "Musique",
		Genre:      "Jazz",
		Date:       domain.EventDate{LocalDate: "2030-05-01", LocalTime: "20:30:00"},
		Venue:      &domain.Venue{City: "Bordeaux"},
		Status:     "onsale",
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, _ := s.newPublisher("connection")

	s.NoError(pub.Ping(s.ctx))
	s.NoError(pub.Close())
	s.Error(pub.Ping(s.ctx))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishCreate() {
	pub, cfg := s.newPublisher("create")
	defer pub.Close()

	s.Require().NoError(pub.Publish(s.ctx, sampleEvent("E1"), true))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received EventMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(ActionCreate, received.Action)
	s.Equal("E1", received.Event.ExternalID)
	s.Equal("Bordeaux", received.Event.City)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishUpdate() {
	pub, cfg := s.newPublisher("update")
	defer pub.Close()

	s.Require().NoError(pub.Publish(s.ctx, sampleEvent("E2"), false))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received EventMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(ActionUpdate, received.Action)
	s.Equal("E2", received.Event.ExternalID)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
