//go:build integration

package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sortir/internal/domain"
	"sortir/internal/transport/http/dto"
)

type MongoIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	client    *mongo.Client
	store     *EventStore
}

func (s *MongoIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "27017/tcp")
	s.Require().NoError(err)

	client, err := Connect(s.ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), 10*time.Second)
	s.Require().NoError(err)
	s.client = client

	s.store = NewEventStore(client.Database("sortir_test"))
	s.Require().NoError(s.store.EnsureIndexes(s.ctx))
}

func (s *MongoIntegrationSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *MongoIntegrationSuite) SetupTest() {
	_, _ = s.store.coll.DeleteMany(s.ctx, bson.M{})
}

func TestMongoIntegrationSuite(t *testing.T) {
	suite.Run(t, new(MongoIntegrationSuite))
}

func event(id, segment, genre, localDate, localTime, status string, synced time.Time) *domain.Event {
	return &domain.Event{
		ExternalID: id,
		Name:       "Event " + id,
		Segment:    segment,
		Genre:      genre,
		Date:       domain.EventDate{LocalDate: localDate, LocalTime: localTime},
		Status:     status,
		SyncedAt:   synced,
		CreatedAt:  synced,
		UpdatedAt:  synced,
	}
}

func (s *MongoIntegrationSuite) TestInsertFindUpdate() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	ev := event("E1", "Musique", "Rock", "2030-01-01", "20:00:00", "onsale", now)

	s.Require().NoError(s.store.Insert(s.ctx, ev))
	s.ErrorIs(s.store.Insert(s.ctx, ev), domain.ErrDuplicateKey)

	got, err := s.store.FindByExternalID(s.ctx, "E1")
	s.Require().NoError(err)
	s.Equal("Rock", got.Genre)
	s.True(now.Equal(got.CreatedAt))

	ev.Genre = "Jazz"
	ev.UpdatedAt = now.Add(time.Hour)
	s.Require().NoError(s.store.Update(s.ctx, ev))

	got, err = s.store.FindByExternalID(s.ctx, "E1")
	s.Require().NoError(err)
	s.Equal("Jazz", got.Genre)
	s.True(now.Equal(got.CreatedAt))

	_, err = s.store.FindByExternalID(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFoundRecord)
}

func (s *MongoIntegrationSuite) TestSales_ReadBackAsJSONObject() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	ev := event("S1", "Musique", "Rock", "2030-01-01", "20:00:00", "onsale", now)
	ev.Sales = map[string]any{
		"public":   map[string]any{"startDateTime": "2025-01-01T00:00:00Z"},
		"presales": []any{map[string]any{"name": "Fan club"}},
	}
	s.Require().NoError(s.store.Insert(s.ctx, ev))

	want := `{"public":{"startDateTime":"2025-01-01T00:00:00Z"},"presales":[{"name":"Fan club"}]}`

	got, err := s.store.FindByExternalID(s.ctx, "S1")
	s.Require().NoError(err)
	out, err := json.Marshal(dto.NewEvent(*got).Sales)
	s.Require().NoError(err)
	s.JSONEq(want, string(out))

	found, err := s.store.Find(s.ctx, domain.EventQuery{Today: "2025-01-01"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	out, err = json.Marshal(dto.NewEvent(found[0]).Sales)
	s.Require().NoError(err)
	s.JSONEq(want, string(out))

	byIDs, err := s.store.FindByExternalIDs(s.ctx, []string{"S1"})
	s.Require().NoError(err)
	s.Require().Len(byIDs, 1)
	out, err = json.Marshal(byIDs[0].Sales)
	s.Require().NoError(err)
	s.JSONEq(want, string(out))
}

func (s *MongoIntegrationSuite) TestFind_UpcomingFilterAndOrder() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, ev := range []*domain.Event{
		event("past", "Sports", "Rugby", "2025-08-10", "20:00:00", "onsale", now),
		event("earlier-today", "Sports", "Rugby", "2025-08-11", "09:00:00", "onsale", now),
		event("later-today", "Sports", "Rugby", "2025-08-11", "21:00:00", "onsale", now),
		event("cancelled", "Sports", "Rugby", "2025-08-20", "21:00:00", "cancelled", now),
		event("tomorrow", "Musique", "Jazz", "2025-08-12", "18:00:00", "onsale", now),
	} {
		s.Require().NoError(s.store.Insert(s.ctx, ev))
	}

	q := domain.EventQuery{Today: "2025-08-11", FromTime: "14:30:00"}
	events, err := s.store.Find(s.ctx, q)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("later-today", events[0].ExternalID)
	s.Equal("tomorrow", events[1].ExternalID)

	total, err := s.store.Count(s.ctx, q)
	s.NoError(err)
	s.Equal(int64(2), total)

	q.ExcludeGenres = []string{"Rugby"}
	events, err = s.store.Find(s.ctx, q)
	s.NoError(err)
	s.Len(events, 1)
}

func (s *MongoIntegrationSuite) TestCountAndLastSync() {
	stats, err := s.store.CountAndLastSync(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), stats.Total)
	s.Nil(stats.LastSync)

	older := time.Date(2025, 8, 10, 3, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	s.Require().NoError(s.store.Insert(s.ctx, event("a", "Sports", "", "2030-01-01", "", "", older)))
	s.Require().NoError(s.store.Insert(s.ctx, event("b", "Sports", "", "2030-01-01", "", "", newer)))

	stats, err = s.store.CountAndLastSync(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.Total)
	s.Require().NotNil(stats.LastSync)
	s.True(newer.Equal(*stats.LastSync))
}
