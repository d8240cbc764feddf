package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sortir/internal/domain"
)

const EventsCollection = "events"

type EventStore struct {
	coll *mongo.Collection
}

func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{coll: db.Collection(EventsCollection)}
}

// EnsureIndexes creates the lookup indexes and the unique externalId index.
func (s *EventStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "segment", Value: 1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "date.localDate", Value: 1}, {Key: "date.localTime", Value: 1}}},
		{Keys: bson.D{{Key: "venue.city", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "syncedAt", Value: -1}}},
	}

	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	return nil
}

func (s *EventStore) FindByExternalID(ctx context.Context, externalID string) (*domain.Event, error) {
	var event domain.Event
	err := s.coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFoundRecord
	}
	if err != nil {
		return nil, err
	}
	plainEvent(&event)
	return &event, nil
}

func (s *EventStore) FindByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.Event, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"externalId": bson.M{"$in": externalIDs}})
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	plainEvents(events)
	return events, nil
}

func (s *EventStore) Insert(ctx context.Context, event *domain.Event) error {
	_, err := s.coll.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

// Update replaces the stored document of event.ExternalID.
func (s *EventStore) Update(ctx context.Context, event *domain.Event) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"externalId": event.ExternalID}, event)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFoundRecord
	}
	return nil
}

func (s *EventStore) Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	opts := options.Find().SetSort(buildSort(q.Sort))
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	plainEvents(events)
	return events, nil
}

func (s *EventStore) Count(ctx context.Context, q domain.EventQuery) (int64, error) {
	return s.coll.CountDocuments(ctx, buildFilter(q))
}

// CountAndLastSync returns the number of stored events and the most recent
// syncedAt, which is nil for an empty collection.
func (s *EventStore) CountAndLastSync(ctx context.Context) (domain.EventStats, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("count events: %w", err)
	}

	var latest struct {
		SyncedAt time.Time `bson:"syncedAt"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "syncedAt", Value: -1}}).
		SetProjection(bson.M{"syncedAt": 1})

	err = s.coll.FindOne(ctx, bson.M{}, opts).Decode(&latest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.EventStats{Total: total}, nil
	}
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("last sync: %w", err)
	}

	return domain.EventStats{Total: total, LastSync: &latest.SyncedAt}, nil
}

func buildFilter(q domain.EventQuery) bson.M {
	filter := bson.M{
		"status": bson.M{"$ne": domain.StatusCancelled},
		"$or": bson.A{
			bson.M{"date.localDate": bson.M{"$gt": q.Today}},
			bson.M{
				"date.localDate": q.Today,
				"date.localTime": bson.M{"$gte": q.FromTime},
			},
		},
	}

	if len(q.Segments) > 0 {
		filter["segment"] = bson.M{"$in": q.Segments}
	}

	genre := bson.M{}
	if len(q.Genres) > 0 {
		genre["$in"] = q.Genres
	}
	if len(q.ExcludeGenres) > 0 {
		genre["$nin"] = q.ExcludeGenres
	}
	if len(genre) > 0 {
		filter["genre"] = genre
	}

	return filter
}

func buildSort(sort domain.EventSort) bson.D {
	if sort == domain.SortRecentlySynced {
		return bson.D{{Key: "syncedAt", Value: -1}, {Key: "date.localDate", Value: 1}}
	}
	return bson.D{{Key: "date.localDate", Value: 1}, {Key: "date.localTime", Value: 1}}
}
