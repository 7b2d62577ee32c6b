package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Tharoon321/events-api/models"
)

const (
	EventsCollection = "events"
	TeamsCollection  = "teams"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
)

// Mongo persists events and teams in a MongoDB database.
type Mongo struct {
	db     *mongo.Database
	events *mongo.Collection
	teams  *mongo.Collection
}

// NewMongo wraps an already connected database handle.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		db:     db,
		events: db.Collection(EventsCollection),
		teams:  db.Collection(TeamsCollection),
	}
}

// Ping is used by the readiness endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the read endpoints rely on. Safe to run
// on every start.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "startTime", Value: -1}},
		Options: options.Index().SetName("startTime_desc"),
	})
	if err != nil {
		return fmt.Errorf("create events index: %w", err)
	}
	return nil
}

// UpsertTeam inserts the team if no document with that _id exists. An
// existing team is left untouched. created reports whether a new document
// was written.
func (m *Mongo) UpsertTeam(ctx context.Context, id, createdAt string) (bool, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$setOnInsert": bson.M{"_id": id, "createdAt": createdAt}}

	res, err := m.teams.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// InsertEvent stores a new event and returns the generated id as hex.
func (m *Mongo) InsertEvent(ctx context.Context, event *models.Event) (string, error) {
	res, err := m.events.InsertOne(ctx, event)
	if err != nil {
		return "", err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// GetEvent fetches a single event by its hex id.
func (m *Mongo) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var ev models.Event
	if err := m.events.FindOne(ctx, bson.M{"_id": oid}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns up to limit events, latest startTime first.
func (m *Mongo) ListEvents(ctx context.Context, limit int64) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startTime", Value: -1}}).
		SetLimit(limit)

	cursor, err := m.events.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetTeam fetches a team by its identifier.
func (m *Mongo) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := m.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}
