package trace

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/probkit/probkit/pkg/observability"
)

// MongoStore records one document per tally in a MongoDB collection. Series
// playback sorts on the iteration field, so out-of-order inserts (e.g. from
// a resumed run) still read back in iteration order.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection settings for a MongoDB-backed store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string
	// Database and Collection name where tallies are stored.
	Database   string
	Collection string
}

// DefaultMongoConfig returns settings for a local unauthenticated server.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "probkit",
		Collection: "trace",
	}
}

// mongoRecord is the stored document shape.
type mongoRecord struct {
	Series    string  `bson:"series"`
	Iteration int     `bson:"iteration"`
	Value     float64 `bson:"value"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Tally inserts one document for the sampled value.
func (s *MongoStore) Tally(ctx context.Context, series string, iteration int, value float64) error {
	_, err := s.coll.InsertOne(ctx, mongoRecord{
		Series:    series,
		Iteration: iteration,
		Value:     value,
	})
	if err != nil {
		observability.Store().OnStoreError(ctx, "mongo", err)
		return err
	}
	observability.Store().OnTally(ctx, "mongo", series)
	return nil
}

// Series returns the named series sorted by iteration.
func (s *MongoStore) Series(ctx context.Context, series string) ([]float64, error) {
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "series", Value: series}},
		options.Find().SetSort(bson.D{{Key: "iteration", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []float64
	for cur.Next(ctx) {
		var r mongoRecord
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r.Value)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%q: %w", series, ErrUnknownSeries)
	}
	observability.Store().OnPlayback(ctx, "mongo", series, len(out))
	return out, nil
}

// Names returns the distinct series names in ascending order.
func (s *MongoStore) Names(ctx context.Context) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "series", bson.D{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		if name, ok := r.(string); ok {
			names = append(names, name)
		}
	}
	// Distinct returns values in index order, which is not guaranteed sorted.
	slices.Sort(names)
	return names, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
