package mongo_client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	mgobson "gopkg.in/mgo.v2/bson"

	"stockrating/types"
)

// Connect dials MongoDB and pings it.
func Connect(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(mongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Send a ping to confirm a successful connection
	pingCmd := mgobson.M{"ping": 1}
	if err := client.Database("admin").RunCommand(ctx, pingCmd).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	zap.L().Info("Connected to MongoDB")
	return client, nil
}

// SnapshotCache keeps recently fetched snapshots so repeated requests for
// the same ticker skip the upstream providers.
type SnapshotCache struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

// NewSnapshotCache prepares the collection, including a TTL index on
// fetchedAt so stale snapshots are removed by the server.
func NewSnapshotCache(ctx context.Context, client *mongo.Client, database, collection string, ttl time.Duration) (*SnapshotCache, error) {
	coll := client.Database(database).Collection(collection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "symbol", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "fetchedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot indexes: %w", err)
	}

	return &SnapshotCache{collection: coll, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached snapshot for symbol, or nil if there is no fresh one.
func (c *SnapshotCache) Get(ctx context.Context, symbol string) (*types.MetricsSnapshot, error) {
	var snapshot types.MetricsSnapshot
	err := c.collection.FindOne(ctx, freshFilter(symbol, c.now().Add(-c.ttl))).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Put stores snapshot, replacing any earlier one for the same symbol.
func (c *SnapshotCache) Put(ctx context.Context, snapshot *types.MetricsSnapshot) error {
	_, err := c.collection.ReplaceOne(ctx,
		symbolFilter(snapshot.Symbol),
		snapshot,
		options.Replace().SetUpsert(true),
	)
	return err
}

func symbolFilter(symbol string) mgobson.M {
	return mgobson.M{"symbol": symbol}
}

// freshFilter matches the snapshot for symbol fetched after since. The TTL
// monitor only sweeps once a minute, so expiry is enforced here as well.
func freshFilter(symbol string, since time.Time) mgobson.M {
	filter := symbolFilter(symbol)
	filter["fetchedAt"] = mgobson.M{"$gt": since}
	return filter
}
