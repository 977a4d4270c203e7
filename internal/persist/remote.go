package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

// Remote is the hosted document store keyed by user identity. Save is
// last-write-wins at the document level; the store provides no further
// isolation across devices.
type Remote interface {
	// Load returns the stored snapshot bytes for uid, or nil when the
	// user has no remote document yet.
	Load(ctx context.Context, uid string) ([]byte, error)

	// Save upserts the snapshot bytes (and the account email) under uid.
	Save(ctx context.Context, uid string, snapshot []byte, email string) error
}

// userDocument is the remote document shape: one document per user,
// carrying the serialized snapshot as an opaque blob.
type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email,omitempty"`
	Finance   []byte    `bson:"finance"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore implements Remote against a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	database   string
	collection string
	log        *applog.Logger
}

func NewMongoStore(ctx context.Context, uri, database, collection string, logger *applog.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	store := &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
		log:        logger.WithComponent(applog.ComponentRemote),
	}
	store.log.Info("connected to remote document store")
	return store, nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

func (m *MongoStore) coll() *mongo.Collection {
	return m.client.Database(m.database).Collection(m.collection)
}

func (m *MongoStore) Load(ctx context.Context, uid string) ([]byte, error) {
	var doc userDocument
	err := m.coll().FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load remote snapshot for %s: %w", uid, err)
	}
	return doc.Finance, nil
}

func (m *MongoStore) Save(ctx context.Context, uid string, snapshot []byte, email string) error {
	_, err := m.coll().UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{
			"email":     email,
			"finance":   snapshot,
			"updatedAt": time.Now().UTC(),
		}},
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save remote snapshot for %s: %w", uid, err)
	}
	return nil
}
