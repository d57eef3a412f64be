package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sessionsCollection = "sessions"
	updatedAtIndex     = "updated_at"
)

// MongoConfig tunes the MongoDB client.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	// SessionTTL expires session documents this long after their last
	// write. Zero keeps them forever.
	SessionTTL time.Duration
}

// DefaultMongoConfig returns the client settings used in production.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
	}
}

// MongoDB owns the client and the sessions collection.
type MongoDB struct {
	Client   *mongo.Client
	Sessions *mongo.Collection
}

// sessionDocument stores all slots of one namespace in a single document,
// which is what makes Commit atomic without multi-document transactions.
type sessionDocument struct {
	ID        string            `bson:"_id"`
	Slots     map[string]string `bson:"slots"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return ConnectMongoDB(context.Background(), uri, databaseName, DefaultMongoConfig())
}

// ConnectMongoDB connects, pings and prepares the sessions collection.
func ConnectMongoDB(ctx context.Context, uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	// ApplyURI goes last so options in the URI override these defaults.
	opts := options.Client().
		SetAppName("cart-service").
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetRetryWrites(true).
		SetRetryReads(true).
		ApplyURI(uri)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	m := &MongoDB{
		Client:   client,
		Sessions: client.Database(databaseName).Collection(sessionsCollection),
	}
	if err := m.ensureIndexes(ctx, cfg.SessionTTL); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return m, nil
}

// ensureIndexes makes the updated_at index match ttl. An index left by an
// earlier TTL setting is dropped and rebuilt, since MongoDB refuses to
// create an index under an existing name with different options.
func (m *MongoDB) ensureIndexes(ctx context.Context, ttl time.Duration) error {
	want, err := ttlSeconds(ttl)
	if err != nil {
		return err
	}

	current, found, err := m.updatedAtIndex(ctx)
	if err != nil {
		return err
	}
	if found {
		if sameTTL(current, want) {
			return nil
		}
		if _, err := m.Sessions.Indexes().DropOne(ctx, updatedAtIndex); err != nil {
			return fmt.Errorf("drop stale %s index: %w", updatedAtIndex, err)
		}
	}

	idx := options.Index().SetName(updatedAtIndex)
	if want != nil {
		idx.SetExpireAfterSeconds(*want)
	}
	_, err = m.Sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: idx,
	})
	return err
}

func (m *MongoDB) updatedAtIndex(ctx context.Context) (*int32, bool, error) {
	specs, err := m.Sessions.Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, spec := range specs {
		if spec.Name == updatedAtIndex {
			return spec.ExpireAfterSeconds, true, nil
		}
	}
	return nil, false, nil
}

// ttlSeconds converts a session TTL to the index option. Zero or negative
// means no expiry; sub-second values round up to one second.
func ttlSeconds(ttl time.Duration) (*int32, error) {
	if ttl <= 0 {
		return nil, nil
	}
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs > math.MaxInt32 {
		return nil, fmt.Errorf("session TTL %s exceeds %d seconds", ttl, math.MaxInt32)
	}
	v := int32(secs)
	return &v, nil
}

func sameTTL(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// Ping checks the primary is reachable within two seconds.
func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

// MongoSlotStore implements SlotStore on the sessions collection.
type MongoSlotStore struct {
	db *MongoDB
}

// NewMongoSlotStore creates a slot store backed by db.
func NewMongoSlotStore(db *MongoDB) *MongoSlotStore {
	return &MongoSlotStore{db: db}
}

// Get returns the slot value and whether it exists.
func (s *MongoSlotStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if err := ValidateSlotKey(key); err != nil {
		return "", false, err
	}

	var doc sessionDocument
	opts := options.FindOne().SetProjection(bson.M{"slots." + key: 1})
	err := s.db.Sessions.FindOne(ctx, bson.M{"_id": namespace}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	v, ok := doc.Slots[key]
	return v, ok, nil
}

// Commit turns the batch into one $set/$unset update on the session document.
// A key that is both set and deleted in the same batch keeps its last mutation.
func (s *MongoSlotStore) Commit(ctx context.Context, namespace string, mutations ...Mutation) error {
	if err := ValidateMutations(mutations); err != nil {
		return err
	}
	if len(mutations) == 0 {
		return nil
	}

	final := make(map[string]Mutation, len(mutations))
	for _, m := range mutations {
		final[m.Key] = m
	}

	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}
	for key, m := range final {
		if m.Delete {
			unset["slots."+key] = ""
		} else {
			set["slots."+key] = m.Value
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	_, err := s.db.Sessions.UpdateOne(
		ctx,
		bson.M{"_id": namespace},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

// Ping reports whether MongoDB is reachable.
func (s *MongoSlotStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
