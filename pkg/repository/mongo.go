package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/storefront/pkg/config"
)

// AuditTrail appends order-lifecycle events to a MongoDB collection.
type AuditTrail struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewAuditTrail(cfg *config.MongoDBConfig) (*AuditTrail, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &AuditTrail{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (a *AuditTrail) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, nil)
}

func (a *AuditTrail) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

type AuditEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Action    string    `bson:"action" json:"action"`
	EntityID  string    `bson:"entity_id" json:"entity_id"`
	Actor     string    `bson:"actor" json:"actor"`
	Data      bson.M    `bson:"data" json:"data,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Record inserts one audit entry. Callers treat failures as
// non-fatal; the write is advisory bookkeeping, not business state.
func (a *AuditTrail) Record(ctx context.Context, action, entityID, actor string, data map[string]interface{}) error {
	collection := a.database.Collection(a.config.Collection)
	entry := AuditEntry{
		Action:    action,
		EntityID:  entityID,
		Actor:     actor,
		Data:      bson.M(data),
		CreatedAt: time.Now(),
	}
	_, err := collection.InsertOne(ctx, entry)
	return err
}

func (a *AuditTrail) Entries(ctx context.Context, entityID string, limit int64) ([]*AuditEntry, error) {
	collection := a.database.Collection(a.config.Collection)

	filter := bson.M{"entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
