package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

const (
	productsCollection  = "products"
	registryCollection  = "registry"
	sessionsCollection  = "sessions"
	summariesCollection = "daily_summaries"
)

// MongoDBRepository implements the repository.Store and repository.SummarySink
// interfaces on MongoDB. Collections are replaced whole on save, mirroring the
// flat-file backend; the dataset is small enough that this keeps both drivers
// behaviorally identical.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

// Products returns every catalog product in natural order.
func (r *MongoDBRepository) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.readAll(ctx, productsCollection, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProducts replaces the product collection.
func (r *MongoDBRepository) SaveProducts(ctx context.Context, products []models.Product) error {
	docs := make([]any, 0, len(products))
	for _, p := range products {
		docs = append(docs, p)
	}
	return r.replaceAll(ctx, productsCollection, docs)
}

// Entries returns every registry entry, all dates included.
func (r *MongoDBRepository) Entries(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if err := r.readAll(ctx, registryCollection, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntries replaces the registry collection.
func (r *MongoDBRepository) SaveEntries(ctx context.Context, entries []models.Entry) error {
	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	return r.replaceAll(ctx, registryCollection, docs)
}

// Sessions returns every issued device session.
func (r *MongoDBRepository) Sessions(ctx context.Context) ([]models.DeviceSession, error) {
	var sessions []models.DeviceSession
	if err := r.readAll(ctx, sessionsCollection, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSessions replaces the device session collection.
func (r *MongoDBRepository) SaveSessions(ctx context.Context, sessions []models.DeviceSession) error {
	docs := make([]any, 0, len(sessions))
	for _, s := range sessions {
		docs = append(docs, s)
	}
	return r.replaceAll(ctx, sessionsCollection, docs)
}

// SaveDailySummary inserts a daily summary document.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	collection := r.collection(summariesCollection)
	if _, err := collection.InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("%w: insert daily summary: %v", models.ErrStorageFailure, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func (r *MongoDBRepository) readAll(ctx context.Context, name string, out any) error {
	cursor, err := r.collection(name).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("%w: query %s: %v", models.ErrStorageFailure, name, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", models.ErrStorageFailure, name, err)
	}
	return nil
}

func (r *MongoDBRepository) replaceAll(ctx context.Context, name string, docs []any) error {
	collection := r.collection(name)
	if _, err := collection.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("%w: clear %s: %v", models.ErrStorageFailure, name, err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: write %s: %v", models.ErrStorageFailure, name, err)
	}
	return nil
}
