package jobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aisdk/internal/core"
)

type jobDocument struct {
	ID        string `bson:"_id"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Status    string `bson:"status"`
	Data      []byte `bson:"data"`
}

// MongoDBStore stores jobs in a MongoDB collection.
type MongoDBStore struct {
	collection *mongo.Collection
}

// NewMongoDBStore creates collection indexes if needed.
func NewMongoDBStore(ctx context.Context, database *mongo.Database) (*MongoDBStore, error) {
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	coll := database.Collection(tableName)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create %s indexes: %w", tableName, err)
	}
	return &MongoDBStore{collection: coll}, nil
}

func (s *MongoDBStore) Save(ctx context.Context, job *core.FineTuningJob) error {
	payload, err := serializeJob(job)
	if err != nil {
		return err
	}
	doc := jobDocument{
		ID:        job.ID,
		CreatedAt: job.CreatedAt,
		UpdatedAt: time.Now().Unix(),
		Status:    string(job.Status),
		Data:      payload,
	}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (s *MongoDBStore) Get(ctx context.Context, id string) (*core.FineTuningJob, error) {
	var doc jobDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query job: %w", err)
	}
	return deserializeJob(doc.Data)
}

func (s *MongoDBStore) List(ctx context.Context, limit int, after string) ([]*core.FineTuningJob, error) {
	limit = normalizeLimit(limit)
	filter := bson.M{}

	if after != "" {
		var cursorDoc jobDocument
		if err := s.collection.FindOne(ctx, bson.M{"_id": after}).Decode(&cursorDoc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("query after cursor: %w", err)
		}
		filter = bson.M{
			"$or": bson.A{
				bson.M{"created_at": bson.M{"$lt": cursorDoc.CreatedAt}},
				bson.M{
					"created_at": cursorDoc.CreatedAt,
					"_id":        bson.M{"$lt": cursorDoc.ID},
				},
			},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*core.FineTuningJob, 0, limit)
	for cursor.Next(ctx) {
		var doc jobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode job document: %w", err)
		}
		job, err := deserializeJob(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("decode job payload: %w", err)
		}
		items = append(items, job)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs cursor: %w", err)
	}
	return items, nil
}

// Close is a no-op; the client belongs to the storage layer.
func (s *MongoDBStore) Close() error {
	return nil
}
