package automation

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExecutionRepository interface {
	Create(ctx context.Context, record *ExecutionRecord) error
	ListByChurch(ctx context.Context, churchID string, limit int64) ([]ExecutionRecord, error)
}

type ExecutionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewExecutionRepository(mongodb *database.MongodbDB) ExecutionRepository {
	return &ExecutionRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_executions"),
	}
}

func (r *ExecutionRepositoryImpl) Create(ctx context.Context, record *ExecutionRecord) error {
	record.ID = primitive.NewObjectID()
	record.ExecutedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, record)
	return err
}

func (r *ExecutionRepositoryImpl) ListByChurch(ctx context.Context, churchID string, limit int64) ([]ExecutionRecord, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "executed_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{"church_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []ExecutionRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
