package automation

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FollowUpRepository interface {
	Create(ctx context.Context, task *FollowUpTask) error
	ListOpen(ctx context.Context, churchID string) ([]FollowUpTask, error)
	MarkDone(ctx context.Context, id string) error
}

type FollowUpRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFollowUpRepository(mongodb *database.MongodbDB) FollowUpRepository {
	return &FollowUpRepositoryImpl{
		Collection: mongodb.DB.Collection("follow_ups"),
	}
}

func (r *FollowUpRepositoryImpl) Create(ctx context.Context, task *FollowUpTask) error {
	task.ID = primitive.NewObjectID()
	task.Status = "pending"
	task.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, task)
	return err
}

func (r *FollowUpRepositoryImpl) ListOpen(ctx context.Context, churchID string) ([]FollowUpTask, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"church_id": oid, "status": "pending"})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []FollowUpTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *FollowUpRepositoryImpl) MarkDone(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": "done"}})
	return err
}
