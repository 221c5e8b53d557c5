package cron_feature

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CronRepository interface {
	Create(ctx context.Context, job *ScheduledJob) error
	GetByID(ctx context.Context, id string) (*ScheduledJob, error)
	List(ctx context.Context, churchID string) ([]ScheduledJob, error)
	GetActive(ctx context.Context) ([]ScheduledJob, error)
	Update(ctx context.Context, job *ScheduledJob) error
	Delete(ctx context.Context, id string) error
	UpdateLastRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error
	CreateLog(ctx context.Context, entry *JobRunLog) error
	UpdateLog(ctx context.Context, entry *JobRunLog) error
	GetLogs(ctx context.Context, jobID string, limit int) ([]JobRunLog, error)
}

type CronRepositoryImpl struct {
	Collection *mongo.Collection
	Logs       *mongo.Collection
}

func NewCronRepository(mongodb *database.MongodbDB) CronRepository {
	return &CronRepositoryImpl{
		Collection: mongodb.DB.Collection("scheduled_jobs"),
		Logs:       mongodb.DB.Collection("scheduled_job_logs"),
	}
}

func (r *CronRepositoryImpl) Create(ctx context.Context, job *ScheduledJob) error {
	job.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, job)
	return err
}

func (r *CronRepositoryImpl) GetByID(ctx context.Context, id string) (*ScheduledJob, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var job ScheduledJob
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *CronRepositoryImpl) List(ctx context.Context, churchID string) ([]ScheduledJob, error) {
	query := bson.M{}
	if churchID != "" {
		oid, err := primitive.ObjectIDFromHex(churchID)
		if err != nil {
			return nil, err
		}
		query["church_id"] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []ScheduledJob
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *CronRepositoryImpl) GetActive(ctx context.Context) ([]ScheduledJob, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []ScheduledJob
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *CronRepositoryImpl) Update(ctx context.Context, job *ScheduledJob) error {
	job.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": job})
	return err
}

func (r *CronRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *CronRepositoryImpl) UpdateLastRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"last_run": lastRun,
		"next_run": nextRun,
	}})
	return err
}

func (r *CronRepositoryImpl) CreateLog(ctx context.Context, entry *JobRunLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.Logs.InsertOne(ctx, entry)
	return err
}

func (r *CronRepositoryImpl) UpdateLog(ctx context.Context, entry *JobRunLog) error {
	_, err := r.Logs.UpdateOne(ctx, bson.M{"_id": entry.ID}, bson.M{"$set": entry})
	return err
}

func (r *CronRepositoryImpl) GetLogs(ctx context.Context, jobID string, limit int) ([]JobRunLog, error) {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.Logs.Find(ctx, bson.M{"job_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []JobRunLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
