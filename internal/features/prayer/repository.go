package prayer

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PrayerRepository interface {
	Create(ctx context.Context, p *PrayerRequest) error
	GetByID(ctx context.Context, id string) (*PrayerRequest, error)
	List(ctx context.Context, churchID string, status string) ([]PrayerRequest, error)
	UpdateStatus(ctx context.Context, id string, status PrayerStatus) error
	Assign(ctx context.Context, id string, userID string) error
	IncrementPrayers(ctx context.Context, id string) error
}

type PrayerRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPrayerRepository(mongodb *database.MongodbDB) PrayerRepository {
	return &PrayerRepositoryImpl{
		Collection: mongodb.DB.Collection("prayer_requests"),
	}
}

func (r *PrayerRepositoryImpl) Create(ctx context.Context, p *PrayerRequest) error {
	p.ID = primitive.NewObjectID()
	p.Status = PrayerOpen
	p.PrayerCount = 0
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *PrayerRepositoryImpl) GetByID(ctx context.Context, id string) (*PrayerRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var p PrayerRequest
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrayerRepositoryImpl) List(ctx context.Context, churchID string, status string) ([]PrayerRequest, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"church_id": oid}
	if status != "" {
		query["status"] = status
	}

	// urgent requests first, then newest
	opts := options.Find().SetSort(bson.D{{Key: "urgent", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []PrayerRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PrayerRepositoryImpl) UpdateStatus(ctx context.Context, id string, status PrayerStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	return err
}

func (r *PrayerRepositoryImpl) Assign(ctx context.Context, id string, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"assigned_to": userID, "updated_at": time.Now()}})
	return err
}

func (r *PrayerRepositoryImpl) IncrementPrayers(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"prayer_count": 1}})
	return err
}
