package sermon

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SermonRepository interface {
	Create(ctx context.Context, s *Sermon) error
	GetByID(ctx context.Context, id string) (*Sermon, error)
	List(ctx context.Context, churchID string, publishedOnly bool, series string) ([]Sermon, error)
	Update(ctx context.Context, s *Sermon) error
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SermonRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSermonRepository(mongodb *database.MongodbDB) SermonRepository {
	return &SermonRepositoryImpl{
		Collection: mongodb.DB.Collection("sermons"),
	}
}

func (r *SermonRepositoryImpl) Create(ctx context.Context, s *Sermon) error {
	s.ID = primitive.NewObjectID()
	s.Published = false
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, s)
	return err
}

func (r *SermonRepositoryImpl) GetByID(ctx context.Context, id string) (*Sermon, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var s Sermon
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SermonRepositoryImpl) List(ctx context.Context, churchID string, publishedOnly bool, series string) ([]Sermon, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"church_id": oid}
	if publishedOnly {
		query["published"] = true
	}
	if series != "" {
		query["series"] = series
	}

	opts := options.Find().SetSort(bson.D{{Key: "preached_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sermons []Sermon
	if err = cursor.All(ctx, &sermons); err != nil {
		return nil, err
	}
	return sermons, nil
}

func (r *SermonRepositoryImpl) Update(ctx context.Context, s *Sermon) error {
	s.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": s})
	return err
}

func (r *SermonRepositoryImpl) Publish(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"published":    true,
		"published_at": now,
		"updated_at":   now,
	}})
	return err
}

func (r *SermonRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
