package church

import (
	"context"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChurchRepository interface {
	Create(ctx context.Context, church *Church) error
	FindByID(ctx context.Context, id string) (*Church, error)
	FindBySlug(ctx context.Context, slug string) (*Church, error)
	ListAll(ctx context.Context) ([]Church, error)
	Update(ctx context.Context, church *Church) error
}

type ChurchRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewChurchRepository(mongodb *database.MongodbDB) ChurchRepository {
	return &ChurchRepositoryImpl{
		Collection: mongodb.DB.Collection("churches"),
	}
}

func (r *ChurchRepositoryImpl) Create(ctx context.Context, church *Church) error {
	_, err := r.Collection.InsertOne(ctx, church)
	return err
}

func (r *ChurchRepositoryImpl) FindByID(ctx context.Context, id string) (*Church, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var church Church
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&church); err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *ChurchRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Church, error) {
	var church Church
	err := r.Collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&church)
	if err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *ChurchRepositoryImpl) ListAll(ctx context.Context) ([]Church, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var churches []Church
	if err = cursor.All(ctx, &churches); err != nil {
		return nil, err
	}
	return churches, nil
}

func (r *ChurchRepositoryImpl) Update(ctx context.Context, church *Church) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": church.ID}, bson.M{"$set": church})
	return err
}
