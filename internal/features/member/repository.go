package member

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, churchID string, stage string) ([]Member, error)
	Update(ctx context.Context, m *Member) error
	UpdateStage(ctx context.Context, id string, stage string) error
	Delete(ctx context.Context, id string) error
}

type MemberRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewMemberRepository(mongodb *database.MongodbDB) MemberRepository {
	return &MemberRepositoryImpl{
		Collection: mongodb.DB.Collection("members"),
	}
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, m *Member) error {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, m)
	return err
}

func (r *MemberRepositoryImpl) GetByID(ctx context.Context, id string) (*Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var m Member
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepositoryImpl) List(ctx context.Context, churchID string, stage string) ([]Member, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"church_id": oid}
	if stage != "" {
		query["stage"] = stage
	}

	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []Member
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepositoryImpl) Update(ctx context.Context, m *Member) error {
	m.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": m})
	return err
}

func (r *MemberRepositoryImpl) UpdateStage(ctx context.Context, id string, stage string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"stage": stage, "updated_at": time.Now()}})
	return err
}

func (r *MemberRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
