package donation

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	List(ctx context.Context, churchID string, fund string, from, to time.Time) ([]Donation, error)
	ListUnsynced(ctx context.Context, limit int64) ([]Donation, error)
	MarkSynced(ctx context.Context, ids []primitive.ObjectID) error
}

type DonationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDonationRepository(mongodb *database.MongodbDB) DonationRepository {
	return &DonationRepositoryImpl{
		Collection: mongodb.DB.Collection("donations"),
	}
}

func (r *DonationRepositoryImpl) Create(ctx context.Context, d *Donation) error {
	d.ID = primitive.NewObjectID()
	d.Synced = false
	if d.GivenAt.IsZero() {
		d.GivenAt = time.Now()
	}
	d.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, d)
	return err
}

func (r *DonationRepositoryImpl) GetByID(ctx context.Context, id string) (*Donation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var d Donation
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepositoryImpl) List(ctx context.Context, churchID string, fund string, from, to time.Time) ([]Donation, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"church_id": oid}
	if fund != "" {
		query["fund"] = fund
	}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		query["given_at"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "given_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepositoryImpl) ListUnsynced(ctx context.Context, limit int64) ([]Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "given_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"synced": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepositoryImpl) MarkSynced(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.Collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{"synced": true}})
	return err
}
