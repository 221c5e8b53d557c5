package visitor

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VisitorRepository interface {
	Create(ctx context.Context, v *Visitor) error
	GetByID(ctx context.Context, id string) (*Visitor, error)
	FindByContact(ctx context.Context, churchID, email, phone string) (*Visitor, error)
	List(ctx context.Context, churchID string) ([]Visitor, error)
	IncrementVisits(ctx context.Context, id string) error
	CreateCheckIn(ctx context.Context, ci *CheckIn) error
	ListCheckIns(ctx context.Context, churchID string, since time.Time) ([]CheckIn, error)
}

type VisitorRepositoryImpl struct {
	Collection *mongo.Collection
	CheckIns   *mongo.Collection
}

func NewVisitorRepository(mongodb *database.MongodbDB) VisitorRepository {
	return &VisitorRepositoryImpl{
		Collection: mongodb.DB.Collection("visitors"),
		CheckIns:   mongodb.DB.Collection("check_ins"),
	}
}

func (r *VisitorRepositoryImpl) Create(ctx context.Context, v *Visitor) error {
	v.ID = primitive.NewObjectID()
	v.FirstTime = true
	v.VisitCount = 0
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, v)
	return err
}

func (r *VisitorRepositoryImpl) GetByID(ctx context.Context, id string) (*Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var v Visitor
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByContact matches a returning visitor by email or phone within a church
func (r *VisitorRepositoryImpl) FindByContact(ctx context.Context, churchID, email, phone string) (*Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	contact := bson.A{}
	if email != "" {
		contact = append(contact, bson.M{"email": email})
	}
	if phone != "" {
		contact = append(contact, bson.M{"phone": phone})
	}
	if len(contact) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	var v Visitor
	err = r.Collection.FindOne(ctx, bson.M{"church_id": oid, "$or": contact}).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitorRepositoryImpl) List(ctx context.Context, churchID string) ([]Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"church_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var visitors []Visitor
	if err = cursor.All(ctx, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

func (r *VisitorRepositoryImpl) IncrementVisits(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"visit_count": 1},
		"$set": bson.M{"first_time": false, "updated_at": time.Now()},
	})
	return err
}

func (r *VisitorRepositoryImpl) CreateCheckIn(ctx context.Context, ci *CheckIn) error {
	ci.ID = primitive.NewObjectID()
	ci.CheckedAt = time.Now()
	_, err := r.CheckIns.InsertOne(ctx, ci)
	return err
}

func (r *VisitorRepositoryImpl) ListCheckIns(ctx context.Context, churchID string, since time.Time) ([]CheckIn, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"church_id": oid}
	if !since.IsZero() {
		query["checked_at"] = bson.M{"$gte": since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "checked_at", Value: -1}})
	cursor, err := r.CheckIns.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkIns []CheckIn
	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}
