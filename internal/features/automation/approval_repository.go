package automation

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ApprovalRepository interface {
	Create(ctx context.Context, approval *PendingApproval) error
	GetByID(ctx context.Context, id string) (*PendingApproval, error)
	ListPending(ctx context.Context, churchID string) ([]PendingApproval, error)
	// Resolve flips the approval from pending to the given status. It returns
	// ErrApprovalResolved when the document was already resolved, so two
	// concurrent approvers cannot both win.
	Resolve(ctx context.Context, id string, status ApprovalStatus, resolverID string) (*PendingApproval, error)
}

type ApprovalRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewApprovalRepository(mongodb *database.MongodbDB) ApprovalRepository {
	return &ApprovalRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_approvals"),
	}
}

func (r *ApprovalRepositoryImpl) Create(ctx context.Context, approval *PendingApproval) error {
	approval.ID = primitive.NewObjectID()
	approval.Status = ApprovalStatusPending
	approval.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, approval)
	return err
}

func (r *ApprovalRepositoryImpl) GetByID(ctx context.Context, id string) (*PendingApproval, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrApprovalNotFound
	}
	var approval PendingApproval
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&approval)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrApprovalNotFound
		}
		return nil, err
	}
	return &approval, nil
}

func (r *ApprovalRepositoryImpl) ListPending(ctx context.Context, churchID string) ([]PendingApproval, error) {
	oid, err := primitive.ObjectIDFromHex(churchID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"church_id": oid, "status": ApprovalStatusPending})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var approvals []PendingApproval
	if err = cursor.All(ctx, &approvals); err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *ApprovalRepositoryImpl) Resolve(ctx context.Context, id string, status ApprovalStatus, resolverID string) (*PendingApproval, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrApprovalNotFound
	}

	now := time.Now()
	var approval PendingApproval
	err = r.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": ApprovalStatusPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"resolved_by": resolverID,
			"resolved_at": now,
		}},
	).Decode(&approval)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either missing or already resolved; look it up to tell apart
			count, cntErr := r.Collection.CountDocuments(ctx, bson.M{"_id": oid})
			if cntErr == nil && count > 0 {
				return nil, ErrApprovalResolved
			}
			return nil, ErrApprovalNotFound
		}
		return nil, err
	}

	// FindOneAndUpdate returns the pre-update document by default
	approval.Status = status
	approval.ResolvedBy = resolverID
	approval.ResolvedAt = &now
	return &approval, nil
}
