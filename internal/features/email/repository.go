package email

import (
	"context"
	"time"

	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SentEmail is the delivery log entry kept for every outbound message
type SentEmail struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	To      []string           `bson:"to" json:"to"`
	Subject string             `bson:"subject" json:"subject"`
	Status  string             `bson:"status" json:"status"` // sent, failed
	Error   string             `bson:"error,omitempty" json:"error,omitempty"`
	SentAt  time.Time          `bson:"sent_at" json:"sent_at"`
}

type EmailRepository struct {
	Collection *mongo.Collection
}

func NewEmailRepository(mongodb *database.MongodbDB) *EmailRepository {
	return &EmailRepository{
		Collection: mongodb.DB.Collection("email_log"),
	}
}

func (r *EmailRepository) Log(ctx context.Context, entry SentEmail) error {
	entry.ID = primitive.NewObjectID()
	entry.SentAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}
