package prayer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrayerStatus string

const (
	PrayerOpen     PrayerStatus = "open"
	PrayerPraying  PrayerStatus = "praying"
	PrayerAnswered PrayerStatus = "answered"
	PrayerArchived PrayerStatus = "archived"
)

type PrayerRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID    primitive.ObjectID `bson:"church_id" json:"church_id"`
	RequesterID string             `bson:"requester_id,omitempty" json:"requester_id,omitempty"`
	Requester   string             `bson:"requester,omitempty" json:"requester,omitempty"`
	Subject     string             `bson:"subject" json:"subject"`
	Body        string             `bson:"body,omitempty" json:"body,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Urgent      bool               `bson:"urgent" json:"urgent"`
	Anonymous   bool               `bson:"anonymous" json:"anonymous"`
	Status      PrayerStatus       `bson:"status" json:"status"`
	AssignedTo  string             `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	PrayerCount int                `bson:"prayer_count" json:"prayer_count"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *PrayerRequest) payload() map[string]interface{} {
	requester := p.Requester
	if p.Anonymous {
		requester = "anonymous"
	}
	return map[string]interface{}{
		"request_id": p.ID.Hex(),
		"requester":  requester,
		"subject":    p.Subject,
		"category":   p.Category,
		"urgent":     p.Urgent,
		"status":     string(p.Status),
	}
}
