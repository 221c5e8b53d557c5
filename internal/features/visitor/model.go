package visitor

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Visitor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID   primitive.ObjectID `bson:"church_id" json:"church_id"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	LastName   string             `bson:"last_name" json:"last_name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Source     string             `bson:"source,omitempty" json:"source,omitempty"`
	FirstTime  bool               `bson:"first_time" json:"first_time"`
	VisitCount int                `bson:"visit_count" json:"visit_count"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type CheckIn struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID  primitive.ObjectID `bson:"church_id" json:"church_id"`
	VisitorID primitive.ObjectID `bson:"visitor_id" json:"visitor_id"`
	Service   string             `bson:"service,omitempty" json:"service,omitempty"`
	CheckedAt time.Time          `bson:"checked_at" json:"checked_at"`
}

func (v *Visitor) payload(checkIn *CheckIn) map[string]interface{} {
	p := map[string]interface{}{
		"visitor_id":  v.ID.Hex(),
		"first_name":  v.FirstName,
		"last_name":   v.LastName,
		"email":       v.Email,
		"phone":       v.Phone,
		"source":      v.Source,
		"first_time":  v.FirstTime,
		"visit_count": v.VisitCount,
	}
	if checkIn != nil {
		p["service"] = checkIn.Service
	}
	return p
}
