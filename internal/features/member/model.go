package member

import (
	"time"

	common_models "go-chms/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	ID        primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	ChurchID  primitive.ObjectID           `bson:"church_id" json:"church_id"`
	FirstName string                       `bson:"first_name" json:"first_name"`
	LastName  string                       `bson:"last_name" json:"last_name"`
	Email     string                       `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string                       `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string                       `bson:"address,omitempty" json:"address,omitempty"`
	Birthday  *time.Time                   `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Stage     common_models.LifecycleStage `bson:"stage" json:"stage"`
	Tags      []string                     `bson:"tags,omitempty" json:"tags,omitempty"`
	Notes     string                       `bson:"notes,omitempty" json:"notes,omitempty"`
	JoinedAt  *time.Time                   `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
	CreatedAt time.Time                    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time                    `bson:"updated_at" json:"updated_at"`
}

// payload is what rule conditions and action placeholders see for a member
func (m *Member) payload() map[string]interface{} {
	return map[string]interface{}{
		"member_id":  m.ID.Hex(),
		"first_name": m.FirstName,
		"last_name":  m.LastName,
		"email":      m.Email,
		"phone":      m.Phone,
		"stage":      string(m.Stage),
	}
}
