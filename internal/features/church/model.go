package church

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Church struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Timezone  string             `bson:"timezone,omitempty" json:"timezone,omitempty"`
	Plan      string             `bson:"plan" json:"plan"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
