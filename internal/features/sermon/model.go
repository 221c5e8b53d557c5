package sermon

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Sermon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID    primitive.ObjectID `bson:"church_id" json:"church_id"`
	Title       string             `bson:"title" json:"title"`
	Speaker     string             `bson:"speaker,omitempty" json:"speaker,omitempty"`
	Series      string             `bson:"series,omitempty" json:"series,omitempty"`
	Passage     string             `bson:"passage,omitempty" json:"passage,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MediaURL    string             `bson:"media_url,omitempty" json:"media_url,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	PreachedAt  *time.Time         `bson:"preached_at,omitempty" json:"preached_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (s *Sermon) payload() map[string]interface{} {
	return map[string]interface{}{
		"sermon_id": s.ID.Hex(),
		"title":     s.Title,
		"speaker":   s.Speaker,
		"series":    s.Series,
		"media_url": s.MediaURL,
	}
}
