package cron_feature

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobType string

const (
	// JobFireTrigger fires the automation engine's scheduled trigger for a church
	JobFireTrigger JobType = "fire_trigger"
	// JobDonationSync pushes unsynced donations to the accounting ledger
	JobDonationSync JobType = "donation_sync"
)

// ScheduledJob is a recurring job owned by a church (or the platform, when
// ChurchID is zero)
type ScheduledJob struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ChurchID    primitive.ObjectID     `json:"church_id,omitempty" bson:"church_id,omitempty"`
	Name        string                 `json:"name" bson:"name"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty"`
	Schedule    string                 `json:"schedule" bson:"schedule"`
	Type        JobType                `json:"type" bson:"type"`
	Payload     map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	Active      bool                   `json:"active" bson:"active"`
	LastRun     *time.Time             `json:"last_run,omitempty" bson:"last_run,omitempty"`
	NextRun     *time.Time             `json:"next_run,omitempty" bson:"next_run,omitempty"`
	CreatedBy   primitive.ObjectID     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" bson:"updated_at"`
}

// JobRunLog records a single execution of a scheduled job
type JobRunLog struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	JobID     primitive.ObjectID `json:"job_id" bson:"job_id"`
	JobName   string             `json:"job_name" bson:"job_name"`
	StartTime time.Time          `json:"start_time" bson:"start_time"`
	EndTime   *time.Time         `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status    string             `json:"status" bson:"status"` // "success", "failed", "running"
	Affected  int                `json:"affected" bson:"affected"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
