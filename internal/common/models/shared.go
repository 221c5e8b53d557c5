package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	ChurchIDKey ContextKey = "church_id"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionLogin      AuditAction = "LOGIN"
	AuditActionAutomation AuditAction = "AUTOMATION"
	AuditActionApproval   AuditAction = "APPROVAL"
	AuditActionCheckIn    AuditAction = "CHECKIN"
	AuditActionCron       AuditAction = "CRON"
	AuditActionExport     AuditAction = "EXPORT"
	AuditActionSync       AuditAction = "SYNC"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID  primitive.ObjectID `bson:"church_id,omitempty" json:"church_id,omitempty"`
	Action    AuditAction        `bson:"action" json:"action"`
	Entity    string             `bson:"entity" json:"entity"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Roles within a church account
const (
	RoleAdmin        = "admin"        // platform administrator
	RoleChurchAdmin  = "church_admin" // manages one church account
	RoleStaff        = "staff"        // pastors and office staff
	RoleVolunteer    = "volunteer"    // check-in desk, prayer team
	RoleChurchMember = "member"       // regular member login
)

// LifecycleStage is the stage a person moves through in a congregation
type LifecycleStage string

const (
	StageVisitor LifecycleStage = "visitor"
	StageRegular LifecycleStage = "regular"
	StageMember  LifecycleStage = "member"
	StageLeader  LifecycleStage = "leader"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID  primitive.ObjectID `bson:"church_id,omitempty" json:"church_id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"` // active, inactive, suspended
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address" json:"ip_address"`
	ChurchId     string    `bson:"church_id" json:"church_id"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Caller       string    `bson:"caller" json:"caller"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
