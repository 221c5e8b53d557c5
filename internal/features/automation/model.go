package automation

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TriggerType is the category of domain event a rule subscribes to
type TriggerType string

const (
	TriggerMemberRegistered TriggerType = "member_registered"
	TriggerStageChanged     TriggerType = "member_stage_changed"
	TriggerVisitorCheckedIn TriggerType = "visitor_checked_in"
	TriggerPrayerSubmitted  TriggerType = "prayer_request_submitted"
	TriggerDonationReceived TriggerType = "donation_received"
	TriggerSermonPublished  TriggerType = "sermon_published"
	TriggerScheduled        TriggerType = "scheduled"
)

type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorGreaterThan ConditionOperator = "gt"
	OperatorLessThan    ConditionOperator = "lt"
	OperatorIsSet       ConditionOperator = "is_set"
	OperatorIsEmpty     ConditionOperator = "is_empty"
)

type ActionType string

const (
	ActionSendEmail        ActionType = "send_email"
	ActionSendNotification ActionType = "send_notification"
	ActionUpdateStage      ActionType = "update_lifecycle_stage"
	ActionCreateFollowUp   ActionType = "create_followup_task"
	ActionWebhook          ActionType = "webhook"
	ActionRunScript        ActionType = "run_script"
	ActionSendSMS          ActionType = "send_sms"
)

// RuleCondition compares one payload field against a value.
// Field supports dotted paths into nested payload maps ("member.email").
type RuleCondition struct {
	Field    string            `json:"field" bson:"field"`
	Operator ConditionOperator `json:"operator" bson:"operator"`
	Value    interface{}       `json:"value" bson:"value"`
}

type RuleAction struct {
	Type   ActionType             `json:"type" bson:"type"`
	Config map[string]interface{} `json:"config" bson:"config"`
}

// AutomationRule belongs to one church and fires on one trigger type.
// Conditions are ANDed; an empty list matches every event.
// When BypassApproval is false matched actions wait in a PendingApproval
// until a staff member resolves it.
type AutomationRule struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChurchID       primitive.ObjectID `json:"church_id" bson:"church_id"`
	Name           string             `json:"name" bson:"name"`
	TriggerType    TriggerType        `json:"trigger_type" bson:"trigger_type"`
	Active         bool               `json:"active" bson:"active"`
	BypassApproval bool               `json:"bypass_approval" bson:"bypass_approval"`
	Conditions     []RuleCondition    `json:"conditions" bson:"conditions"`
	Actions        []RuleAction       `json:"actions" bson:"actions"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// TriggerEvent is the ephemeral input to ProcessTrigger. It is not persisted
// by the engine; callers construct one per domain event.
type TriggerEvent struct {
	Type      TriggerType            `json:"type"`
	ChurchID  string                 `json:"church_id"`
	SubjectID string                 `json:"subject_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
}

// ActionStatus records the outcome of one action within an execution
type ActionStatus struct {
	Type    ActionType `json:"type" bson:"type"`
	Success bool       `json:"success" bson:"success"`
	Error   string     `json:"error,omitempty" bson:"error,omitempty"`
}

// ExecutionRecord is the immutable record that rule R fired for one event
type ExecutionRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChurchID    primitive.ObjectID `json:"church_id" bson:"church_id"`
	RuleID      primitive.ObjectID `json:"rule_id" bson:"rule_id"`
	TriggerType TriggerType        `json:"trigger_type" bson:"trigger_type"`
	SubjectID   string             `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	ApprovalID  string             `json:"approval_id,omitempty" bson:"approval_id,omitempty"`
	Actions     []ActionStatus     `json:"actions" bson:"actions"`
	Success     bool               `json:"success" bson:"success"`
	Errors      []string           `json:"errors,omitempty" bson:"errors,omitempty"`
	ExecutedAt  time.Time          `json:"executed_at" bson:"executed_at"`
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// PendingApproval captures a matched rule whose actions are deferred.
// Status moves pending -> approved|rejected exactly once.
type PendingApproval struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ChurchID    primitive.ObjectID     `json:"church_id" bson:"church_id"`
	RuleID      primitive.ObjectID     `json:"rule_id" bson:"rule_id"`
	RuleName    string                 `json:"rule_name" bson:"rule_name"`
	TriggerType TriggerType            `json:"trigger_type" bson:"trigger_type"`
	SubjectID   string                 `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Payload     map[string]interface{} `json:"payload" bson:"payload"`
	Status      ApprovalStatus         `json:"status" bson:"status"`
	ResolvedBy  string                 `json:"resolved_by,omitempty" bson:"resolved_by,omitempty"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}

// ExecutionResult is returned from one ProcessTrigger call. Success is false
// only when the rule lookup itself failed; individual action failures land in
// Errors without failing the call.
type ExecutionResult struct {
	Success        bool     `json:"success"`
	RulesTriggered int      `json:"rules_triggered"`
	ExecutionIDs   []string `json:"execution_ids,omitempty"`
	ApprovalIDs    []string `json:"approval_ids,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// FollowUpTask is created by the create_followup_task action
type FollowUpTask struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChurchID   primitive.ObjectID `json:"church_id" bson:"church_id"`
	Subject    string             `json:"subject" bson:"subject"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedTo string             `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	PersonID   string             `json:"person_id,omitempty" bson:"person_id,omitempty"`
	Status     string             `json:"status" bson:"status"` // pending, done
	DueAt      *time.Time         `json:"due_at,omitempty" bson:"due_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

var (
	ErrApprovalNotFound = errors.New("approval not found")
	ErrApprovalResolved = errors.New("approval already resolved")
	ErrRuleNotFound     = errors.New("automation rule not found")
)
