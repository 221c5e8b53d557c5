package automation

import (
	"context"
	"fmt"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context, churchID string) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error
	EnableRule(ctx context.Context, id string, active bool) error

	// Core logic
	ProcessTrigger(ctx context.Context, event TriggerEvent) ExecutionResult
	// FireTrigger is the convenience entry point domain features call; it
	// builds a TriggerEvent and delegates to ProcessTrigger.
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error

	// Approval resolution
	ListPendingApprovals(ctx context.Context, churchID string) ([]PendingApproval, error)
	ApproveRule(ctx context.Context, approvalID, approverID string) (*ExecutionRecord, error)
	RejectRule(ctx context.Context, approvalID, approverID string) error

	ListExecutions(ctx context.Context, churchID string, limit int64) ([]ExecutionRecord, error)
}

type AutomationServiceImpl struct {
	Repo           AutomationRepository
	ExecutionRepo  ExecutionRepository
	ApprovalRepo   ApprovalRepository
	ActionExecutor ActionExecutor
	AuditService   audit.AuditService
	Logger         *zap.Logger
}

func NewAutomationService(
	repo AutomationRepository,
	executionRepo ExecutionRepository,
	approvalRepo ApprovalRepository,
	actionExecutor ActionExecutor,
	auditService audit.AuditService,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		Repo:           repo,
		ExecutionRepo:  executionRepo,
		ApprovalRepo:   approvalRepo,
		ActionExecutor: actionExecutor,
		AuditService:   auditService,
		Logger:         logger,
	}
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	err := s.Repo.Create(ctx, rule)
	if err == nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", rule.ID.Hex(), map[string]common_models.Change{
			"rule": {New: rule},
		})
	}
	return err
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context, churchID string) ([]AutomationRule, error) {
	return s.Repo.List(ctx, churchID)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	oldRule, _ := s.GetRule(ctx, rule.ID.Hex())

	err := s.Repo.Update(ctx, rule)
	if err == nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", rule.ID.Hex(), map[string]common_models.Change{
			"rule": {Old: oldRule, New: rule},
		})
	}
	return err
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	oldRule, _ := s.GetRule(ctx, id)

	err := s.Repo.Delete(ctx, id)
	if err == nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, "automation", id, map[string]common_models.Change{
			"rule": {Old: oldRule, New: "DELETED"},
		})
	}
	return err
}

func (s *AutomationServiceImpl) EnableRule(ctx context.Context, id string, active bool) error {
	return s.Repo.Enable(ctx, id, active)
}

// ProcessTrigger finds active rules for the event's church and trigger type,
// evaluates each rule's conditions against the payload and executes or defers
// the matched rules' actions. A failed action never aborts sibling actions or
// later rules; only a failed rule lookup fails the whole call.
func (s *AutomationServiceImpl) ProcessTrigger(ctx context.Context, event TriggerEvent) ExecutionResult {
	result := ExecutionResult{Success: true}

	rules, err := s.Repo.FindActive(ctx, event.ChurchID, event.Type)
	if err != nil {
		s.Logger.Error("automation rule lookup failed",
			zap.String("church_id", event.ChurchID),
			zap.String("trigger", string(event.Type)),
			zap.Error(err))
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("rule lookup failed: %v", err))
		return result
	}

	for _, rule := range rules {
		if !evaluateConditions(rule.Conditions, event.Payload) {
			continue
		}
		result.RulesTriggered++

		if !rule.BypassApproval {
			approval := &PendingApproval{
				ChurchID:    rule.ChurchID,
				RuleID:      rule.ID,
				RuleName:    rule.Name,
				TriggerType: event.Type,
				SubjectID:   event.SubjectID,
				Payload:     event.Payload,
			}
			if err := s.ApprovalRepo.Create(ctx, approval); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("rule %s: failed to queue approval: %v", rule.Name, err))
				continue
			}
			result.ApprovalIDs = append(result.ApprovalIDs, approval.ID.Hex())
			continue
		}

		record := s.executeRule(ctx, &rule, event)
		result.Errors = append(result.Errors, record.Errors...)
		if err := s.ExecutionRepo.Create(ctx, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("rule %s: failed to persist execution: %v", rule.Name, err))
			continue
		}
		result.ExecutionIDs = append(result.ExecutionIDs, record.ID.Hex())
	}

	return result
}

// executeRule runs every action of a rule in declared order, best effort
func (s *AutomationServiceImpl) executeRule(ctx context.Context, rule *AutomationRule, event TriggerEvent) *ExecutionRecord {
	record := &ExecutionRecord{
		ChurchID:    rule.ChurchID,
		RuleID:      rule.ID,
		TriggerType: event.Type,
		SubjectID:   event.SubjectID,
		Success:     true,
	}

	for _, action := range rule.Actions {
		status := ActionStatus{Type: action.Type, Success: true}
		if err := s.ActionExecutor.Execute(ctx, action, event); err != nil {
			s.Logger.Warn("automation action failed",
				zap.String("rule", rule.Name),
				zap.String("action", string(action.Type)),
				zap.Error(err))
			status.Success = false
			status.Error = err.Error()
			record.Success = false
			record.Errors = append(record.Errors, fmt.Sprintf("rule %s: %v", rule.Name, err))
		}
		record.Actions = append(record.Actions, status)
	}

	return record
}

func (s *AutomationServiceImpl) FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error {
	result := s.ProcessTrigger(ctx, TriggerEvent{
		Type:      TriggerType(triggerType),
		ChurchID:  churchID,
		SubjectID: subjectID,
		Payload:   payload,
	})
	if !result.Success {
		return fmt.Errorf("trigger %s failed: %v", triggerType, result.Errors)
	}
	return nil
}

func (s *AutomationServiceImpl) ListPendingApprovals(ctx context.Context, churchID string) ([]PendingApproval, error) {
	return s.ApprovalRepo.ListPending(ctx, churchID)
}

// ApproveRule executes the deferred actions of a pending approval against the
// originally captured payload, then marks it approved. Approving twice returns
// ErrApprovalResolved and runs nothing the second time.
func (s *AutomationServiceImpl) ApproveRule(ctx context.Context, approvalID, approverID string) (*ExecutionRecord, error) {
	approval, err := s.ApprovalRepo.Resolve(ctx, approvalID, ApprovalStatusApproved, approverID)
	if err != nil {
		return nil, err
	}

	rule, err := s.Repo.GetByID(ctx, approval.RuleID.Hex())
	if err != nil {
		return nil, fmt.Errorf("approved rule no longer exists: %w", err)
	}

	event := TriggerEvent{
		Type:      approval.TriggerType,
		ChurchID:  approval.ChurchID.Hex(),
		SubjectID: approval.SubjectID,
		Payload:   approval.Payload,
	}

	record := s.executeRule(ctx, rule, event)
	record.ApprovalID = approval.ID.Hex()
	if err := s.ExecutionRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionApproval, "automation", approval.ID.Hex(), map[string]common_models.Change{
		"status": {Old: ApprovalStatusPending, New: ApprovalStatusApproved},
	})

	return record, nil
}

func (s *AutomationServiceImpl) RejectRule(ctx context.Context, approvalID, approverID string) error {
	approval, err := s.ApprovalRepo.Resolve(ctx, approvalID, ApprovalStatusRejected, approverID)
	if err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionApproval, "automation", approval.ID.Hex(), map[string]common_models.Change{
		"status": {Old: ApprovalStatusPending, New: ApprovalStatusRejected},
	})
	return nil
}

func (s *AutomationServiceImpl) ListExecutions(ctx context.Context, churchID string, limit int64) ([]ExecutionRecord, error) {
	return s.ExecutionRepo.ListByChurch(ctx, churchID, limit)
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}
