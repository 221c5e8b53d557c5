package automation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	common_models "go-chms/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRuleRepo struct {
	rules   []AutomationRule
	findErr error
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	for i := range f.rules {
		if f.rules[i].ID.Hex() == id {
			return &f.rules[i], nil
		}
	}
	return nil, ErrRuleNotFound
}

func (f *fakeRuleRepo) FindActive(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []AutomationRule
	for _, r := range f.rules {
		if r.Active && r.ChurchID.Hex() == churchID && r.TriggerType == triggerType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) List(ctx context.Context, churchID string) ([]AutomationRule, error) {
	return f.rules, nil
}
func (f *fakeRuleRepo) Update(ctx context.Context, rule *AutomationRule) error { return nil }
func (f *fakeRuleRepo) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeRuleRepo) Enable(ctx context.Context, id string, active bool) error {
	return nil
}

type fakeExecutionRepo struct {
	records []ExecutionRecord
}

func (f *fakeExecutionRepo) Create(ctx context.Context, record *ExecutionRecord) error {
	record.ID = primitive.NewObjectID()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeExecutionRepo) ListByChurch(ctx context.Context, churchID string, limit int64) ([]ExecutionRecord, error) {
	return f.records, nil
}

type fakeApprovalRepo struct {
	approvals map[string]*PendingApproval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{approvals: make(map[string]*PendingApproval)}
}

func (f *fakeApprovalRepo) Create(ctx context.Context, approval *PendingApproval) error {
	approval.ID = primitive.NewObjectID()
	approval.Status = ApprovalStatusPending
	f.approvals[approval.ID.Hex()] = approval
	return nil
}

func (f *fakeApprovalRepo) GetByID(ctx context.Context, id string) (*PendingApproval, error) {
	a, ok := f.approvals[id]
	if !ok {
		return nil, ErrApprovalNotFound
	}
	return a, nil
}

func (f *fakeApprovalRepo) ListPending(ctx context.Context, churchID string) ([]PendingApproval, error) {
	var out []PendingApproval
	for _, a := range f.approvals {
		if a.Status == ApprovalStatusPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) Resolve(ctx context.Context, id string, status ApprovalStatus, resolverID string) (*PendingApproval, error) {
	a, ok := f.approvals[id]
	if !ok {
		return nil, ErrApprovalNotFound
	}
	if a.Status != ApprovalStatusPending {
		return nil, ErrApprovalResolved
	}
	a.Status = status
	a.ResolvedBy = resolverID
	return a, nil
}

type fakeExecutor struct {
	calls   []ActionType
	failing map[ActionType]error
}

func (f *fakeExecutor) Execute(ctx context.Context, action RuleAction, event TriggerEvent) error {
	f.calls = append(f.calls, action.Type)
	if err, ok := f.failing[action.Type]; ok {
		return err
	}
	return nil
}

func (f *fakeExecutor) Register(actionType ActionType, handler ActionHandler) {}

type fakeAudit struct{}

func (f *fakeAudit) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (f *fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestService(ruleRepo *fakeRuleRepo, execRepo *fakeExecutionRepo, approvalRepo *fakeApprovalRepo, executor *fakeExecutor) AutomationService {
	return NewAutomationService(ruleRepo, execRepo, approvalRepo, executor, &fakeAudit{}, zap.NewNop())
}

func makeRule(churchID primitive.ObjectID, trigger TriggerType, bypass bool, conditions []RuleCondition, actions ...ActionType) AutomationRule {
	ruleActions := make([]RuleAction, len(actions))
	for i, a := range actions {
		ruleActions[i] = RuleAction{Type: a, Config: map[string]interface{}{}}
	}
	return AutomationRule{
		ID:             primitive.NewObjectID(),
		ChurchID:       churchID,
		Name:           fmt.Sprintf("rule-%s", trigger),
		TriggerType:    trigger,
		Active:         true,
		BypassApproval: bypass,
		Conditions:     conditions,
		Actions:        ruleActions,
	}
}

func TestProcessTriggerBypassExecutesImmediately(t *testing.T) {
	churchID := primitive.NewObjectID()
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchID, TriggerMemberRegistered, true, nil, ActionSendEmail, ActionSendNotification),
	}}
	execRepo := &fakeExecutionRepo{}
	approvalRepo := newFakeApprovalRepo()
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, execRepo, approvalRepo, executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerMemberRegistered,
		ChurchID: churchID.Hex(),
		Payload:  map[string]interface{}{"email": "a@b.c"},
	})

	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	if result.RulesTriggered != 1 {
		t.Errorf("RulesTriggered = %d, want 1", result.RulesTriggered)
	}
	if len(result.ExecutionIDs) != 1 {
		t.Errorf("ExecutionIDs = %v, want one id", result.ExecutionIDs)
	}
	if len(result.ApprovalIDs) != 0 {
		t.Errorf("no approvals expected for bypass rule, got %v", result.ApprovalIDs)
	}
	if len(executor.calls) != 2 {
		t.Errorf("executor calls = %v, want both actions", executor.calls)
	}
	if len(execRepo.records) != 1 || !execRepo.records[0].Success {
		t.Errorf("expected one successful execution record, got %+v", execRepo.records)
	}
}

func TestProcessTriggerConditionFiltering(t *testing.T) {
	churchID := primitive.NewObjectID()
	conds := []RuleCondition{{Field: "stage", Operator: OperatorEquals, Value: "leader"}}
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchID, TriggerStageChanged, true, conds, ActionSendEmail),
	}}
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, &fakeExecutionRepo{}, newFakeApprovalRepo(), executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerStageChanged,
		ChurchID: churchID.Hex(),
		Payload:  map[string]interface{}{"stage": "regular"},
	})

	if result.RulesTriggered != 0 {
		t.Errorf("RulesTriggered = %d, want 0 for non-matching conditions", result.RulesTriggered)
	}
	if len(executor.calls) != 0 {
		t.Errorf("executor should not run, got calls %v", executor.calls)
	}
}

func TestProcessTriggerScopedToChurchAndTrigger(t *testing.T) {
	churchA := primitive.NewObjectID()
	churchB := primitive.NewObjectID()
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchA, TriggerDonationReceived, true, nil, ActionSendEmail),
		makeRule(churchB, TriggerDonationReceived, true, nil, ActionSendEmail),
		makeRule(churchA, TriggerSermonPublished, true, nil, ActionSendEmail),
	}}
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, &fakeExecutionRepo{}, newFakeApprovalRepo(), executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerDonationReceived,
		ChurchID: churchA.Hex(),
	})

	if result.RulesTriggered != 1 {
		t.Errorf("RulesTriggered = %d, want only church A's donation rule", result.RulesTriggered)
	}
}

func TestProcessTriggerQueuesApproval(t *testing.T) {
	churchID := primitive.NewObjectID()
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchID, TriggerVisitorCheckedIn, false, nil, ActionSendEmail),
	}}
	execRepo := &fakeExecutionRepo{}
	approvalRepo := newFakeApprovalRepo()
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, execRepo, approvalRepo, executor)

	payload := map[string]interface{}{"first_name": "Ana"}
	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:      TriggerVisitorCheckedIn,
		ChurchID:  churchID.Hex(),
		SubjectID: "v1",
		Payload:   payload,
	})

	if len(result.ApprovalIDs) != 1 {
		t.Fatalf("ApprovalIDs = %v, want one", result.ApprovalIDs)
	}
	if len(executor.calls) != 0 {
		t.Errorf("deferred rule must not execute, got calls %v", executor.calls)
	}
	if len(execRepo.records) != 0 {
		t.Errorf("no execution record expected before approval, got %+v", execRepo.records)
	}

	approval := approvalRepo.approvals[result.ApprovalIDs[0]]
	if approval == nil || approval.Status != ApprovalStatusPending {
		t.Fatalf("expected pending approval, got %+v", approval)
	}
	if approval.Payload["first_name"] != "Ana" {
		t.Errorf("approval must capture the trigger payload, got %v", approval.Payload)
	}
}

func TestProcessTriggerRuleLookupFailure(t *testing.T) {
	ruleRepo := &fakeRuleRepo{findErr: errors.New("db down")}
	svc := newTestService(ruleRepo, &fakeExecutionRepo{}, newFakeApprovalRepo(), &fakeExecutor{})

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerMemberRegistered,
		ChurchID: primitive.NewObjectID().Hex(),
	})

	if result.Success {
		t.Error("expected Success=false when rule lookup fails")
	}
	if len(result.Errors) == 0 {
		t.Error("expected lookup error to be reported")
	}
}

func TestProcessTriggerActionFailureDoesNotAbort(t *testing.T) {
	churchID := primitive.NewObjectID()
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchID, TriggerPrayerSubmitted, true, nil, ActionSendEmail, ActionSendNotification),
	}}
	execRepo := &fakeExecutionRepo{}
	executor := &fakeExecutor{failing: map[ActionType]error{
		ActionSendEmail: errors.New("smtp unreachable"),
	}}
	svc := newTestService(ruleRepo, execRepo, newFakeApprovalRepo(), executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerPrayerSubmitted,
		ChurchID: churchID.Hex(),
	})

	if !result.Success {
		t.Error("an action failure must not fail the whole trigger")
	}
	if len(result.Errors) == 0 {
		t.Error("action failure should be reported in Errors")
	}
	if len(executor.calls) != 2 {
		t.Errorf("second action must still run, got calls %v", executor.calls)
	}
	if len(execRepo.records) != 1 {
		t.Fatalf("execution record must be persisted, got %d", len(execRepo.records))
	}
	record := execRepo.records[0]
	if record.Success {
		t.Error("record.Success should be false when an action failed")
	}
	if len(record.Actions) != 2 || record.Actions[0].Success || !record.Actions[1].Success {
		t.Errorf("per-action statuses wrong: %+v", record.Actions)
	}
}

func TestApproveRuleExecutesExactlyOnce(t *testing.T) {
	churchID := primitive.NewObjectID()
	rule := makeRule(churchID, TriggerDonationReceived, false, nil, ActionSendEmail)
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{rule}}
	execRepo := &fakeExecutionRepo{}
	approvalRepo := newFakeApprovalRepo()
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, execRepo, approvalRepo, executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerDonationReceived,
		ChurchID: churchID.Hex(),
		Payload:  map[string]interface{}{"amount": 100.0},
	})
	if len(result.ApprovalIDs) != 1 {
		t.Fatalf("expected one approval, got %v", result.ApprovalIDs)
	}
	approvalID := result.ApprovalIDs[0]

	record, err := svc.ApproveRule(context.Background(), approvalID, "approver-1")
	if err != nil {
		t.Fatalf("ApproveRule: %v", err)
	}
	if record.ApprovalID != approvalID {
		t.Errorf("record.ApprovalID = %q, want %q", record.ApprovalID, approvalID)
	}
	if len(executor.calls) != 1 {
		t.Fatalf("executor calls = %v, want one", executor.calls)
	}

	// second approval must be rejected and must not run anything
	if _, err := svc.ApproveRule(context.Background(), approvalID, "approver-2"); !errors.Is(err, ErrApprovalResolved) {
		t.Errorf("second approve err = %v, want ErrApprovalResolved", err)
	}
	if len(executor.calls) != 1 {
		t.Errorf("actions ran again on duplicate approval: %v", executor.calls)
	}
}

func TestRejectRuleRunsNothing(t *testing.T) {
	churchID := primitive.NewObjectID()
	ruleRepo := &fakeRuleRepo{rules: []AutomationRule{
		makeRule(churchID, TriggerSermonPublished, false, nil, ActionWebhook),
	}}
	approvalRepo := newFakeApprovalRepo()
	executor := &fakeExecutor{}
	svc := newTestService(ruleRepo, &fakeExecutionRepo{}, approvalRepo, executor)

	result := svc.ProcessTrigger(context.Background(), TriggerEvent{
		Type:     TriggerSermonPublished,
		ChurchID: churchID.Hex(),
	})
	approvalID := result.ApprovalIDs[0]

	if err := svc.RejectRule(context.Background(), approvalID, "approver-1"); err != nil {
		t.Fatalf("RejectRule: %v", err)
	}
	if len(executor.calls) != 0 {
		t.Errorf("rejected approval must not execute actions, got %v", executor.calls)
	}

	// approving after rejection is a conflict
	if _, err := svc.ApproveRule(context.Background(), approvalID, "approver-1"); !errors.Is(err, ErrApprovalResolved) {
		t.Errorf("approve after reject err = %v, want ErrApprovalResolved", err)
	}
}

func TestApproveUnknownApproval(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{}, &fakeExecutionRepo{}, newFakeApprovalRepo(), &fakeExecutor{})

	_, err := svc.ApproveRule(context.Background(), primitive.NewObjectID().Hex(), "approver-1")
	if !errors.Is(err, ErrApprovalNotFound) {
		t.Errorf("err = %v, want ErrApprovalNotFound", err)
	}
}

func TestFireTriggerWrapsLookupFailure(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{findErr: errors.New("boom")}, &fakeExecutionRepo{}, newFakeApprovalRepo(), &fakeExecutor{})

	err := svc.FireTrigger(context.Background(), primitive.NewObjectID().Hex(), "member_registered", "m1", nil)
	if err == nil {
		t.Error("expected error when rule lookup fails")
	}
}
