package member

import (
	"context"
	"fmt"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"
	"go-chms/pkg/export"

	"go.uber.org/zap"
)

// AutomationTrigger decouples the member feature from the automation engine;
// the engine satisfies it and main wires the adapter.
type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

type MemberService interface {
	RegisterMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, id string) (*Member, error)
	ListMembers(ctx context.Context, churchID string, stage string) ([]Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	UpdateLifecycleStage(ctx context.Context, churchID, memberID, stage string) error
	DeleteMember(ctx context.Context, id string) error
	ExportMembers(ctx context.Context, churchID string) ([]byte, string, error)
}

type MemberServiceImpl struct {
	Repo         MemberRepository
	Automation   AutomationTrigger
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewMemberService(repo MemberRepository, automation AutomationTrigger, auditService audit.AuditService, logger *zap.Logger) MemberService {
	return &MemberServiceImpl{
		Repo:         repo,
		Automation:   automation,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *MemberServiceImpl) RegisterMember(ctx context.Context, m *Member) error {
	if m.Stage == "" {
		m.Stage = common_models.StageVisitor
	}

	if err := s.Repo.Create(ctx, m); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "members", m.ID.Hex(), map[string]common_models.Change{
		"member": {New: m},
	})

	// Automation is best effort; registration has already succeeded
	if err := s.Automation.FireTrigger(ctx, m.ChurchID.Hex(), "member_registered", m.ID.Hex(), m.payload()); err != nil {
		s.Logger.Warn("member_registered trigger failed", zap.Error(err))
	}
	return nil
}

func (s *MemberServiceImpl) GetMember(ctx context.Context, id string) (*Member, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *MemberServiceImpl) ListMembers(ctx context.Context, churchID string, stage string) ([]Member, error) {
	return s.Repo.List(ctx, churchID, stage)
}

func (s *MemberServiceImpl) UpdateMember(ctx context.Context, m *Member) error {
	old, _ := s.Repo.GetByID(ctx, m.ID.Hex())

	if err := s.Repo.Update(ctx, m); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "members", m.ID.Hex(), map[string]common_models.Change{
		"member": {Old: old, New: m},
	})
	return nil
}

// UpdateLifecycleStage moves a member to a new stage and fires the stage
// change trigger with both the old and new stage in the payload
func (s *MemberServiceImpl) UpdateLifecycleStage(ctx context.Context, churchID, memberID, stage string) error {
	m, err := s.Repo.GetByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("member not found: %w", err)
	}

	oldStage := string(m.Stage)
	if oldStage == stage {
		return nil
	}

	if err := s.Repo.UpdateStage(ctx, memberID, stage); err != nil {
		return err
	}

	if stage == string(common_models.StageMember) && m.JoinedAt == nil {
		now := time.Now()
		m.JoinedAt = &now
		m.Stage = common_models.LifecycleStage(stage)
		_ = s.Repo.Update(ctx, m)
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "members", memberID, map[string]common_models.Change{
		"stage": {Old: oldStage, New: stage},
	})

	payload := m.payload()
	payload["stage"] = stage
	payload["previous_stage"] = oldStage
	if err := s.Automation.FireTrigger(ctx, churchID, "member_stage_changed", memberID, payload); err != nil {
		s.Logger.Warn("member_stage_changed trigger failed", zap.Error(err))
	}
	return nil
}

func (s *MemberServiceImpl) DeleteMember(ctx context.Context, id string) error {
	old, _ := s.Repo.GetByID(ctx, id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "members", id, map[string]common_models.Change{
		"member": {Old: old, New: "DELETED"},
	})
	return nil
}

func (s *MemberServiceImpl) ExportMembers(ctx context.Context, churchID string) ([]byte, string, error) {
	members, err := s.Repo.List(ctx, churchID, "")
	if err != nil {
		return nil, "", err
	}

	rows := make([]map[string]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, map[string]any{
			"first_name": m.FirstName,
			"last_name":  m.LastName,
			"email":      m.Email,
			"phone":      m.Phone,
			"stage":      string(m.Stage),
			"joined_at":  m.JoinedAt,
		})
	}

	columns := []string{"first_name", "last_name", "email", "phone", "stage", "joined_at"}
	data, err := export.ToExcel(rows, columns, "Members")
	if err != nil {
		return nil, "", err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionExport, "members", churchID, nil)

	filename := fmt.Sprintf("members_%s.xlsx", time.Now().Format("20060102"))
	return data, filename, nil
}
