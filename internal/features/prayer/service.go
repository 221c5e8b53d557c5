package prayer

import (
	"context"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"

	"go.uber.org/zap"
)

type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

type PrayerService interface {
	SubmitRequest(ctx context.Context, p *PrayerRequest) error
	GetRequest(ctx context.Context, id string) (*PrayerRequest, error)
	ListRequests(ctx context.Context, churchID string, status string) ([]PrayerRequest, error)
	UpdateStatus(ctx context.Context, id string, status PrayerStatus) error
	AssignRequest(ctx context.Context, id string, userID string) error
	RecordPrayer(ctx context.Context, id string) error
}

type PrayerServiceImpl struct {
	Repo         PrayerRepository
	Automation   AutomationTrigger
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewPrayerService(repo PrayerRepository, automation AutomationTrigger, auditService audit.AuditService, logger *zap.Logger) PrayerService {
	return &PrayerServiceImpl{
		Repo:         repo,
		Automation:   automation,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *PrayerServiceImpl) SubmitRequest(ctx context.Context, p *PrayerRequest) error {
	if err := s.Repo.Create(ctx, p); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "prayer_requests", p.ID.Hex(), map[string]common_models.Change{
		"request": {New: p},
	})

	if err := s.Automation.FireTrigger(ctx, p.ChurchID.Hex(), "prayer_request_submitted", p.ID.Hex(), p.payload()); err != nil {
		s.Logger.Warn("prayer_request_submitted trigger failed", zap.Error(err))
	}
	return nil
}

func (s *PrayerServiceImpl) GetRequest(ctx context.Context, id string) (*PrayerRequest, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *PrayerServiceImpl) ListRequests(ctx context.Context, churchID string, status string) ([]PrayerRequest, error) {
	return s.Repo.List(ctx, churchID, status)
}

func (s *PrayerServiceImpl) UpdateStatus(ctx context.Context, id string, status PrayerStatus) error {
	old, _ := s.Repo.GetByID(ctx, id)

	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	var oldStatus interface{}
	if old != nil {
		oldStatus = string(old.Status)
	}
	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "prayer_requests", id, map[string]common_models.Change{
		"status": {Old: oldStatus, New: string(status)},
	})
	return nil
}

func (s *PrayerServiceImpl) AssignRequest(ctx context.Context, id string, userID string) error {
	if err := s.Repo.Assign(ctx, id, userID); err != nil {
		return err
	}
	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "prayer_requests", id, map[string]common_models.Change{
		"assigned_to": {New: userID},
	})
	return nil
}

func (s *PrayerServiceImpl) RecordPrayer(ctx context.Context, id string) error {
	return s.Repo.IncrementPrayers(ctx, id)
}
