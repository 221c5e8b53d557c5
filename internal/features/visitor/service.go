package visitor

import (
	"context"
	"errors"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

type VisitorService interface {
	CheckIn(ctx context.Context, churchID string, v *Visitor, service string) (*Visitor, error)
	GetVisitor(ctx context.Context, id string) (*Visitor, error)
	ListVisitors(ctx context.Context, churchID string) ([]Visitor, error)
	ListCheckIns(ctx context.Context, churchID string, since time.Time) ([]CheckIn, error)
}

type VisitorServiceImpl struct {
	Repo         VisitorRepository
	Automation   AutomationTrigger
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewVisitorService(repo VisitorRepository, automation AutomationTrigger, auditService audit.AuditService, logger *zap.Logger) VisitorService {
	return &VisitorServiceImpl{
		Repo:         repo,
		Automation:   automation,
		AuditService: auditService,
		Logger:       logger,
	}
}

// CheckIn records a visit, reusing the visitor record when the email or phone
// matches a previous visit to the same church
func (s *VisitorServiceImpl) CheckIn(ctx context.Context, churchID string, v *Visitor, service string) (*Visitor, error) {
	existing, err := s.Repo.FindByContact(ctx, churchID, v.Email, v.Phone)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if existing != nil {
		if err := s.Repo.IncrementVisits(ctx, existing.ID.Hex()); err != nil {
			return nil, err
		}
		existing.FirstTime = false
		existing.VisitCount++
		v = existing
	} else {
		if err := s.Repo.Create(ctx, v); err != nil {
			return nil, err
		}
	}

	ci := &CheckIn{
		ChurchID:  v.ChurchID,
		VisitorID: v.ID,
		Service:   service,
	}
	if err := s.Repo.CreateCheckIn(ctx, ci); err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCheckIn, "visitors", v.ID.Hex(), map[string]common_models.Change{
		"check_in": {New: ci},
	})

	if err := s.Automation.FireTrigger(ctx, churchID, "visitor_checked_in", v.ID.Hex(), v.payload(ci)); err != nil {
		s.Logger.Warn("visitor_checked_in trigger failed", zap.Error(err))
	}
	return v, nil
}

func (s *VisitorServiceImpl) GetVisitor(ctx context.Context, id string) (*Visitor, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *VisitorServiceImpl) ListVisitors(ctx context.Context, churchID string) ([]Visitor, error) {
	return s.Repo.List(ctx, churchID)
}

func (s *VisitorServiceImpl) ListCheckIns(ctx context.Context, churchID string, since time.Time) ([]CheckIn, error) {
	return s.Repo.ListCheckIns(ctx, churchID, since)
}
