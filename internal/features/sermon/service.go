package sermon

import (
	"context"
	"fmt"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"
	"go-chms/internal/features/realtime"

	"go.uber.org/zap"
)

type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

type SermonService interface {
	CreateSermon(ctx context.Context, s *Sermon) error
	GetSermon(ctx context.Context, id string) (*Sermon, error)
	ListSermons(ctx context.Context, churchID string, publishedOnly bool, series string) ([]Sermon, error)
	UpdateSermon(ctx context.Context, s *Sermon) error
	PublishSermon(ctx context.Context, churchID, id string) error
	DeleteSermon(ctx context.Context, id string) error
}

type SermonServiceImpl struct {
	Repo         SermonRepository
	Hub          *realtime.Hub
	Automation   AutomationTrigger
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewSermonService(repo SermonRepository, hub *realtime.Hub, automation AutomationTrigger, auditService audit.AuditService, logger *zap.Logger) SermonService {
	return &SermonServiceImpl{
		Repo:         repo,
		Hub:          hub,
		Automation:   automation,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *SermonServiceImpl) CreateSermon(ctx context.Context, sermon *Sermon) error {
	if err := s.Repo.Create(ctx, sermon); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "sermons", sermon.ID.Hex(), map[string]common_models.Change{
		"sermon": {New: sermon},
	})
	return nil
}

func (s *SermonServiceImpl) GetSermon(ctx context.Context, id string) (*Sermon, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *SermonServiceImpl) ListSermons(ctx context.Context, churchID string, publishedOnly bool, series string) ([]Sermon, error) {
	return s.Repo.List(ctx, churchID, publishedOnly, series)
}

func (s *SermonServiceImpl) UpdateSermon(ctx context.Context, sermon *Sermon) error {
	old, _ := s.Repo.GetByID(ctx, sermon.ID.Hex())

	if err := s.Repo.Update(ctx, sermon); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "sermons", sermon.ID.Hex(), map[string]common_models.Change{
		"sermon": {Old: old, New: sermon},
	})
	return nil
}

// PublishSermon makes the sermon visible, announces it to connected clients of
// the church and fires the publication trigger
func (s *SermonServiceImpl) PublishSermon(ctx context.Context, churchID, id string) error {
	sermon, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("sermon not found: %w", err)
	}
	if sermon.Published {
		return nil
	}

	if err := s.Repo.Publish(ctx, id); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "sermons", id, map[string]common_models.Change{
		"published": {Old: false, New: true},
	})

	delivered := s.Hub.BroadcastToChurch(churchID, realtime.Message{
		Type:    "sermon_published",
		Payload: sermon.payload(),
	})
	s.Logger.Info("sermon published",
		zap.String("sermon_id", id),
		zap.Int("clients_notified", delivered))

	if err := s.Automation.FireTrigger(ctx, churchID, "sermon_published", id, sermon.payload()); err != nil {
		s.Logger.Warn("sermon_published trigger failed", zap.Error(err))
	}
	return nil
}

func (s *SermonServiceImpl) DeleteSermon(ctx context.Context, id string) error {
	old, _ := s.Repo.GetByID(ctx, id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "sermons", id, map[string]common_models.Change{
		"sermon": {Old: old, New: "DELETED"},
	})
	return nil
}
