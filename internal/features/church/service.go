package church

import (
	"context"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"
	"go-chms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChurchService interface {
	GetChurch(ctx context.Context, id string) (*Church, error)
	ListChurches(ctx context.Context) ([]Church, error)
	UpdateChurch(ctx context.Context, church *Church) error
	Deactivate(ctx context.Context, id string) error
}

type ChurchServiceImpl struct {
	Repo         ChurchRepository
	AuditService audit.AuditService
}

func NewChurchService(repo ChurchRepository, auditService audit.AuditService) ChurchService {
	return &ChurchServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

// NewChurchRecord builds a church document ready for insertion. Slug
// collisions are avoided with a short id suffix.
func NewChurchRecord(name string, ownerID primitive.ObjectID) *Church {
	return &Church{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      utils.Slugify(name) + "-" + primitive.NewObjectID().Hex()[:4],
		Plan:      "free",
		OwnerID:   ownerID,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s *ChurchServiceImpl) GetChurch(ctx context.Context, id string) (*Church, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ChurchServiceImpl) ListChurches(ctx context.Context) ([]Church, error) {
	return s.Repo.ListAll(ctx)
}

func (s *ChurchServiceImpl) UpdateChurch(ctx context.Context, church *Church) error {
	old, _ := s.Repo.FindByID(ctx, church.ID.Hex())

	church.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, church); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "churches", church.ID.Hex(), map[string]common_models.Change{
		"church": {Old: old, New: church},
	})
	return nil
}

func (s *ChurchServiceImpl) Deactivate(ctx context.Context, id string) error {
	church, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	church.Active = false
	return s.UpdateChurch(ctx, church)
}
