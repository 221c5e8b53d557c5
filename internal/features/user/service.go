package user

import (
	"context"
	"errors"

	"go-chms/internal/common/models"
	"go-chms/internal/features/audit"
)

type UserService interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, churchID string) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, u *models.User) error {
	if existing, _ := s.Repo.FindByUsernameGlobal(ctx, u.Username); existing != nil {
		return errors.New("username already taken")
	}
	if u.Role == "" {
		u.Role = models.RoleChurchMember
	}
	if u.Status == "" {
		u.Status = "active"
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, models.AuditActionCreate, "users", u.ID.Hex(), map[string]models.Change{
		"username": {New: u.Username},
		"role":     {New: u.Role},
	})
	return nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, churchID string) ([]models.User, error) {
	return s.Repo.List(ctx, churchID)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, u *models.User) error {
	old, _ := s.Repo.FindByID(ctx, u.ID.Hex())

	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, models.AuditActionUpdate, "users", u.ID.Hex(), map[string]models.Change{
		"user": {Old: old, New: u},
	})
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	old, _ := s.Repo.FindByID(ctx, id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, models.AuditActionDelete, "users", id, map[string]models.Change{
		"user": {Old: old, New: "DELETED"},
	})
	return nil
}
