package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-chms/internal/common/models"
	"go-chms/internal/features/audit"
	"go-chms/internal/features/church"
	"go-chms/internal/features/user"
	"go-chms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email, churchName string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	ChurchRepo   church.ChurchRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, churchRepo church.ChurchRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		ChurchRepo:   churchRepo,
		AuditService: auditService,
	}
}

// Register provisions a church account with the registering user as its admin
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email, churchName string) (*models.User, error) {
	if existing, _ := s.UserRepo.FindByUsernameGlobal(ctx, username); existing != nil {
		return nil, errors.New("username already taken")
	}

	// hash password placeholder (TODO: use bcrypt)
	hashedPassword := password

	if churchName == "" {
		churchName = fmt.Sprintf("%s's Church", username)
	}

	// generate the user id up front so the church can reference its owner
	newUser := &models.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Password: hashedPassword,
		Email:    email,
		Role:     models.RoleChurchAdmin,
		Status:   "active",
	}

	newChurch := church.NewChurchRecord(churchName, newUser.ID)
	if err := s.ChurchRepo.Create(ctx, newChurch); err != nil {
		return nil, err
	}

	newUser.ChurchID = newChurch.ID
	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		// potential rollback of church creation needed here in real world
		return nil, err
	}

	s.AuditService.LogChange(ctx, models.AuditActionCreate, "users", newUser.ID.Hex(), map[string]models.Change{
		"username":  {New: username},
		"email":     {New: email},
		"church_id": {New: newChurch.ID.Hex()},
	})

	return newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	usr, err := s.UserRepo.FindByUsernameGlobal(ctx, username)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	// Check password (TODO: use bcrypt)
	if usr.Password != password {
		return "", errors.New("invalid credentials")
	}

	if usr.Status == "suspended" {
		return "", errors.New("account suspended")
	}
	if usr.Status == "inactive" {
		return "", errors.New("account inactive")
	}

	name := usr.FirstName
	if usr.LastName != "" {
		name = usr.FirstName + " " + usr.LastName
	}
	if name == "" {
		name = usr.Username
	}

	token, err := utils.GenerateToken(usr.ID, usr.ChurchID, usr.Role, name)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateLastLogin(ctx, usr.ID.Hex()); err == nil {
		now := time.Now()
		usr.LastLogin = &now
	}

	s.AuditService.LogChange(ctx, models.AuditActionLogin, "users", usr.ID.Hex(), nil)

	return token, nil
}
