package notification

import (
	"context"

	"go-chms/internal/features/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	// Notify persists a notification and pushes it to the user's live
	// connections, if any
	Notify(ctx context.Context, churchID, userID, title, message string) error
	NotifyTyped(ctx context.Context, churchID, userID, title, message string, ntype NotificationType, link string) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *realtime.Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *realtime.Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, churchID, userID, title, message string) error {
	return s.NotifyTyped(ctx, churchID, userID, title, message, NotificationTypeInfo, "")
}

func (s *NotificationServiceImpl) NotifyTyped(ctx context.Context, churchID, userID, title, message string, ntype NotificationType, link string) error {
	n := &Notification{
		Title:   title,
		Message: message,
		Type:    ntype,
		Link:    link,
	}
	if oid, err := primitive.ObjectIDFromHex(churchID); err == nil {
		n.ChurchID = oid
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	n.UserID = userOID

	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	// Live delivery is best effort; offline users read it later
	delivered := s.Hub.BroadcastToUser(userID, realtime.Message{
		Type:    "notification",
		Payload: n,
	})
	s.Logger.Debug("notification pushed",
		zap.String("user_id", userID),
		zap.Int("delivered", delivered))

	return nil
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]Notification, error) {
	return s.Repo.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationServiceImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string) error {
	return s.Repo.MarkRead(ctx, id)
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}
