package notification

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

// ListNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Unread only"
// @Param limit query int false "Max records"
// @Success 200 {array} Notification
// @Router /api/notifications [get]
func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	unreadOnly := c.QueryBool("unread", false)
	limit := int64(c.QueryInt("limit", 50))

	notifications, err := ctrl.Service.ListByUser(c.UserContext(), claims.UserID, unreadOnly, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

// CountUnread godoc
// @Summary Count the caller's unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/unread-count [get]
func (ctrl *NotificationController) CountUnread(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	count, err := ctrl.Service.CountUnread(c.UserContext(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 {object} nil
// @Router /api/notifications/{id}/read [post]
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	if err := ctrl.Service.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all of the caller's notifications read
// @Tags notifications
// @Success 204 {object} nil
// @Router /api/notifications/read-all [post]
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := ctrl.Service.MarkAllRead(c.UserContext(), claims.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
