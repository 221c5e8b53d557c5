package audit

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit logs
// @Tags audit
// @Produce json
// @Param entity query string false "Filter by entity"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {array} models.AuditLog
// @Router /api/audit [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	filters := map[string]interface{}{}
	if oid, err := primitive.ObjectIDFromHex(claims.ChurchID); err == nil {
		filters["church_id"] = oid
	}
	if entity := c.Query("entity"); entity != "" {
		filters["entity"] = entity
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 50))

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filters, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(logs)
}
