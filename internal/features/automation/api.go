package automation

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
	config     *config.Config
}

func NewAutomationApi(controller *AutomationController, config *config.Config) api.Route {
	return &AutomationApi{
		controller: controller,
		config:     config,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	group := app.Group("/api/automation",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleChurchAdmin, common_models.RoleStaff),
	)

	group.Get("/rules", h.controller.ListRules)
	group.Get("/rules/:id", h.controller.GetRule)
	group.Post("/rules", h.controller.CreateRule)
	group.Put("/rules/:id", h.controller.UpdateRule)
	group.Delete("/rules/:id", h.controller.DeleteRule)
	group.Patch("/rules/:id/enable", h.controller.EnableRule)

	group.Post("/trigger", h.controller.FireTrigger)
	group.Get("/executions", h.controller.ListExecutions)

	group.Get("/approvals", h.controller.ListApprovals)
	group.Post("/approvals/:id/approve", h.controller.ApproveRule)
	group.Post("/approvals/:id/reject", h.controller.RejectRule)
}
