package cron_feature

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	controller *CronController
	config     *config.Config
}

func NewCronApi(controller *CronController, config *config.Config) api.Route {
	return &CronApi{
		controller: controller,
		config:     config,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	group := app.Group("/api/cron",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleChurchAdmin))

	group.Post("/", h.controller.CreateJob)
	group.Get("/", h.controller.ListJobs)
	group.Get("/:id", h.controller.GetJob)
	group.Put("/:id", h.controller.UpdateJob)
	group.Delete("/:id", h.controller.DeleteJob)
	group.Post("/:id/run", h.controller.RunJob)
	group.Get("/:id/logs", h.controller.GetJobLogs)
}
