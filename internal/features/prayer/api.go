package prayer

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PrayerApi struct {
	controller *PrayerController
	config     *config.Config
}

func NewPrayerApi(controller *PrayerController, config *config.Config) api.Route {
	return &PrayerApi{
		controller: controller,
		config:     config,
	}
}

func (h *PrayerApi) Setup(app *fiber.App) {
	group := app.Group("/api/prayer", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.SubmitRequest)
	group.Get("/", h.controller.ListRequests)
	group.Get("/:id", h.controller.GetRequest)
	group.Post("/:id/pray", h.controller.RecordPrayer)

	staff := group.Group("", middleware.RequireRole(
		common_models.RoleAdmin,
		common_models.RoleChurchAdmin,
		common_models.RoleStaff,
	))
	staff.Post("/:id/status", h.controller.UpdateStatus)
	staff.Post("/:id/assign", h.controller.Assign)
}
