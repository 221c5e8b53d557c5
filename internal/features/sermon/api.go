package sermon

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SermonApi struct {
	controller *SermonController
	config     *config.Config
}

func NewSermonApi(controller *SermonController, config *config.Config) api.Route {
	return &SermonApi{
		controller: controller,
		config:     config,
	}
}

func (h *SermonApi) Setup(app *fiber.App) {
	group := app.Group("/api/sermons", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListSermons)
	group.Get("/:id", h.controller.GetSermon)

	staff := group.Group("", middleware.RequireRole(
		common_models.RoleAdmin,
		common_models.RoleChurchAdmin,
		common_models.RoleStaff,
	))
	staff.Post("/", h.controller.CreateSermon)
	staff.Put("/:id", h.controller.UpdateSermon)
	staff.Post("/:id/publish", h.controller.PublishSermon)
	staff.Delete("/:id", h.controller.DeleteSermon)
}
