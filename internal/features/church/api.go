package church

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChurchApi struct {
	controller *ChurchController
	config     *config.Config
}

func NewChurchApi(controller *ChurchController, config *config.Config) api.Route {
	return &ChurchApi{
		controller: controller,
		config:     config,
	}
}

func (h *ChurchApi) Setup(app *fiber.App) {
	group := app.Group("/api/churches", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/me", h.controller.GetMyChurch)
	group.Put("/me", middleware.RequireRole(common_models.RoleAdmin, common_models.RoleChurchAdmin), h.controller.UpdateMyChurch)

	// platform administration
	admin := group.Group("", middleware.AdminMiddleware())
	admin.Get("/", h.controller.ListChurches)
	admin.Post("/:id/deactivate", h.controller.DeactivateChurch)
}
