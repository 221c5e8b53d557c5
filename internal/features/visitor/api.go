package visitor

import (
	"go-chms/internal/common/api"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type VisitorApi struct {
	controller *VisitorController
	config     *config.Config
}

func NewVisitorApi(controller *VisitorController, config *config.Config) api.Route {
	return &VisitorApi{
		controller: controller,
		config:     config,
	}
}

func (h *VisitorApi) Setup(app *fiber.App) {
	group := app.Group("/api/visitors", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/check-in", h.controller.CheckIn)
	group.Get("/check-ins", h.controller.ListCheckIns)
	group.Get("/", h.controller.ListVisitors)
	group.Get("/:id", h.controller.GetVisitor)
}
