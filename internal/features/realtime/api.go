package realtime

import (
	"go-chms/internal/common/api"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeApi struct {
	controller *RealtimeController
	config     *config.Config
}

func NewRealtimeApi(controller *RealtimeController, config *config.Config) api.Route {
	return &RealtimeApi{
		controller: controller,
		config:     config,
	}
}

func (h *RealtimeApi) Setup(app *fiber.App) {
	group := app.Group("/api/realtime", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/ws", websocket.New(h.controller.HandleWebSocket))
	group.Get("/stats", h.controller.GetStats)
	group.Get("/users", h.controller.GetConnectedUsers)
}
