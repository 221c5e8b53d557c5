package member

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberApi struct {
	controller *MemberController
	config     *config.Config
}

func NewMemberApi(controller *MemberController, config *config.Config) api.Route {
	return &MemberApi{
		controller: controller,
		config:     config,
	}
}

func (h *MemberApi) Setup(app *fiber.App) {
	group := app.Group("/api/members", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListMembers)
	group.Get("/export", h.controller.ExportMembers)
	group.Get("/:id", h.controller.GetMember)

	staff := group.Group("", middleware.RequireRole(
		common_models.RoleAdmin,
		common_models.RoleChurchAdmin,
		common_models.RoleStaff,
	))
	staff.Post("/", h.controller.RegisterMember)
	staff.Put("/:id", h.controller.UpdateMember)
	staff.Post("/:id/stage", h.controller.UpdateStage)
	staff.Delete("/:id", h.controller.DeleteMember)
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
