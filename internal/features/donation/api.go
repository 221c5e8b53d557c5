package donation

import (
	"go-chms/internal/common/api"
	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DonationApi struct {
	controller *DonationController
	config     *config.Config
}

func NewDonationApi(controller *DonationController, config *config.Config) api.Route {
	return &DonationApi{
		controller: controller,
		config:     config,
	}
}

func (h *DonationApi) Setup(app *fiber.App) {
	group := app.Group("/api/donations",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(
			common_models.RoleAdmin,
			common_models.RoleChurchAdmin,
			common_models.RoleStaff,
		))

	group.Post("/", h.controller.RecordDonation)
	group.Get("/", h.controller.ListDonations)
	group.Get("/summary", h.controller.GetSummary)
	group.Get("/export", h.controller.ExportDonations)
	group.Post("/sync", h.controller.SyncToLedger)
}
