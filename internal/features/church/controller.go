package church

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChurchController struct {
	service ChurchService
}

func NewChurchController(service ChurchService) *ChurchController {
	return &ChurchController{service: service}
}

// ListChurches godoc
// @Summary List all churches
// @Description Platform administration view of every church account
// @Tags churches
// @Produce json
// @Success 200 {array} Church
// @Router /api/churches [get]
func (ct *ChurchController) ListChurches(c *fiber.Ctx) error {
	churches, err := ct.service.ListChurches(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(churches)
}

// GetChurch godoc
// @Summary Get the caller's church
// @Tags churches
// @Produce json
// @Success 200 {object} Church
// @Router /api/churches/me [get]
func (ct *ChurchController) GetMyChurch(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	church, err := ct.service.GetChurch(c.Context(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "church not found"})
	}
	return c.JSON(church)
}

// UpdateChurch godoc
// @Summary Update the caller's church profile
// @Tags churches
// @Accept json
// @Produce json
// @Success 200 {object} Church
// @Router /api/churches/me [put]
func (ct *ChurchController) UpdateMyChurch(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	existing, err := ct.service.GetChurch(c.Context(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "church not found"})
	}

	var body Church
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	existing.Name = body.Name
	existing.Address = body.Address
	existing.Timezone = body.Timezone

	if err := ct.service.UpdateChurch(c.Context(), existing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(existing)
}

// DeactivateChurch godoc
// @Summary Deactivate a church account
// @Tags churches
// @Produce json
// @Param id path string true "Church ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/churches/{id}/deactivate [post]
func (ct *ChurchController) DeactivateChurch(c *fiber.Ctx) error {
	if err := ct.service.Deactivate(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
