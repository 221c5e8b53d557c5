package prayer

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrayerController struct {
	service PrayerService
}

func NewPrayerController(service PrayerService) *PrayerController {
	return &PrayerController{service: service}
}

// SubmitRequest godoc
// @Summary Submit a prayer request
// @Tags prayer
// @Accept json
// @Produce json
// @Param request body PrayerRequest true "Prayer request"
// @Success 201 {object} PrayerRequest
// @Router /api/prayer [post]
func (ct *PrayerController) SubmitRequest(c *fiber.Ctx) error {
	var p PrayerRequest
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if p.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subject is required"})
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	churchOID, err := primitive.ObjectIDFromHex(claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid church id"})
	}
	p.ChurchID = churchOID
	p.RequesterID = claims.UserID
	if !p.Anonymous && p.Requester == "" {
		p.Requester = claims.Name
	}

	if err := ct.service.SubmitRequest(c.Context(), &p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// ListRequests godoc
// @Summary List prayer requests
// @Tags prayer
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} PrayerRequest
// @Router /api/prayer [get]
func (ct *PrayerController) ListRequests(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	requests, err := ct.service.ListRequests(c.Context(), claims.ChurchID, c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(requests)
}

// GetRequest godoc
// @Summary Get a prayer request by id
// @Tags prayer
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} PrayerRequest
// @Router /api/prayer/{id} [get]
func (ct *PrayerController) GetRequest(c *fiber.Ctx) error {
	p, err := ct.service.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "request not found"})
	}
	return c.JSON(p)
}

// UpdateStatus godoc
// @Summary Update a prayer request's status
// @Tags prayer
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/prayer/{id}/status [post]
func (ct *PrayerController) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status PrayerStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status is required"})
	}

	switch body.Status {
	case PrayerOpen, PrayerPraying, PrayerAnswered, PrayerArchived:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}

	if err := ct.service.UpdateStatus(c.Context(), c.Params("id"), body.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "status": body.Status})
}

// Assign godoc
// @Summary Assign a prayer request to a staff member
// @Tags prayer
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/prayer/{id}/assign [post]
func (ct *PrayerController) Assign(c *fiber.Ctx) error {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	if err := ct.service.AssignRequest(c.Context(), c.Params("id"), body.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// RecordPrayer godoc
// @Summary Record that someone prayed for a request
// @Tags prayer
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/prayer/{id}/pray [post]
func (ct *PrayerController) RecordPrayer(c *fiber.Ctx) error {
	if err := ct.service.RecordPrayer(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
