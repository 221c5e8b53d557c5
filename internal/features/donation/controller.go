package donation

import (
	"time"

	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationController struct {
	service DonationService
}

func NewDonationController(service DonationService) *DonationController {
	return &DonationController{service: service}
}

// RecordDonation godoc
// @Summary Record a donation
// @Tags donations
// @Accept json
// @Produce json
// @Param donation body Donation true "Donation"
// @Success 201 {object} Donation
// @Router /api/donations [post]
func (ct *DonationController) RecordDonation(c *fiber.Ctx) error {
	var d Donation
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	churchOID, err := primitive.ObjectIDFromHex(claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid church id"})
	}
	d.ChurchID = churchOID

	if err := ct.service.RecordDonation(c.Context(), &d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

// ListDonations godoc
// @Summary List donations
// @Tags donations
// @Produce json
// @Param fund query string false "Filter by fund"
// @Param from query string false "From date (RFC3339)"
// @Param to query string false "To date (RFC3339)"
// @Success 200 {array} Donation
// @Router /api/donations [get]
func (ct *DonationController) ListDonations(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	from, to := parseRange(c)
	donations, err := ct.service.ListDonations(c.Context(), claims.ChurchID, c.Query("fund"), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(donations)
}

// GetSummary godoc
// @Summary Donation totals grouped by fund
// @Tags donations
// @Produce json
// @Success 200 {object} DonationSummary
// @Router /api/donations/summary [get]
func (ct *DonationController) GetSummary(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	from, to := parseRange(c)
	summary, err := ct.service.Summary(c.Context(), claims.ChurchID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// ExportDonations godoc
// @Summary Export donations to Excel
// @Tags donations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/donations/export [get]
func (ct *DonationController) ExportDonations(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	from, to := parseRange(c)
	data, filename, err := ct.service.ExportDonations(c.Context(), claims.ChurchID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}

// SyncToLedger godoc
// @Summary Push unsynced donations to the accounting database
// @Tags donations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/donations/sync [post]
func (ct *DonationController) SyncToLedger(c *fiber.Ctx) error {
	written, err := ct.service.SyncToLedger(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "synced": written})
	}
	return c.JSON(fiber.Map{"success": true, "synced": written})
}

func parseRange(c *fiber.Ctx) (time.Time, time.Time) {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		from, _ = time.Parse(time.RFC3339, v)
	}
	if v := c.Query("to"); v != "" {
		to, _ = time.Parse(time.RFC3339, v)
	}
	return from, to
}
