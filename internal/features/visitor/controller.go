package visitor

import (
	"time"

	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VisitorController struct {
	service VisitorService
}

func NewVisitorController(service VisitorService) *VisitorController {
	return &VisitorController{service: service}
}

type checkInRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Source    string `json:"source"`
	Service   string `json:"service"`
}

// CheckIn godoc
// @Summary Check in a visitor
// @Description Records a visit; returning visitors are matched by email or phone
// @Tags visitors
// @Accept json
// @Produce json
// @Param checkin body checkInRequest true "Check-in"
// @Success 201 {object} Visitor
// @Router /api/visitors/check-in [post]
func (ct *VisitorController) CheckIn(c *fiber.Ctx) error {
	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "first_name is required"})
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	churchOID, err := primitive.ObjectIDFromHex(claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid church id"})
	}

	v := &Visitor{
		ChurchID:  churchOID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Source:    req.Source,
	}

	result, err := ct.service.CheckIn(c.Context(), claims.ChurchID, v, req.Service)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListVisitors godoc
// @Summary List visitors
// @Tags visitors
// @Produce json
// @Success 200 {array} Visitor
// @Router /api/visitors [get]
func (ct *VisitorController) ListVisitors(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	visitors, err := ct.service.ListVisitors(c.Context(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(visitors)
}

// GetVisitor godoc
// @Summary Get a visitor by id
// @Tags visitors
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} Visitor
// @Router /api/visitors/{id} [get]
func (ct *VisitorController) GetVisitor(c *fiber.Ctx) error {
	v, err := ct.service.GetVisitor(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "visitor not found"})
	}
	return c.JSON(v)
}

// ListCheckIns godoc
// @Summary List check-ins
// @Tags visitors
// @Produce json
// @Param days query int false "Limit to the last N days"
// @Success 200 {array} CheckIn
// @Router /api/visitors/check-ins [get]
func (ct *VisitorController) ListCheckIns(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var since time.Time
	if days := c.QueryInt("days"); days > 0 {
		since = time.Now().AddDate(0, 0, -days)
	}

	checkIns, err := ct.service.ListCheckIns(c.Context(), claims.ChurchID, since)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(checkIns)
}
