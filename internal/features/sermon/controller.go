package sermon

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SermonController struct {
	service SermonService
}

func NewSermonController(service SermonService) *SermonController {
	return &SermonController{service: service}
}

// CreateSermon godoc
// @Summary Create a sermon
// @Tags sermons
// @Accept json
// @Produce json
// @Param sermon body Sermon true "Sermon"
// @Success 201 {object} Sermon
// @Router /api/sermons [post]
func (ct *SermonController) CreateSermon(c *fiber.Ctx) error {
	var s Sermon
	if err := c.BodyParser(&s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if s.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	churchOID, err := primitive.ObjectIDFromHex(claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid church id"})
	}
	s.ChurchID = churchOID

	if err := ct.service.CreateSermon(c.Context(), &s); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListSermons godoc
// @Summary List sermons
// @Tags sermons
// @Produce json
// @Param published query bool false "Only published sermons"
// @Param series query string false "Filter by series"
// @Success 200 {array} Sermon
// @Router /api/sermons [get]
func (ct *SermonController) ListSermons(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	sermons, err := ct.service.ListSermons(c.Context(), claims.ChurchID, c.QueryBool("published"), c.Query("series"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sermons)
}

// GetSermon godoc
// @Summary Get a sermon by id
// @Tags sermons
// @Produce json
// @Param id path string true "Sermon ID"
// @Success 200 {object} Sermon
// @Router /api/sermons/{id} [get]
func (ct *SermonController) GetSermon(c *fiber.Ctx) error {
	s, err := ct.service.GetSermon(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sermon not found"})
	}
	return c.JSON(s)
}

// UpdateSermon godoc
// @Summary Update a sermon
// @Tags sermons
// @Accept json
// @Produce json
// @Param id path string true "Sermon ID"
// @Param sermon body Sermon true "Sermon"
// @Success 200 {object} Sermon
// @Router /api/sermons/{id} [put]
func (ct *SermonController) UpdateSermon(c *fiber.Ctx) error {
	existing, err := ct.service.GetSermon(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sermon not found"})
	}

	var s Sermon
	if err := c.BodyParser(&s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	s.ID = existing.ID
	s.ChurchID = existing.ChurchID
	s.Published = existing.Published
	s.PublishedAt = existing.PublishedAt
	s.CreatedAt = existing.CreatedAt

	if err := ct.service.UpdateSermon(c.Context(), &s); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s)
}

// PublishSermon godoc
// @Summary Publish a sermon
// @Tags sermons
// @Produce json
// @Param id path string true "Sermon ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sermons/{id}/publish [post]
func (ct *SermonController) PublishSermon(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := ct.service.PublishSermon(c.Context(), claims.ChurchID, c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteSermon godoc
// @Summary Delete a sermon
// @Tags sermons
// @Produce json
// @Param id path string true "Sermon ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sermons/{id} [delete]
func (ct *SermonController) DeleteSermon(c *fiber.Ctx) error {
	if err := ct.service.DeleteSermon(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
