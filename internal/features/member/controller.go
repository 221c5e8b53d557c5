package member

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MemberController struct {
	service MemberService
}

func NewMemberController(service MemberService) *MemberController {
	return &MemberController{service: service}
}

// RegisterMember godoc
// @Summary Register a member
// @Description Creates a member record and kicks off registration automations
// @Tags members
// @Accept json
// @Produce json
// @Param member body Member true "Member"
// @Success 201 {object} Member
// @Router /api/members [post]
func (ct *MemberController) RegisterMember(c *fiber.Ctx) error {
	var m Member
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	claims := middleware.Claims(c)
	if claims != nil && m.ChurchID.IsZero() {
		oid, err := parseObjectID(claims.ChurchID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid church id"})
		}
		m.ChurchID = oid
	}
	if m.FirstName == "" || m.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "first_name and last_name are required"})
	}

	if err := ct.service.RegisterMember(c.Context(), &m); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// ListMembers godoc
// @Summary List members
// @Tags members
// @Produce json
// @Param stage query string false "Filter by lifecycle stage"
// @Success 200 {array} Member
// @Router /api/members [get]
func (ct *MemberController) ListMembers(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	members, err := ct.service.ListMembers(c.Context(), claims.ChurchID, c.Query("stage"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(members)
}

// GetMember godoc
// @Summary Get a member by id
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} Member
// @Router /api/members/{id} [get]
func (ct *MemberController) GetMember(c *fiber.Ctx) error {
	m, err := ct.service.GetMember(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
	}
	return c.JSON(m)
}

// UpdateMember godoc
// @Summary Update a member
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param member body Member true "Member"
// @Success 200 {object} Member
// @Router /api/members/{id} [put]
func (ct *MemberController) UpdateMember(c *fiber.Ctx) error {
	existing, err := ct.service.GetMember(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
	}

	var m Member
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	m.ID = existing.ID
	m.ChurchID = existing.ChurchID
	m.CreatedAt = existing.CreatedAt

	if err := ct.service.UpdateMember(c.Context(), &m); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(m)
}

// UpdateStage godoc
// @Summary Change a member's lifecycle stage
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/members/{id}/stage [post]
func (ct *MemberController) UpdateStage(c *fiber.Ctx) error {
	var body struct {
		Stage string `json:"stage"`
	}
	if err := c.BodyParser(&body); err != nil || body.Stage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stage is required"})
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := ct.service.UpdateLifecycleStage(c.Context(), claims.ChurchID, c.Params("id"), body.Stage); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "stage": body.Stage})
}

// DeleteMember godoc
// @Summary Delete a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/members/{id} [delete]
func (ct *MemberController) DeleteMember(c *fiber.Ctx) error {
	if err := ct.service.DeleteMember(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// ExportMembers godoc
// @Summary Export members to Excel
// @Tags members
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/members/export [get]
func (ct *MemberController) ExportMembers(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	data, filename, err := ct.service.ExportMembers(c.Context(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
