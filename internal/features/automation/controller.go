package automation

import (
	"errors"

	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AutomationController struct {
	Service AutomationService
}

func NewAutomationController(service AutomationService) *AutomationController {
	return &AutomationController{
		Service: service,
	}
}

// CreateRule godoc
// @Summary Create automation rule
// @Description Create a new automation rule for the caller's church
// @Tags automation
// @Accept json
// @Produce json
// @Param rule body AutomationRule true "Automation Rule"
// @Success 201 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/rules [post]
func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.Claims(c)
	if churchOID, err := primitive.ObjectIDFromHex(claims.ChurchID); err == nil {
		rule.ChurchID = churchOID
	}

	if err := ctrl.Service.CreateRule(c.UserContext(), &rule); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

// GetRule godoc
// @Summary Get automation rule
// @Tags automation
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} AutomationRule
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [get]
func (ctrl *AutomationController) GetRule(c *fiber.Ctx) error {
	id := c.Params("id")
	rule, err := ctrl.Service.GetRule(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}
	return c.JSON(rule)
}

// ListRules godoc
// @Summary List automation rules
// @Tags automation
// @Produce json
// @Success 200 {array} AutomationRule
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules [get]
func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	rules, err := ctrl.Service.ListRules(c.UserContext(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rules)
}

// UpdateRule godoc
// @Summary Update automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body AutomationRule true "Automation Rule"
// @Success 200 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [put]
func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if oid, err := primitive.ObjectIDFromHex(c.Params("id")); err == nil {
		rule.ID = oid
	}

	if err := ctrl.Service.UpdateRule(c.UserContext(), &rule); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete automation rule
// @Tags automation
// @Param id path string true "Rule ID"
// @Success 204 {object} nil
// @Router /api/automation/rules/{id} [delete]
func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctrl.Service.DeleteRule(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EnableRule godoc
// @Summary Enable or disable automation rule
// @Tags automation
// @Param id path string true "Rule ID"
// @Param active query bool true "Active flag"
// @Success 200 {object} map[string]interface{}
// @Router /api/automation/rules/{id}/enable [patch]
func (ctrl *AutomationController) EnableRule(c *fiber.Ctx) error {
	id := c.Params("id")
	active := c.QueryBool("active", true)
	if err := ctrl.Service.EnableRule(c.UserContext(), id, active); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"id": id, "active": active})
}

// FireTrigger godoc
// @Summary Fire a trigger event manually
// @Description Submit a trigger event for rule evaluation (staff testing aid)
// @Tags automation
// @Accept json
// @Produce json
// @Param event body TriggerEvent true "Trigger Event"
// @Success 200 {object} ExecutionResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/trigger [post]
func (ctrl *AutomationController) FireTrigger(c *fiber.Ctx) error {
	var event TriggerEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.Claims(c)
	event.ChurchID = claims.ChurchID

	if event.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "trigger type is required"})
	}

	result := ctrl.Service.ProcessTrigger(c.UserContext(), event)
	return c.JSON(result)
}

// ListExecutions godoc
// @Summary List automation executions
// @Tags automation
// @Produce json
// @Param limit query int false "Max records"
// @Success 200 {array} ExecutionRecord
// @Router /api/automation/executions [get]
func (ctrl *AutomationController) ListExecutions(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	limit := int64(c.QueryInt("limit", 100))
	records, err := ctrl.Service.ListExecutions(c.UserContext(), claims.ChurchID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// ListApprovals godoc
// @Summary List pending approvals
// @Tags automation
// @Produce json
// @Success 200 {array} PendingApproval
// @Router /api/automation/approvals [get]
func (ctrl *AutomationController) ListApprovals(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	approvals, err := ctrl.Service.ListPendingApprovals(c.UserContext(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(approvals)
}

// ApproveRule godoc
// @Summary Approve a pending automation approval
// @Description Executes the deferred actions and marks the approval consumed
// @Tags automation
// @Produce json
// @Param id path string true "Approval ID"
// @Success 200 {object} ExecutionRecord
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/automation/approvals/{id}/approve [post]
func (ctrl *AutomationController) ApproveRule(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	record, err := ctrl.Service.ApproveRule(c.UserContext(), c.Params("id"), claims.UserID)
	if err != nil {
		return approvalErrorResponse(c, err)
	}
	return c.JSON(record)
}

// RejectRule godoc
// @Summary Reject a pending automation approval
// @Tags automation
// @Produce json
// @Param id path string true "Approval ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/automation/approvals/{id}/reject [post]
func (ctrl *AutomationController) RejectRule(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := ctrl.Service.RejectRule(c.UserContext(), c.Params("id"), claims.UserID); err != nil {
		return approvalErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "rejected"})
}

func approvalErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrApprovalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrApprovalResolved):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
