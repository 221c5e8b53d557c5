package cron_feature

import (
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CronController struct {
	service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{service: service}
}

// CreateJob godoc
// @Summary Create a scheduled job
// @Tags cron
// @Accept json
// @Produce json
// @Param job body ScheduledJob true "Scheduled job"
// @Success 201 {object} ScheduledJob
// @Router /api/cron [post]
func (ct *CronController) CreateJob(c *fiber.Ctx) error {
	var job ScheduledJob
	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if job.Name == "" || job.Schedule == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and schedule are required"})
	}

	claims := middleware.Claims(c)
	if claims != nil {
		if oid, err := primitive.ObjectIDFromHex(claims.ChurchID); err == nil {
			job.ChurchID = oid
		}
		if oid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			job.CreatedBy = oid
		}
	}

	if err := ct.service.CreateJob(c.Context(), &job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// ListJobs godoc
// @Summary List scheduled jobs
// @Tags cron
// @Produce json
// @Success 200 {array} ScheduledJob
// @Router /api/cron [get]
func (ct *CronController) ListJobs(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	jobs, err := ct.service.ListJobs(c.Context(), claims.ChurchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(jobs)
}

// GetJob godoc
// @Summary Get a scheduled job by id
// @Tags cron
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} ScheduledJob
// @Router /api/cron/{id} [get]
func (ct *CronController) GetJob(c *fiber.Ctx) error {
	job, err := ct.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

// UpdateJob godoc
// @Summary Update a scheduled job
// @Tags cron
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param job body ScheduledJob true "Scheduled job"
// @Success 200 {object} ScheduledJob
// @Router /api/cron/{id} [put]
func (ct *CronController) UpdateJob(c *fiber.Ctx) error {
	existing, err := ct.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}

	var job ScheduledJob
	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	job.ID = existing.ID
	job.ChurchID = existing.ChurchID
	job.CreatedBy = existing.CreatedBy
	job.CreatedAt = existing.CreatedAt

	if err := ct.service.UpdateJob(c.Context(), &job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(job)
}

// DeleteJob godoc
// @Summary Delete a scheduled job
// @Tags cron
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/cron/{id} [delete]
func (ct *CronController) DeleteJob(c *fiber.Ctx) error {
	if err := ct.service.DeleteJob(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// RunJob godoc
// @Summary Run a scheduled job immediately
// @Tags cron
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/cron/{id}/run [post]
func (ct *CronController) RunJob(c *fiber.Ctx) error {
	if err := ct.service.RunJob(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetJobLogs godoc
// @Summary List run logs for a scheduled job
// @Tags cron
// @Produce json
// @Param id path string true "Job ID"
// @Param limit query int false "Max entries"
// @Success 200 {array} JobRunLog
// @Router /api/cron/{id}/logs [get]
func (ct *CronController) GetJobLogs(c *fiber.Ctx) error {
	logs, err := ct.service.GetJobLogs(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(logs)
}
