package cron_feature

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/features/audit"

	"github.com/robfig/cron/v3"
)

// AutomationTrigger is satisfied by the automation engine
type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

// DonationSyncer is satisfied by the donation service
type DonationSyncer interface {
	SyncToLedger(ctx context.Context) (int, error)
}

type CronService interface {
	CreateJob(ctx context.Context, job *ScheduledJob) error
	GetJob(ctx context.Context, id string) (*ScheduledJob, error)
	ListJobs(ctx context.Context, churchID string) ([]ScheduledJob, error)
	UpdateJob(ctx context.Context, job *ScheduledJob) error
	DeleteJob(ctx context.Context, id string) error
	RunJob(ctx context.Context, id string) error
	GetJobLogs(ctx context.Context, jobID string, limit int) ([]JobRunLog, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RegisterJob(job *ScheduledJob) error
	UnregisterJob(id string) error
}

type CronServiceImpl struct {
	repo           CronRepository
	automation     AutomationTrigger
	donationSyncer DonationSyncer
	auditService   audit.AuditService

	scheduler  *cron.Cron
	jobEntries map[string]cron.EntryID
	mu         sync.RWMutex
}

func NewCronService(
	repo CronRepository,
	automation AutomationTrigger,
	donationSyncer DonationSyncer,
	auditService audit.AuditService,
) CronService {
	return &CronServiceImpl{
		repo:           repo,
		automation:     automation,
		donationSyncer: donationSyncer,
		auditService:   auditService,
		jobEntries:     make(map[string]cron.EntryID),
	}
}

func (s *CronServiceImpl) CreateJob(ctx context.Context, job *ScheduledJob) error {
	schedule, err := cron.ParseStandard(job.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	if job.Type != JobFireTrigger && job.Type != JobDonationSync {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	nextRun := schedule.Next(now)
	job.NextRun = &nextRun

	if err := s.repo.Create(ctx, job); err != nil {
		return err
	}

	s.auditService.LogChange(ctx, common_models.AuditActionCron, "scheduled_jobs", job.ID.Hex(), map[string]common_models.Change{
		"job": {New: job},
	})

	if job.Active && s.scheduler != nil {
		if err := s.RegisterJob(job); err != nil {
			log.Printf("Failed to register scheduled job %s: %v", job.ID.Hex(), err)
		}
	}

	return nil
}

func (s *CronServiceImpl) GetJob(ctx context.Context, id string) (*ScheduledJob, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CronServiceImpl) ListJobs(ctx context.Context, churchID string) ([]ScheduledJob, error) {
	return s.repo.List(ctx, churchID)
}

func (s *CronServiceImpl) UpdateJob(ctx context.Context, job *ScheduledJob) error {
	schedule, err := cron.ParseStandard(job.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	nextRun := schedule.Next(time.Now())
	job.NextRun = &nextRun

	oldJob, _ := s.GetJob(ctx, job.ID.Hex())

	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	s.auditService.LogChange(ctx, common_models.AuditActionCron, "scheduled_jobs", job.ID.Hex(), map[string]common_models.Change{
		"job": {Old: oldJob, New: job},
	})

	s.UnregisterJob(job.ID.Hex())

	if job.Active && s.scheduler != nil {
		if err := s.RegisterJob(job); err != nil {
			log.Printf("Failed to register updated scheduled job %s: %v", job.ID.Hex(), err)
		}
	}

	return nil
}

func (s *CronServiceImpl) DeleteJob(ctx context.Context, id string) error {
	oldJob, _ := s.GetJob(ctx, id)
	s.UnregisterJob(id)
	err := s.repo.Delete(ctx, id)
	if err == nil {
		s.auditService.LogChange(ctx, common_models.AuditActionCron, "scheduled_jobs", id, map[string]common_models.Change{
			"job": {Old: oldJob, New: "DELETED"},
		})
	}
	return err
}

func (s *CronServiceImpl) RunJob(ctx context.Context, id string) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.runJobInternal(ctx, job)
}

func (s *CronServiceImpl) runJobInternal(ctx context.Context, job *ScheduledJob) error {
	startTime := time.Now()

	logEntry := &JobRunLog{
		JobID:     job.ID,
		JobName:   job.Name,
		StartTime: startTime,
		Status:    "running",
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		log.Printf("Failed to create log entry for scheduled job %s: %v", job.ID.Hex(), err)
	}

	var execError error
	affected := 0

	switch job.Type {
	case JobFireTrigger:
		payload := job.Payload
		if payload == nil {
			payload = map[string]interface{}{}
		}
		payload["job_name"] = job.Name
		payload["scheduled_at"] = startTime.Format(time.RFC3339)
		execError = s.automation.FireTrigger(ctx, job.ChurchID.Hex(), "scheduled", job.ID.Hex(), payload)
		if execError == nil {
			affected = 1
		}
	case JobDonationSync:
		affected, execError = s.donationSyncer.SyncToLedger(ctx)
	default:
		execError = fmt.Errorf("unknown job type: %s", job.Type)
	}

	endTime := time.Now()
	logEntry.EndTime = &endTime
	logEntry.Affected = affected
	if execError != nil {
		logEntry.Status = "failed"
		logEntry.Error = execError.Error()
	} else {
		logEntry.Status = "success"
	}
	if err := s.repo.UpdateLog(ctx, logEntry); err != nil {
		log.Printf("Failed to update log entry for scheduled job %s: %v", job.ID.Hex(), err)
	}

	auditStatus := "success"
	if execError != nil {
		auditStatus = "failed"
	}
	s.auditService.LogChange(ctx, common_models.AuditActionCron, "scheduled_jobs", job.ID.Hex(), map[string]common_models.Change{
		"status":   {New: auditStatus},
		"affected": {New: affected},
		"error":    {New: logEntry.Error},
	})

	schedule, _ := cron.ParseStandard(job.Schedule)
	nextRun := schedule.Next(time.Now())
	if err := s.repo.UpdateLastRun(ctx, job.ID.Hex(), startTime, &nextRun); err != nil {
		log.Printf("Failed to update last run for scheduled job %s: %v", job.ID.Hex(), err)
	}

	return execError
}

func (s *CronServiceImpl) GetJobLogs(ctx context.Context, jobID string, limit int) ([]JobRunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, jobID, limit)
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	log.Println("Initializing cron scheduler...")
	s.scheduler = cron.New()
	jobs, err := s.repo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active scheduled jobs: %w", err)
	}

	for i := range jobs {
		if err := s.RegisterJob(&jobs[i]); err != nil {
			log.Printf("Failed to register scheduled job %s: %v", jobs[i].ID.Hex(), err)
		}
	}

	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *CronServiceImpl) RegisterJob(job *ScheduledJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return fmt.Errorf("scheduler not initialized")
	}

	jobID := job.ID.Hex()
	jobFunc := func() {
		ctx := context.Background()
		// re-read so edits and deactivations take effect without a restart
		latest, err := s.repo.GetByID(ctx, jobID)
		if err != nil || !latest.Active {
			return
		}
		s.runJobInternal(ctx, latest)
	}

	entryID, err := s.scheduler.AddFunc(job.Schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job to scheduler: %w", err)
	}

	s.jobEntries[jobID] = entryID
	return nil
}

func (s *CronServiceImpl) UnregisterJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobEntries[id]; exists {
		s.scheduler.Remove(entryID)
		delete(s.jobEntries, id)
	}
	return nil
}
