package donation

import (
	"context"
	"fmt"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/connectors"
	"go-chms/internal/features/audit"
	"go-chms/pkg/export"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AutomationTrigger interface {
	FireTrigger(ctx context.Context, churchID, triggerType, subjectID string, payload map[string]interface{}) error
}

type DonationService interface {
	RecordDonation(ctx context.Context, d *Donation) error
	GetDonation(ctx context.Context, id string) (*Donation, error)
	ListDonations(ctx context.Context, churchID string, fund string, from, to time.Time) ([]Donation, error)
	Summary(ctx context.Context, churchID string, from, to time.Time) (*DonationSummary, error)
	ExportDonations(ctx context.Context, churchID string, from, to time.Time) ([]byte, string, error)
	SyncToLedger(ctx context.Context) (int, error)
}

type DonationServiceImpl struct {
	Repo         DonationRepository
	Accounting   connectors.AccountingConnector
	Automation   AutomationTrigger
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewDonationService(repo DonationRepository, accounting connectors.AccountingConnector, automation AutomationTrigger, auditService audit.AuditService, logger *zap.Logger) DonationService {
	return &DonationServiceImpl{
		Repo:         repo,
		Accounting:   accounting,
		Automation:   automation,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *DonationServiceImpl) RecordDonation(ctx context.Context, d *Donation) error {
	if d.Amount <= 0 {
		return fmt.Errorf("donation amount must be positive")
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}

	if err := s.Repo.Create(ctx, d); err != nil {
		return err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "donations", d.ID.Hex(), map[string]common_models.Change{
		"donation": {New: d},
	})

	if err := s.Automation.FireTrigger(ctx, d.ChurchID.Hex(), "donation_received", d.ID.Hex(), d.payload()); err != nil {
		s.Logger.Warn("donation_received trigger failed", zap.Error(err))
	}
	return nil
}

func (s *DonationServiceImpl) GetDonation(ctx context.Context, id string) (*Donation, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DonationServiceImpl) ListDonations(ctx context.Context, churchID string, fund string, from, to time.Time) ([]Donation, error) {
	return s.Repo.List(ctx, churchID, fund, from, to)
}

func (s *DonationServiceImpl) Summary(ctx context.Context, churchID string, from, to time.Time) (*DonationSummary, error) {
	donations, err := s.Repo.List(ctx, churchID, "", from, to)
	if err != nil {
		return nil, err
	}

	summary := &DonationSummary{ByFund: map[string]float64{}}
	for _, d := range donations {
		summary.TotalAmount += d.Amount
		summary.Count++
		fund := d.Fund
		if fund == "" {
			fund = "general"
		}
		summary.ByFund[fund] += d.Amount
	}
	return summary, nil
}

func (s *DonationServiceImpl) ExportDonations(ctx context.Context, churchID string, from, to time.Time) ([]byte, string, error) {
	donations, err := s.Repo.List(ctx, churchID, "", from, to)
	if err != nil {
		return nil, "", err
	}

	rows := make([]map[string]any, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, map[string]any{
			"donor_name": d.DonorName,
			"fund":       d.Fund,
			"method":     d.Method,
			"amount":     d.Amount,
			"currency":   d.Currency,
			"given_at":   d.GivenAt,
		})
	}

	columns := []string{"donor_name", "fund", "method", "amount", "currency", "given_at"}
	data, err := export.ToExcel(rows, columns, "Donations")
	if err != nil {
		return nil, "", err
	}

	s.AuditService.LogChange(ctx, common_models.AuditActionExport, "donations", churchID, nil)

	filename := fmt.Sprintf("donations_%s.xlsx", time.Now().Format("20060102"))
	return data, filename, nil
}

// SyncToLedger pushes unsynced donations to the external accounting database.
// Invoked from the scheduler and from the manual sync endpoint.
func (s *DonationServiceImpl) SyncToLedger(ctx context.Context) (int, error) {
	donations, err := s.Repo.ListUnsynced(ctx, 500)
	if err != nil {
		return 0, err
	}
	if len(donations) == 0 {
		return 0, nil
	}

	entries := make([]connectors.LedgerEntry, 0, len(donations))
	for _, d := range donations {
		entries = append(entries, connectors.LedgerEntry{
			DonationID: d.ID.Hex(),
			ChurchID:   d.ChurchID.Hex(),
			DonorName:  d.DonorName,
			Fund:       d.Fund,
			Method:     d.Method,
			Amount:     d.Amount,
			Currency:   d.Currency,
			GivenAt:    d.GivenAt,
		})
	}

	written, pushErr := s.Accounting.PushEntries(ctx, entries)
	if len(written) > 0 {
		ids := make([]primitive.ObjectID, 0, len(written))
		for _, hex := range written {
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				continue
			}
			ids = append(ids, oid)
		}
		if err := s.Repo.MarkSynced(ctx, ids); err != nil {
			s.Logger.Error("failed to mark donations synced", zap.Error(err))
		}
		s.AuditService.LogChange(ctx, common_models.AuditActionSync, "donations", "", map[string]common_models.Change{
			"synced": {New: len(written)},
		})
	}
	return len(written), pushErr
}
