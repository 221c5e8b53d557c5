package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// LedgerEntry is one donation row pushed to the external accounting database.
type LedgerEntry struct {
	DonationID string
	ChurchID   string
	DonorName  string
	Fund       string
	Method     string
	Amount     float64
	Currency   string
	GivenAt    time.Time
}

// AccountingConnector mirrors donations into an external SQL ledger. Both
// postgres and mysql backends are supported; the driver is picked by config.
type AccountingConnector interface {
	Connect(ctx context.Context) error
	Close() error
	TestConnection(ctx context.Context) error
	PushEntries(ctx context.Context, entries []LedgerEntry) ([]string, error)
}

type accountingConnector struct {
	driver string // "postgres" or "mysql"
	dsn    string
	db     *sql.DB
}

func NewAccountingConnector(driver, dsn string) AccountingConnector {
	return &accountingConnector{
		driver: driver,
		dsn:    dsn,
	}
}

func (c *accountingConnector) Connect(ctx context.Context) error {
	if c.dsn == "" {
		return fmt.Errorf("accounting DSN is not configured")
	}

	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return fmt.Errorf("failed to open accounting connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping accounting database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	c.db = db
	return c.ensureTable(ctx)
}

func (c *accountingConnector) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *accountingConnector) TestConnection(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("accounting connection not established")
	}
	return c.db.PingContext(ctx)
}

// PushEntries inserts ledger rows one at a time so a bad row does not sink
// the whole batch. Returns the donation ids that were written.
func (c *accountingConnector) PushEntries(ctx context.Context, entries []LedgerEntry) ([]string, error) {
	if c.db == nil {
		return nil, fmt.Errorf("accounting connection not established")
	}

	query := c.insertQuery()
	written := make([]string, 0, len(entries))
	var firstErr error
	for _, e := range entries {
		_, err := c.db.ExecContext(ctx, query,
			e.DonationID, e.ChurchID, e.DonorName, e.Fund, e.Method, e.Amount, e.Currency, e.GivenAt)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("ledger insert %s: %w", e.DonationID, err)
			}
			continue
		}
		written = append(written, e.DonationID)
	}
	return written, firstErr
}

func (c *accountingConnector) ensureTable(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS donation_ledger (
			donation_id VARCHAR(64) PRIMARY KEY,
			church_id   VARCHAR(64) NOT NULL,
			donor_name  VARCHAR(255),
			fund        VARCHAR(128),
			method      VARCHAR(64),
			amount      DECIMAL(12,2) NOT NULL,
			currency    VARCHAR(8),
			given_at    TIMESTAMP NOT NULL
		)`
	_, err := c.db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to ensure ledger table: %w", err)
	}
	return nil
}

func (c *accountingConnector) insertQuery() string {
	if c.driver == "postgres" {
		return `INSERT INTO donation_ledger
			(donation_id, church_id, donor_name, fund, method, amount, currency, given_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (donation_id) DO NOTHING`
	}
	// mysql
	return `INSERT IGNORE INTO donation_ledger
		(donation_id, church_id, donor_name, fund, method, amount, currency, given_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
}
