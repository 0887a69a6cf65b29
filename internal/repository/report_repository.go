package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zideo/fintrack-api/internal/models"
)

const reportColumns = `id, name, type, start_date, end_date, departments, categories, statuses, users, created_by, created_at, last_generated, format, scheduled, schedule_frequency`

// ReportRepository provides database access for stored report definitions.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// List returns all report definitions, newest first.
func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	query := fmt.Sprintf("SELECT %s FROM reports ORDER BY created_at DESC", reportColumns)
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// FindByID returns a report definition by identifier.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf("SELECT %s FROM reports WHERE id = $1 LIMIT 1", reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return &report, nil
}

// Create inserts a report definition.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reports (id, name, type, start_date, end_date, departments, categories, statuses, users, created_by, created_at, last_generated, format, scheduled, schedule_frequency)
VALUES (:id, :name, :type, :start_date, :end_date, :departments, :categories, :statuses, :users, :created_by, :created_at, :last_generated, :format, :scheduled, :schedule_frequency)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// UpdateLastGenerated stamps a report with its most recent generation time.
func (r *ReportRepository) UpdateLastGenerated(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE reports SET last_generated = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update report last generated: %w", err)
	}
	return nil
}

// Delete removes a report definition and reports whether a row existed.
func (r *ReportRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM reports WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete report: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete report rows affected: %w", err)
	}
	return rows > 0, nil
}
