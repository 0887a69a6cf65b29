package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
	"github.com/zideo/fintrack-api/pkg/export"
)

type reportStore interface {
	List(ctx context.Context) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	UpdateLastGenerated(ctx context.Context, id string, ts time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
}

type reportExpenseSource interface {
	ListForReport(ctx context.Context, report *models.Report) ([]models.Expense, error)
}

// ReportService manages stored report definitions and renders them into
// downloadable documents.
type ReportService struct {
	repo      reportStore
	expenses  reportExpenseSource
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportStore, expenses reportExpenseSource, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:      repo,
		expenses:  expenses,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all stored report definitions.
func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// Get returns a report definition by id.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

// Create stores a new report definition owned by the given user.
func (s *ReportService) Create(ctx context.Context, req dto.ReportRequest, createdBy string) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if req.Scheduled && req.ScheduleFrequency == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled reports require a frequency")
	}

	report := &models.Report{
		Name:              req.Name,
		Type:              models.ReportType(req.Type),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Departments:       req.Departments,
		Categories:        req.Categories,
		Statuses:          req.Statuses,
		Users:             req.Users,
		CreatedBy:         createdBy,
		Format:            models.ReportFormat(req.Format),
		Scheduled:         req.Scheduled,
		ScheduleFrequency: models.ScheduleFrequency(req.ScheduleFrequency),
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	s.logger.Info("report definition created", zap.String("report_id", report.ID), zap.String("name", report.Name))
	return report, nil
}

// Delete removes a report definition.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return nil
}

// Generate renders the report into its configured format. Spreadsheet output
// is delivered as CSV, which opens in any spreadsheet application.
func (s *ReportService) Generate(ctx context.Context, id string) (*dto.GeneratedReport, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListForReport(ctx, report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect report data")
	}

	dataset := buildExpenseDataset(expenses)
	baseName := fmt.Sprintf("%s-%s", sanitizeFileName(report.Name), s.now().UTC().Format("20060102"))

	var generated *dto.GeneratedReport
	switch report.Format {
	case models.FormatPDF:
		content, err := s.pdf.Render(dataset, report.Name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		generated = &dto.GeneratedReport{
			FileName:    baseName + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		generated = &dto.GeneratedReport{
			FileName:    baseName + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}
	}

	if err := s.repo.UpdateLastGenerated(ctx, report.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to stamp report generation time", zap.String("report_id", report.ID), zap.Error(err))
	}

	return generated, nil
}

var expenseReportHeaders = []string{
	"Date", "Employee", "Department", "Category", "Description", "Amount", "Status", "Submitted", "Approved By",
}

func buildExpenseDataset(expenses []models.Expense) export.Dataset {
	rows := make([]map[string]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, map[string]string{
			"Date":        e.Date.String(),
			"Employee":    e.EmployeeName,
			"Department":  e.DepartmentName,
			"Category":    e.CategoryName,
			"Description": e.Description,
			"Amount":      fmt.Sprintf("%.2f", e.Amount),
			"Status":      string(e.Status),
			"Submitted":   e.SubmittedDate.String(),
			"Approved By": e.ApprovedBy,
		})
	}
	return export.Dataset{Headers: expenseReportHeaders, Rows: rows}
}

func sanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if cleaned == "" {
		cleaned = "report"
	}
	return strings.ToLower(cleaned)
}
