package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

type fakeReportStore struct {
	reports       map[string]*models.Report
	created       *models.Report
	lastGenerated map[string]time.Time
}

func newFakeReportStore(seed ...*models.Report) *fakeReportStore {
	store := &fakeReportStore{reports: map[string]*models.Report{}, lastGenerated: map[string]time.Time{}}
	for _, r := range seed {
		store.reports[r.ID] = r
	}
	return store
}

func (f *fakeReportStore) List(context.Context) ([]models.Report, error) {
	var result []models.Report
	for _, r := range f.reports {
		result = append(result, *r)
	}
	return result, nil
}

func (f *fakeReportStore) FindByID(_ context.Context, id string) (*models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeReportStore) Create(_ context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = "report-1"
	}
	f.created = report
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportStore) UpdateLastGenerated(_ context.Context, id string, ts time.Time) error {
	f.lastGenerated[id] = ts
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.reports[id]; !ok {
		return false, nil
	}
	delete(f.reports, id)
	return true, nil
}

type fakeReportExpenses struct {
	expenses   []models.Expense
	lastReport *models.Report
}

func (f *fakeReportExpenses) ListForReport(_ context.Context, report *models.Report) ([]models.Expense, error) {
	f.lastReport = report
	return f.expenses, nil
}

func reportFixture(format models.ReportFormat) *models.Report {
	return &models.Report{
		ID:     "report-1",
		Name:   "Q1 Travel Spend",
		Type:   models.ReportExpense,
		Format: format,
	}
}

func reportExpenses() []models.Expense {
	return []models.Expense{
		{
			EmployeeName:   "Dana",
			DepartmentName: "Engineering",
			CategoryName:   "Travel",
			Amount:         120.5,
			Date:           models.NewDate(2026, time.March, 10),
			Status:         models.StatusApproved,
			SubmittedDate:  models.NewDate(2026, time.March, 11),
			ApprovedBy:     "Morgan Reed",
		},
	}
}

func TestReportServiceGenerateCSV(t *testing.T) {
	store := newFakeReportStore(reportFixture(models.FormatCSV))
	expenses := &fakeReportExpenses{expenses: reportExpenses()}
	svc := NewReportService(store, expenses, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC) }

	generated, err := svc.Generate(context.Background(), "report-1")
	require.NoError(t, err)

	assert.Equal(t, "q1-travel-spend-20260315.csv", generated.FileName)
	assert.Equal(t, "text/csv", generated.ContentType)

	body := string(generated.Content)
	assert.True(t, strings.HasPrefix(body, "Date,Employee,Department,Category"))
	assert.Contains(t, body, "120.50")
	assert.Contains(t, body, "Morgan Reed")

	// Generation time is stamped on the definition.
	_, stamped := store.lastGenerated["report-1"]
	assert.True(t, stamped)
}

func TestReportServiceGenerateExcelFallsBackToCSV(t *testing.T) {
	store := newFakeReportStore(reportFixture(models.FormatExcel))
	svc := NewReportService(store, &fakeReportExpenses{expenses: reportExpenses()}, nil, nil)

	generated, err := svc.Generate(context.Background(), "report-1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(generated.FileName, ".csv"))
	assert.Equal(t, "text/csv", generated.ContentType)
}

func TestReportServiceGeneratePDF(t *testing.T) {
	store := newFakeReportStore(reportFixture(models.FormatPDF))
	svc := NewReportService(store, &fakeReportExpenses{expenses: reportExpenses()}, nil, nil)

	generated, err := svc.Generate(context.Background(), "report-1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(generated.FileName, ".pdf"))
	assert.Equal(t, "application/pdf", generated.ContentType)
	assert.True(t, strings.HasPrefix(string(generated.Content), "%PDF"))
}

func TestReportServiceGenerateNotFound(t *testing.T) {
	svc := NewReportService(newFakeReportStore(), &fakeReportExpenses{}, nil, nil)

	_, err := svc.Generate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCreateScheduledRequiresFrequency(t *testing.T) {
	svc := NewReportService(newFakeReportStore(), &fakeReportExpenses{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.ReportRequest{
		Name:      "Weekly digest",
		Type:      string(models.ReportExpense),
		Format:    string(models.FormatCSV),
		Scheduled: true,
	}, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCreate(t *testing.T) {
	store := newFakeReportStore()
	svc := NewReportService(store, &fakeReportExpenses{}, nil, nil)

	report, err := svc.Create(context.Background(), dto.ReportRequest{
		Name:        "March approvals",
		Type:        string(models.ReportExpense),
		Format:      string(models.FormatPDF),
		Departments: []string{"dep-1"},
		Statuses:    []string{"APPROVED"},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", report.CreatedBy)
	assert.Equal(t, models.FormatPDF, report.Format)
	require.NotNil(t, store.created)
	assert.Equal(t, []string{"dep-1"}, []string(store.created.Departments))
}

func TestReportServiceDeleteNotFound(t *testing.T) {
	svc := NewReportService(newFakeReportStore(), &fakeReportExpenses{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "q1-travel-spend", sanitizeFileName("Q1 Travel Spend"))
	assert.Equal(t, "report", sanitizeFileName("///"))
}
