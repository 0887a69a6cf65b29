package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	"github.com/zideo/fintrack-api/internal/repository"
)

type fakeAggregator struct {
	totals       dto.StatusTotals
	thisMonth    float64
	lastMonth    float64
	categories   []repository.CategoryTotal
	departments  []repository.DepartmentTotal
	monthly      []repository.MonthlyTotal
	rangeCalls   [][2]models.Date
	monthlySince models.Date
}

func (f *fakeAggregator) StatusTotals(context.Context) (*dto.StatusTotals, error) {
	totals := f.totals
	return &totals, nil
}

func (f *fakeAggregator) TotalBetween(_ context.Context, start, end models.Date) (float64, error) {
	f.rangeCalls = append(f.rangeCalls, [2]models.Date{start, end})
	if len(f.rangeCalls) == 1 {
		return f.thisMonth, nil
	}
	return f.lastMonth, nil
}

func (f *fakeAggregator) TopCategories(context.Context, int) ([]repository.CategoryTotal, error) {
	return f.categories, nil
}

func (f *fakeAggregator) TopDepartments(context.Context, int) ([]repository.DepartmentTotal, error) {
	return f.departments, nil
}

func (f *fakeAggregator) MonthlyTotals(_ context.Context, since models.Date) ([]repository.MonthlyTotal, error) {
	f.monthlySince = since
	return f.monthly, nil
}

type fakeDepartments struct {
	departments []models.Department
}

func (f *fakeDepartments) List(context.Context) ([]models.Department, error) {
	return f.departments, nil
}

func TestDashboardServiceSummary(t *testing.T) {
	agg := &fakeAggregator{
		totals:    dto.StatusTotals{Total: 1000, Pending: 200, Approved: 700, Rejected: 100},
		thisMonth: 300,
		lastMonth: 200,
		categories: []repository.CategoryTotal{
			{CategoryName: "Travel", Amount: 500},
			{CategoryName: "Meals", Amount: 250},
		},
		departments: []repository.DepartmentTotal{
			{DepartmentName: "Engineering", Amount: 600},
		},
		monthly: []repository.MonthlyTotal{
			{Month: "2026-02", Expenses: 200},
			{Month: "2026-03", Expenses: 300},
		},
	}
	deps := &fakeDepartments{departments: []models.Department{
		{Budget: 5000, Active: true},
		{Budget: 3000, Active: true},
		{Budget: 9999, Active: false},
	}}

	svc := NewDashboardService(agg, deps, nil, nil, DashboardServiceConfig{})
	svc.now = func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) }

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 1000.0, summary.TotalExpenses)
	assert.Equal(t, 200.0, summary.PendingExpenses)
	assert.Equal(t, 300.0, summary.ThisMonthTotal)
	assert.Equal(t, 200.0, summary.LastMonthTotal)
	assert.InDelta(t, 50.0, summary.PercentageChange, 0.001)

	// Month bounds derived from the injected clock.
	require.Len(t, agg.rangeCalls, 2)
	assert.Equal(t, models.NewDate(2026, time.March, 1), agg.rangeCalls[0][0])
	assert.Equal(t, models.NewDate(2026, time.March, 31), agg.rangeCalls[0][1])
	assert.Equal(t, models.NewDate(2026, time.February, 1), agg.rangeCalls[1][0])
	assert.Equal(t, models.NewDate(2026, time.February, 28), agg.rangeCalls[1][1])

	require.Len(t, summary.TopCategories, 2)
	assert.InDelta(t, 50.0, summary.TopCategories[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, summary.TopCategories[1].Percentage, 0.001)

	// Only active department budgets contribute to the monthly budget line.
	require.Len(t, summary.MonthlyBreakdown, 2)
	assert.Equal(t, 8000.0, summary.MonthlyBreakdown[0].Budget)
}

func TestPercentageChange(t *testing.T) {
	assert.Equal(t, 0.0, percentageChange(0, 0))
	assert.Equal(t, 100.0, percentageChange(50, 0))
	assert.InDelta(t, -50.0, percentageChange(100, 200), 0.001)
	assert.InDelta(t, 25.0, percentageChange(125, 100), 0.001)
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.0, share(10, 0))
	assert.InDelta(t, 40.0, share(40, 100), 0.001)
}
