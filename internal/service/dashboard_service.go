package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	"github.com/zideo/fintrack-api/internal/repository"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

type expenseAggregator interface {
	StatusTotals(ctx context.Context) (*dto.StatusTotals, error)
	TotalBetween(ctx context.Context, start, end models.Date) (float64, error)
	TopCategories(ctx context.Context, limit int) ([]repository.CategoryTotal, error)
	TopDepartments(ctx context.Context, limit int) ([]repository.DepartmentTotal, error)
	MonthlyTotals(ctx context.Context, since models.Date) ([]repository.MonthlyTotal, error)
}

type departmentBudgetReader interface {
	List(ctx context.Context) ([]models.Department, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL        time.Duration
	TopLimit        int
	BreakdownMonths int
}

// DashboardService composes the expense overview: totals per status,
// month-over-month movement, and top category/department shares.
type DashboardService struct {
	expenses    expenseAggregator
	departments departmentBudgetReader
	cache       *CacheService
	logger      *zap.Logger
	now         func() time.Time
	cfg         DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(expenses expenseAggregator, departments departmentBudgetReader, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = 5
	}
	if cfg.BreakdownMonths <= 0 {
		cfg.BreakdownMonths = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		expenses:    expenses,
		departments: departments,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// Summary returns the dashboard payload and whether it was served from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	if s.cache.Enabled() {
		var cached dto.DashboardSummary
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, false, nil
}

// Invalidate drops the cached summary after expense mutations.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *DashboardService) build(ctx context.Context) (*dto.DashboardSummary, error) {
	totals, err := s.expenses.StatusTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate expense totals")
	}

	now := s.now().UTC()
	thisMonthStart := models.NewDate(now.Year(), now.Month(), 1)
	thisMonthEnd := models.DateOf(thisMonthStart.AddDate(0, 1, -1))
	lastMonthStart := models.DateOf(thisMonthStart.AddDate(0, -1, 0))
	lastMonthEnd := models.DateOf(thisMonthStart.AddDate(0, 0, -1))

	thisMonth, err := s.expenses.TotalBetween(ctx, thisMonthStart, thisMonthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate current month")
	}
	lastMonth, err := s.expenses.TotalBetween(ctx, lastMonthStart, lastMonthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate previous month")
	}

	topCategories, err := s.expenses.TopCategories(ctx, s.cfg.TopLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate categories")
	}
	topDepartments, err := s.expenses.TopDepartments(ctx, s.cfg.TopLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate departments")
	}

	breakdownSince := models.DateOf(thisMonthStart.AddDate(0, -(s.cfg.BreakdownMonths - 1), 0))
	monthly, err := s.expenses.MonthlyTotals(ctx, breakdownSince)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate monthly breakdown")
	}

	monthlyBudget, err := s.totalMonthlyBudget(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		TotalExpenses:    totals.Total,
		PendingExpenses:  totals.Pending,
		ApprovedExpenses: totals.Approved,
		RejectedExpenses: totals.Rejected,
		ThisMonthTotal:   thisMonth,
		LastMonthTotal:   lastMonth,
		PercentageChange: percentageChange(thisMonth, lastMonth),
		TopCategories:    make([]dto.CategoryTotal, 0, len(topCategories)),
		TopDepartments:   make([]dto.DepartmentTotal, 0, len(topDepartments)),
		MonthlyBreakdown: make([]dto.MonthlyBreakdown, 0, len(monthly)),
	}

	for _, row := range topCategories {
		summary.TopCategories = append(summary.TopCategories, dto.CategoryTotal{
			CategoryName: row.CategoryName,
			Amount:       row.Amount,
			Percentage:   share(row.Amount, totals.Total),
		})
	}
	for _, row := range topDepartments {
		summary.TopDepartments = append(summary.TopDepartments, dto.DepartmentTotal{
			DepartmentName: row.DepartmentName,
			Amount:         row.Amount,
			Percentage:     share(row.Amount, totals.Total),
		})
	}
	for _, row := range monthly {
		summary.MonthlyBreakdown = append(summary.MonthlyBreakdown, dto.MonthlyBreakdown{
			Month:    row.Month,
			Expenses: row.Expenses,
			Budget:   monthlyBudget,
		})
	}

	return summary, nil
}

func (s *DashboardService) totalMonthlyBudget(ctx context.Context) (float64, error) {
	if s.departments == nil {
		return 0, nil
	}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department budgets")
	}
	var total float64
	for _, d := range departments {
		if d.Active {
			total += d.Budget
		}
	}
	return total, nil
}

func percentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func share(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return amount / total * 100
}
