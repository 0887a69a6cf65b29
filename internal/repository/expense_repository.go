package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
)

const expenseColumns = `id, employee_id, employee_name, department_id, department_name, category_id, category_name, amount, date, description, status, receipt_url, attachments, submitted_date, approved_by, approved_date, rejection_reason, notes, tags, created_at, updated_at`

// ExpenseRepository provides database access for expense records.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository creates a new instance of ExpenseRepository.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// List returns expenses matching the filter. Results are ordered by expense
// date descending, then submitted date descending; no other ordering is
// promised to callers.
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM expenses WHERE 1=1", expenseColumns)
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.HasDateRange() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, submitted_date DESC"

	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// FindByID returns an expense by identifier.
func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*models.Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expenses WHERE id = $1 LIMIT 1", expenseColumns)
	var expense models.Expense
	if err := r.db.GetContext(ctx, &expense, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find expense by id: %w", err)
	}
	return &expense, nil
}

// Create inserts a new expense and fills in generated fields.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	const query = `INSERT INTO expenses (id, employee_id, employee_name, department_id, department_name, category_id, category_name, amount, date, description, status, receipt_url, attachments, submitted_date, approved_by, approved_date, rejection_reason, notes, tags, created_at, updated_at)
VALUES (:id, :employee_id, :employee_name, :department_id, :department_name, :category_id, :category_name, :amount, :date, :description, :status, :receipt_url, :attachments, :submitted_date, :approved_by, :approved_date, :rejection_reason, :notes, :tags, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// Update overwrites the stored record with the provided state.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().UTC()
	const query = `UPDATE expenses SET employee_id = :employee_id, employee_name = :employee_name, department_id = :department_id, department_name = :department_name, category_id = :category_id, category_name = :category_name, amount = :amount, date = :date, description = :description, status = :status, receipt_url = :receipt_url, attachments = :attachments, approved_by = :approved_by, approved_date = :approved_date, rejection_reason = :rejection_reason, notes = :notes, tags = :tags, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete removes an expense by id and reports whether a row existed.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM expenses WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expense rows affected: %w", err)
	}
	return rows > 0, nil
}

// StatusTotals sums amounts overall and per lifecycle state.
func (r *ExpenseRepository) StatusTotals(ctx context.Context) (*dto.StatusTotals, error) {
	const query = `SELECT
	COALESCE(SUM(amount), 0) AS total,
	COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0) AS pending,
	COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED'), 0) AS approved,
	COALESCE(SUM(amount) FILTER (WHERE status = 'REJECTED'), 0) AS rejected
FROM expenses`
	var totals dto.StatusTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("expense status totals: %w", err)
	}
	return &totals, nil
}

// TotalBetween sums expense amounts with dates inside [start, end].
func (r *ExpenseRepository) TotalBetween(ctx context.Context, start, end models.Date) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= $1 AND date <= $2`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, start, end); err != nil {
		return 0, fmt.Errorf("expense total between: %w", err)
	}
	return total, nil
}

// CategoryTotal mirrors the aggregate row shape for per-category sums.
type CategoryTotal struct {
	CategoryName string  `db:"category_name"`
	Amount       float64 `db:"amount"`
}

// TopCategories returns per-category amount sums, largest first.
func (r *ExpenseRepository) TopCategories(ctx context.Context, limit int) ([]CategoryTotal, error) {
	const query = `SELECT category_name, COALESCE(SUM(amount), 0) AS amount FROM expenses GROUP BY category_name ORDER BY amount DESC LIMIT $1`
	var rows []CategoryTotal
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return rows, nil
}

// DepartmentTotal mirrors the aggregate row shape for per-department sums.
type DepartmentTotal struct {
	DepartmentName string  `db:"department_name"`
	Amount         float64 `db:"amount"`
}

// TopDepartments returns per-department amount sums, largest first.
func (r *ExpenseRepository) TopDepartments(ctx context.Context, limit int) ([]DepartmentTotal, error) {
	const query = `SELECT department_name, COALESCE(SUM(amount), 0) AS amount FROM expenses GROUP BY department_name ORDER BY amount DESC LIMIT $1`
	var rows []DepartmentTotal
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("top departments: %w", err)
	}
	return rows, nil
}

// MonthlyTotal mirrors the aggregate row shape for month buckets.
type MonthlyTotal struct {
	Month    string  `db:"month"`
	Expenses float64 `db:"expenses"`
}

// MonthlyTotals returns per-month amount sums for expenses dated on or
// after the provided start date, oldest first.
func (r *ExpenseRepository) MonthlyTotals(ctx context.Context, since models.Date) ([]MonthlyTotal, error) {
	const query = `SELECT TO_CHAR(DATE_TRUNC('month', date), 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS expenses FROM expenses WHERE date >= $1 GROUP BY 1 ORDER BY 1 ASC`
	var rows []MonthlyTotal
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	return rows, nil
}

// ListForReport returns expenses matching a stored report's filter lists.
// Empty lists are skipped; the date range applies only when complete.
func (r *ExpenseRepository) ListForReport(ctx context.Context, report *models.Report) ([]models.Expense, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM expenses WHERE 1=1", expenseColumns)
	var conditions []string
	var args []interface{}

	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	}

	appendIn("department_id", report.Departments)
	appendIn("category_id", report.Categories)
	appendIn("status", report.Statuses)
	appendIn("employee_id", report.Users)

	if report.StartDate != nil && report.EndDate != nil {
		args = append(args, *report.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
		args = append(args, *report.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, submitted_date DESC"

	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses for report: %w", err)
	}
	return expenses, nil
}
