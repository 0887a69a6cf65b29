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

const categoryColumns = `id, name, description, icon, color, is_default, active, limit_per_transaction, limit_daily, limit_monthly, created_at, updated_at`

// CategoryRepository provides database access for expense categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories ORDER BY name ASC", categoryColumns)
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID returns a category by identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = $1 LIMIT 1", categoryColumns)
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	const query = `INSERT INTO categories (id, name, description, icon, color, is_default, active, limit_per_transaction, limit_daily, limit_monthly, created_at, updated_at)
VALUES (:id, :name, :description, :icon, :color, :is_default, :active, :limit_per_transaction, :limit_daily, :limit_monthly, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update overwrites mutable category fields.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categories SET name = :name, description = :description, icon = :icon, color = :color, is_default = :is_default, active = :active, limit_per_transaction = :limit_per_transaction, limit_daily = :limit_daily, limit_monthly = :limit_monthly, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by id and reports whether a row existed.
func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM categories WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows affected: %w", err)
	}
	return rows > 0, nil
}
