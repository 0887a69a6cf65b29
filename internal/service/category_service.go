package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

type categoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryService manages expense categories.
type CategoryService struct {
	repo      categoryStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(repo categoryStore, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}

// Create stores a new category.
func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	category := &models.Category{
		Name:                req.Name,
		Description:         req.Description,
		Icon:                req.Icon,
		Color:               req.Color,
		Default:             req.Default,
		Active:              true,
		LimitPerTransaction: req.LimitPerTransaction,
		LimitDaily:          req.LimitDaily,
		LimitMonthly:        req.LimitMonthly,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.logger.Info("category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// Update modifies an existing category.
func (s *CategoryService) Update(ctx context.Context, id string, req dto.CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	category.Color = req.Color
	category.Default = req.Default
	category.LimitPerTransaction = req.LimitPerTransaction
	category.LimitDaily = req.LimitDaily
	category.LimitMonthly = req.LimitMonthly
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	}
	s.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}
