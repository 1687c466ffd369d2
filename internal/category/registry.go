// Package category owns category definitions and protects the seeded system
// categories from edits.
package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/validation"
	"go.uber.org/zap"
)

var categoryMessages = validation.Messages{
	"Name":           "Category name is required",
	"Icon":           "Category icon is required",
	"Color.notblank": "Category color is required",
	"Color":          "Category color must be a valid hex color (e.g., #FF5733)",
	"Type":           "Invalid category type '%v'",
}

type Registry struct {
	store  interfaces.CategoryStore
	logger *zap.Logger
	now    func() time.Time
}

func NewRegistry(store interfaces.CategoryStore, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:  store,
		logger: logger.Named("category"),
		now:    time.Now,
	}
}

func (r *Registry) Create(ctx context.Context, in models.CreateCategoryInput) (models.Category, error) {
	if err := validation.Struct(in, categoryMessages); err != nil {
		return models.Category{}, err
	}

	now := r.now()
	category := models.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Icon:      strings.TrimSpace(in.Icon),
		Color:     in.Color,
		Type:      in.Type,
		IsSystem:  in.IsSystem,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.CreateCategory(ctx, category); err != nil {
		return models.Category{}, apperrors.Database("create category", err)
	}

	r.logger.Info("category created",
		zap.String("category_id", category.ID),
		zap.String("type", string(category.Type)),
		zap.Bool("system", category.IsSystem))
	return category, nil
}

func (r *Registry) Update(ctx context.Context, id string, in models.UpdateCategoryInput) (models.Category, error) {
	category, err := r.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if category.IsSystem {
		return models.Category{}, apperrors.Validation("System categories cannot be modified")
	}
	if err := validation.Struct(in, categoryMessages); err != nil {
		return models.Category{}, err
	}

	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
	}
	if in.Icon != nil {
		category.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.Type != nil {
		category.Type = *in.Type
	}
	category.UpdatedAt = r.now()
	if err := r.store.UpdateCategory(ctx, category); err != nil {
		return models.Category{}, apperrors.Lookup("update category", "Category", id, err)
	}
	return category, nil
}

// Delete removes a user category that nothing references anymore.
func (r *Registry) Delete(ctx context.Context, id string) error {
	category, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return apperrors.Validation("System categories cannot be deleted")
	}

	err = r.store.DeleteCategory(ctx, id)
	if errors.Is(err, storage.ErrReferenced) {
		return apperrors.Validation("Category '%s' is still used by transactions or subscriptions", category.Name)
	}
	if err != nil {
		return apperrors.Lookup("delete category", "Category", id, err)
	}

	r.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}

func (r *Registry) Get(ctx context.Context, id string) (models.Category, error) {
	category, err := r.store.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, apperrors.Lookup("get category", "Category", id, err)
	}
	return category, nil
}

func (r *Registry) GetAll(ctx context.Context) ([]models.Category, error) {
	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Database("list categories", err)
	}
	return categories, nil
}

// GetByType returns the categories usable for t: those of type t plus the
// BOTH categories. Asking for BOTH returns only the BOTH categories.
func (r *Registry) GetByType(ctx context.Context, t models.CategoryType) ([]models.Category, error) {
	if !t.Valid() {
		return nil, apperrors.Validation("Invalid category type '%s'", t)
	}

	types := []models.CategoryType{t}
	if t != models.CategoryBoth {
		types = append(types, models.CategoryBoth)
	}
	categories, err := r.store.ListCategories(ctx, types...)
	if err != nil {
		return nil, apperrors.Database("list categories", err)
	}
	return categories, nil
}

func (r *Registry) GetExpenseCategories(ctx context.Context) ([]models.Category, error) {
	return r.GetByType(ctx, models.CategoryExpense)
}

func (r *Registry) GetIncomeCategories(ctx context.Context) ([]models.Category, error) {
	return r.GetByType(ctx, models.CategoryIncome)
}

// ValidateExists is the input-validation contract other engines use for a
// foreign category id: a miss is a ValidationError, not a NotFoundError.
func (r *Registry) ValidateExists(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Validation("Category is required")
	}
	exists, err := r.store.CategoryExists(ctx, id)
	if err != nil {
		return apperrors.Database("check category", err)
	}
	if !exists {
		return apperrors.Validation("Category with id '%s' does not exist", id)
	}
	return nil
}
