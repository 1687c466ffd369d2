package category

import (
	"context"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"go.uber.org/zap"
)

// Defaults are the system categories seeded into an empty registry.
var Defaults = []models.CreateCategoryInput{
	{Name: "Food", Icon: "restaurant", Color: "#FF6B6B", Type: models.CategoryExpense},
	{Name: "Transport", Icon: "directions-car", Color: "#4ECDC4", Type: models.CategoryExpense},
	{Name: "Entertainment", Icon: "movie", Color: "#45B7D1", Type: models.CategoryExpense},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#96CEB4", Type: models.CategoryExpense},
	{Name: "Health", Icon: "local-hospital", Color: "#FF8A80", Type: models.CategoryExpense},
	{Name: "Education", Icon: "school", Color: "#B388FF", Type: models.CategoryExpense},
	{Name: "Utilities", Icon: "receipt", Color: "#FFD93D", Type: models.CategoryExpense},
	{Name: "Home", Icon: "home", Color: "#6BCB77", Type: models.CategoryExpense},
	{Name: "Pets", Icon: "pets", Color: "#C9B1FF", Type: models.CategoryExpense},
	{Name: "Gifts", Icon: "card-giftcard", Color: "#FFB6C1", Type: models.CategoryExpense},
	{Name: "Subscriptions", Icon: "subscriptions", Color: "#FF9F43", Type: models.CategoryExpense},
	{Name: "Other expenses", Icon: "more-horiz", Color: "#A8A8A8", Type: models.CategoryExpense},

	{Name: "Salary", Icon: "work", Color: "#2ECC71", Type: models.CategoryIncome},
	{Name: "Freelance", Icon: "laptop", Color: "#3498DB", Type: models.CategoryIncome},
	{Name: "Investments", Icon: "trending-up", Color: "#9B59B6", Type: models.CategoryIncome},
	{Name: "Sales", Icon: "store", Color: "#E67E22", Type: models.CategoryIncome},
	{Name: "Gifts received", Icon: "redeem", Color: "#E91E63", Type: models.CategoryIncome},
	{Name: "Other income", Icon: "add-circle", Color: "#95A5A6", Type: models.CategoryIncome},

	{Name: "Transfer", Icon: "swap-horiz", Color: "#607D8B", Type: models.CategoryBoth},
	{Name: "Adjustment", Icon: "tune", Color: "#795548", Type: models.CategoryBoth},
}

// SeedDefaults inserts Defaults as system categories unless the registry
// already holds categories. It reports how many categories were created.
func (r *Registry) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := r.store.ListCategories(ctx)
	if err != nil {
		return 0, apperrors.Database("list categories", err)
	}
	if len(existing) > 0 {
		r.logger.Debug("categories already seeded, skipping")
		return 0, nil
	}

	for _, in := range Defaults {
		in.IsSystem = true
		if _, err := r.Create(ctx, in); err != nil {
			return 0, err
		}
	}

	r.logger.Info("seeded system categories", zap.Int("count", len(Defaults)))
	return len(Defaults), nil
}
