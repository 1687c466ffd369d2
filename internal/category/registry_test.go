package category

import (
	"context"
	"testing"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry() (*Registry, *memory.MemoryStore) {
	store := memory.NewMemoryStore()
	return NewRegistry(store, zap.NewNop()), store
}

func TestSeedDefaults(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	n, err := r.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(Defaults), n)

	n, err = r.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding twice is a no-op")

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 20)
	for _, c := range all {
		assert.True(t, c.IsSystem, c.Name)
	}
}

func TestSystemCategoriesAreImmutable(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()
	sys, err := r.Create(ctx, models.CreateCategoryInput{Name: "Food", Icon: "restaurant", Color: "#FF5733", Type: models.CategoryExpense, IsSystem: true})
	require.NoError(t, err)

	name := "Groceries"
	_, err = r.Update(ctx, sys.ID, models.UpdateCategoryInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "System categories cannot be modified", err.Error())

	err = r.Delete(ctx, sys.ID)
	require.Error(t, err)
	assert.Equal(t, "System categories cannot be deleted", err.Error())
}

func TestUpdateAndDeleteUserCategory(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()
	c, err := r.Create(ctx, models.CreateCategoryInput{Name: "Hobbies", Icon: "brush", Color: "#00AA00", Type: models.CategoryExpense})
	require.NoError(t, err)

	color := "#112233"
	updated, err := r.Update(ctx, c.ID, models.UpdateCategoryInput{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "#112233", updated.Color)

	bad := "red"
	_, err = r.Update(ctx, c.ID, models.UpdateCategoryInput{Color: &bad})
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, r.Delete(ctx, c.ID))
	_, err = r.Get(ctx, c.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteReferencedCategory(t *testing.T) {
	r, store := newTestRegistry()
	ctx := context.Background()
	c, err := r.Create(ctx, models.CreateCategoryInput{Name: "Hobbies", Icon: "brush", Color: "#00AA00", Type: models.CategoryExpense})
	require.NoError(t, err)
	require.NoError(t, store.CreateTransaction(ctx, models.Transaction{ID: "tx-1", CategoryID: c.ID}))

	err = r.Delete(ctx, c.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = r.Get(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      models.CreateCategoryInput
		wantErr string
	}{
		{"missing name", models.CreateCategoryInput{Icon: "x", Color: "#FFFFFF", Type: models.CategoryExpense}, "Category name is required"},
		{"missing icon", models.CreateCategoryInput{Name: "x", Color: "#FFFFFF", Type: models.CategoryExpense}, "Category icon is required"},
		{"missing color", models.CreateCategoryInput{Name: "x", Icon: "x", Type: models.CategoryExpense}, "Category color is required"},
		{"short color", models.CreateCategoryInput{Name: "x", Icon: "x", Color: "#FFF", Type: models.CategoryExpense}, "Category color must be a valid hex color (e.g., #FF5733)"},
		{"bad type", models.CreateCategoryInput{Name: "x", Icon: "x", Color: "#FFFFFF", Type: "OTHER"}, "Invalid category type 'OTHER'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry()
			_, err := r.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestGetByType(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()
	_, err := r.SeedDefaults(ctx)
	require.NoError(t, err)

	expense, err := r.GetExpenseCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, expense, 14)

	income, err := r.GetIncomeCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, income, 8)

	both, err := r.GetByType(ctx, models.CategoryBoth)
	require.NoError(t, err)
	assert.Len(t, both, 2)

	_, err = r.GetByType(ctx, "NONE")
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateExists(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()
	c, err := r.Create(ctx, models.CreateCategoryInput{Name: "Hobbies", Icon: "brush", Color: "#00AA00", Type: models.CategoryExpense})
	require.NoError(t, err)

	assert.NoError(t, r.ValidateExists(ctx, c.ID))
	assert.EqualError(t, r.ValidateExists(ctx, ""), "Category is required")
	assert.EqualError(t, r.ValidateExists(ctx, "nope"), "Category with id 'nope' does not exist")
}
