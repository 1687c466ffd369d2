package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
)

func (m *MemoryStore) CreateCategory(ctx context.Context, category models.Category) error {
	defer m.lock(ctx)()

	m.data.categories[category.ID] = category
	return nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	defer m.lock(ctx)()

	category, ok := m.data.categories[id]
	if !ok {
		return models.Category{}, storage.ErrNotFound
	}
	return category, nil
}

func (m *MemoryStore) ListCategories(ctx context.Context, types ...models.CategoryType) ([]models.Category, error) {
	defer m.lock(ctx)()

	result := make([]models.Category, 0, len(m.data.categories))
	for _, category := range m.data.categories {
		if len(types) > 0 && !slices.Contains(types, category.Type) {
			continue
		}
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, category models.Category) error {
	defer m.lock(ctx)()

	if _, ok := m.data.categories[category.ID]; !ok {
		return storage.ErrNotFound
	}
	m.data.categories[category.ID] = category
	return nil
}

// DeleteCategory refuses to remove a category that is still in use.
func (m *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	defer m.lock(ctx)()

	if _, ok := m.data.categories[id]; !ok {
		return storage.ErrNotFound
	}
	for _, tx := range m.data.transactions {
		if tx.CategoryID == id {
			return storage.ErrReferenced
		}
	}
	for _, sub := range m.data.subscriptions {
		if sub.CategoryID == id {
			return storage.ErrReferenced
		}
	}

	delete(m.data.categories, id)
	return nil
}

func (m *MemoryStore) CategoryExists(ctx context.Context, id string) (bool, error) {
	defer m.lock(ctx)()

	_, ok := m.data.categories[id]
	return ok, nil
}
