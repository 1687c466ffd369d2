package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/shopspring/decimal"
)

func (m *MemoryStore) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	defer m.lock(ctx)()

	m.data.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	defer m.lock(ctx)()

	tx, ok := m.data.transactions[id]
	if !ok {
		return models.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	defer m.lock(ctx)()

	if _, ok := m.data.transactions[tx.ID]; !ok {
		return storage.ErrNotFound
	}
	m.data.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, id string) error {
	defer m.lock(ctx)()

	if _, ok := m.data.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.data.transactions, id)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	defer m.lock(ctx)()

	var result []models.Transaction
	for _, tx := range m.data.transactions {
		if filter.Match(tx) {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MemoryStore) SumTransactions(ctx context.Context, typ models.TransactionType, start, end *time.Time) (decimal.Decimal, error) {
	defer m.lock(ctx)()

	filter := models.TransactionFilter{Type: typ, StartDate: start, EndDate: end}
	total := decimal.Zero
	for _, tx := range m.data.transactions {
		if filter.Match(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}
