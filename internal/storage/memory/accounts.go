package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/shopspring/decimal"
)

func (m *MemoryStore) CreateAccount(ctx context.Context, account models.Account) error {
	defer m.lock(ctx)()

	m.data.accounts[account.ID] = account
	return nil
}

func (m *MemoryStore) GetAccount(ctx context.Context, id string) (models.Account, error) {
	defer m.lock(ctx)()

	account, ok := m.data.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return account, nil
}

func (m *MemoryStore) GetDefaultAccount(ctx context.Context) (models.Account, error) {
	defer m.lock(ctx)()

	for _, account := range m.data.accounts {
		if account.IsDefault {
			return account, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

func (m *MemoryStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	defer m.lock(ctx)()

	result := make([]models.Account, 0, len(m.data.accounts))
	for _, account := range m.data.accounts {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MemoryStore) CountAccounts(ctx context.Context) (int, error) {
	defer m.lock(ctx)()

	return len(m.data.accounts), nil
}

func (m *MemoryStore) UpdateAccount(ctx context.Context, account models.Account) error {
	defer m.lock(ctx)()

	if _, ok := m.data.accounts[account.ID]; !ok {
		return storage.ErrNotFound
	}
	m.data.accounts[account.ID] = account
	return nil
}

// DeleteAccount removes the account and everything it owns.
func (m *MemoryStore) DeleteAccount(ctx context.Context, id string) error {
	defer m.lock(ctx)()

	if _, ok := m.data.accounts[id]; !ok {
		return storage.ErrNotFound
	}

	for txID, tx := range m.data.transactions {
		if tx.AccountID == id {
			delete(m.data.transactions, txID)
		}
	}
	for subID, sub := range m.data.subscriptions {
		if sub.AccountID == id {
			m.deleteSubscriptionLocked(subID)
		}
	}
	for kind, rows := range m.data.instruments {
		for instID, inst := range rows {
			if inst.AccountID == id {
				m.deleteInstrumentLocked(kind, instID)
			}
		}
	}

	delete(m.data.accounts, id)
	return nil
}

func (m *MemoryStore) ClearDefaultAccount(ctx context.Context) error {
	defer m.lock(ctx)()

	now := time.Now()
	for id, account := range m.data.accounts {
		if account.IsDefault {
			account.IsDefault = false
			account.UpdatedAt = now
			m.data.accounts[id] = account
		}
	}
	return nil
}

func (m *MemoryStore) AddToBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error) {
	defer m.lock(ctx)()

	account, ok := m.data.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = time.Now()
	m.data.accounts[id] = account
	return account, nil
}
