package memory

import (
	"context"
	"sort"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
)

func (m *MemoryStore) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	defer m.lock(ctx)()

	m.data.subscriptions[sub.ID] = sub
	return nil
}

func (m *MemoryStore) GetSubscription(ctx context.Context, id string) (models.Subscription, error) {
	defer m.lock(ctx)()

	sub, ok := m.data.subscriptions[id]
	if !ok {
		return models.Subscription{}, storage.ErrNotFound
	}
	return sub, nil
}

func (m *MemoryStore) ListSubscriptions(ctx context.Context, activeOnly bool) ([]models.Subscription, error) {
	defer m.lock(ctx)()

	result := make([]models.Subscription, 0, len(m.data.subscriptions))
	for _, sub := range m.data.subscriptions {
		if activeOnly && !sub.IsActive {
			continue
		}
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].BillingDay != result[j].BillingDay {
			return result[i].BillingDay < result[j].BillingDay
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *MemoryStore) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	defer m.lock(ctx)()

	if _, ok := m.data.subscriptions[sub.ID]; !ok {
		return storage.ErrNotFound
	}
	m.data.subscriptions[sub.ID] = sub
	return nil
}

func (m *MemoryStore) DeleteSubscription(ctx context.Context, id string) error {
	defer m.lock(ctx)()

	if _, ok := m.data.subscriptions[id]; !ok {
		return storage.ErrNotFound
	}
	m.deleteSubscriptionLocked(id)
	return nil
}

// deleteSubscriptionLocked detaches the subscription's transactions (set null)
// and removes it. The caller holds the lock.
func (m *MemoryStore) deleteSubscriptionLocked(id string) {
	for txID, tx := range m.data.transactions {
		if tx.SubscriptionID != nil && *tx.SubscriptionID == id {
			tx.SubscriptionID = nil
			m.data.transactions[txID] = tx
		}
	}
	delete(m.data.subscriptions, id)
}
