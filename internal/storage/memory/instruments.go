package memory

import (
	"context"
	"sort"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
)

func (m *MemoryStore) CreateInstrument(ctx context.Context, inst models.Instrument) error {
	defer m.lock(ctx)()

	m.data.instruments[inst.Kind][inst.ID] = inst
	return nil
}

func (m *MemoryStore) GetInstrument(ctx context.Context, kind models.InstrumentKind, id string) (models.Instrument, error) {
	defer m.lock(ctx)()

	inst, ok := m.data.instruments[kind][id]
	if !ok {
		return models.Instrument{}, storage.ErrNotFound
	}
	return inst, nil
}

func (m *MemoryStore) ListInstruments(ctx context.Context, kind models.InstrumentKind, status models.InstrumentStatus) ([]models.Instrument, error) {
	defer m.lock(ctx)()

	var result []models.Instrument
	for _, inst := range m.data.instruments[kind] {
		if status != "" && inst.Status != status {
			continue
		}
		result = append(result, inst)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].IssueDate.Equal(result[j].IssueDate) {
			return result[i].IssueDate.After(result[j].IssueDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MemoryStore) UpdateInstrument(ctx context.Context, inst models.Instrument) error {
	defer m.lock(ctx)()

	if _, ok := m.data.instruments[inst.Kind][inst.ID]; !ok {
		return storage.ErrNotFound
	}
	m.data.instruments[inst.Kind][inst.ID] = inst
	return nil
}

func (m *MemoryStore) DeleteInstrument(ctx context.Context, kind models.InstrumentKind, id string) error {
	defer m.lock(ctx)()

	if _, ok := m.data.instruments[kind][id]; !ok {
		return storage.ErrNotFound
	}
	m.deleteInstrumentLocked(kind, id)
	return nil
}

// deleteInstrumentLocked removes the instrument and cascades to its payments.
// The caller holds the lock.
func (m *MemoryStore) deleteInstrumentLocked(kind models.InstrumentKind, id string) {
	for paymentID, payment := range m.data.payments[kind] {
		if payment.InstrumentID == id {
			delete(m.data.payments[kind], paymentID)
		}
	}
	delete(m.data.instruments[kind], id)
}

func (m *MemoryStore) CreatePayment(ctx context.Context, payment models.Payment) error {
	defer m.lock(ctx)()

	if _, ok := m.data.instruments[payment.Kind][payment.InstrumentID]; !ok {
		return storage.ErrNotFound
	}
	m.data.payments[payment.Kind][payment.ID] = payment
	return nil
}

func (m *MemoryStore) ListPayments(ctx context.Context, kind models.InstrumentKind, instrumentID string) ([]models.Payment, error) {
	defer m.lock(ctx)()

	var result []models.Payment
	for _, payment := range m.data.payments[kind] {
		if payment.InstrumentID == instrumentID {
			result = append(result, payment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].PaymentDate.Equal(result[j].PaymentDate) {
			return result[i].PaymentDate.After(result[j].PaymentDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
