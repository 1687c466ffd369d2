package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

// MemoryStore is an in-memory implementation of interfaces.Store.
// Every call is serialised by a single mutex; WithinTx holds that mutex for
// the whole unit of work and restores a snapshot when the unit fails.
type MemoryStore struct {
	mu   sync.Mutex // protects data
	data *dataset
}

type dataset struct {
	accounts      map[string]models.Account
	categories    map[string]models.Category
	transactions  map[string]models.Transaction
	subscriptions map[string]models.Subscription
	instruments   map[models.InstrumentKind]map[string]models.Instrument
	payments      map[models.InstrumentKind]map[string]models.Payment
}

func newDataset() *dataset {
	return &dataset{
		accounts:      make(map[string]models.Account),
		categories:    make(map[string]models.Category),
		transactions:  make(map[string]models.Transaction),
		subscriptions: make(map[string]models.Subscription),
		instruments: map[models.InstrumentKind]map[string]models.Instrument{
			models.KindLoan: {},
			models.KindDebt: {},
		},
		payments: map[models.InstrumentKind]map[string]models.Payment{
			models.KindLoan: {},
			models.KindDebt: {},
		},
	}
}

// clone copies every table. Records are stored by value and replaced as a
// whole on update, so copying the maps is enough.
func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.subscriptions {
		c.subscriptions[k] = v
	}
	for kind, rows := range d.instruments {
		for k, v := range rows {
			c.instruments[kind][k] = v
		}
	}
	for kind, rows := range d.payments {
		for k, v := range rows {
			c.payments[kind][k] = v
		}
	}
	return c
}

// NewMemoryStore creates and returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newDataset()}
}

type txKey struct{}

func (m *MemoryStore) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*MemoryStore)
	return owner == m
}

// lock takes the store mutex unless ctx belongs to a unit of work that
// already holds it.
func (m *MemoryStore) lock(ctx context.Context) func() {
	if m.inTx(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// WithinTx implements interfaces.TxManager.
func (m *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	defer func() {
		if r := recover(); r != nil {
			m.data = snapshot
			panic(r)
		}
		if err != nil {
			m.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, m))
}

// Compile-time check: ensure MemoryStore implements the Store interface
var _ interfaces.Store = (*MemoryStore)(nil)
