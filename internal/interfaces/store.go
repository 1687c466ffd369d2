package interfaces

import (
	"context"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// TxManager runs fn inside one atomic unit of work. The context handed to fn
// carries the transaction; store calls made with it join the unit. Calling
// WithinTx again with that context joins the outer unit instead of nesting.
// If fn returns an error every write made through the context is discarded.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Lookups return storage.ErrNotFound when the id does not exist.

type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, id string) (models.Account, error)
	GetDefaultAccount(ctx context.Context) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error) // oldest first
	CountAccounts(ctx context.Context) (int, error)
	UpdateAccount(ctx context.Context, account models.Account) error
	// DeleteAccount cascades to the account's transactions, subscriptions,
	// loans and debts.
	DeleteAccount(ctx context.Context, id string) error
	ClearDefaultAccount(ctx context.Context) error
	// AddToBalance atomically increments the balance by delta and returns the
	// updated account.
	AddToBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category models.Category) error
	GetCategory(ctx context.Context, id string) (models.Category, error)
	// ListCategories returns categories of any of the given types, or all of
	// them when no type is given, ordered by name.
	ListCategories(ctx context.Context, types ...models.CategoryType) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category models.Category) error
	// DeleteCategory returns storage.ErrReferenced while a transaction or a
	// subscription still points at the category.
	DeleteCategory(ctx context.Context, id string) error
	CategoryExists(ctx context.Context, id string) (bool, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	// GetTransaction locks the row when called inside a unit of work.
	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	// ListTransactions returns matching rows, newest date first.
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	SumTransactions(ctx context.Context, typ models.TransactionType, start, end *time.Time) (decimal.Decimal, error)
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	GetSubscription(ctx context.Context, id string) (models.Subscription, error)
	ListSubscriptions(ctx context.Context, activeOnly bool) ([]models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	// DeleteSubscription nulls the subscription id of the transactions it produced.
	DeleteSubscription(ctx context.Context, id string) error
}

type InstrumentStore interface {
	CreateInstrument(ctx context.Context, inst models.Instrument) error
	// GetInstrument locks the row when called inside a unit of work.
	GetInstrument(ctx context.Context, kind models.InstrumentKind, id string) (models.Instrument, error)
	// ListInstruments returns instruments of kind, newest issue date first,
	// optionally restricted to one status.
	ListInstruments(ctx context.Context, kind models.InstrumentKind, status models.InstrumentStatus) ([]models.Instrument, error)
	UpdateInstrument(ctx context.Context, inst models.Instrument) error
	// DeleteInstrument cascades to the instrument's payments.
	DeleteInstrument(ctx context.Context, kind models.InstrumentKind, id string) error
	CreatePayment(ctx context.Context, payment models.Payment) error
	// ListPayments returns payments newest first.
	ListPayments(ctx context.Context, kind models.InstrumentKind, instrumentID string) ([]models.Payment, error)
}

// Store is the full record store the engines are built on.
type Store interface {
	TxManager
	AccountStore
	CategoryStore
	TransactionStore
	SubscriptionStore
	InstrumentStore
}
