package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, m *MemoryStore) (models.Account, models.Category) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	account := models.Account{ID: "acc-1", Name: "Cash", Type: models.AccountCash, Balance: decimal.NewFromInt(100), IsDefault: true, CreatedAt: now}
	category := models.Category{ID: "cat-1", Name: "Food", Type: models.CategoryExpense, CreatedAt: now}
	require.NoError(t, m.CreateAccount(ctx, account))
	require.NoError(t, m.CreateCategory(ctx, category))
	return account, category
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	m := NewMemoryStore()
	account, _ := seed(t, m)
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.WithinTx(ctx, func(ctx context.Context) error {
		_, err := m.AddToBalance(ctx, account.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, m.CreateCategory(ctx, models.Category{ID: "cat-2", Name: "Rent"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	_, err = m.GetCategory(ctx, "cat-2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	m := NewMemoryStore()
	account, _ := seed(t, m)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = m.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = m.AddToBalance(ctx, account.ID, decimal.NewFromInt(-30))
			panic("unexpected")
		})
	})

	got, err := m.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestWithinTxNestedJoinsOuter(t *testing.T) {
	m := NewMemoryStore()
	account, _ := seed(t, m)
	ctx := context.Background()
	boom := errors.New("outer failed")

	err := m.WithinTx(ctx, func(ctx context.Context) error {
		inner := m.WithinTx(ctx, func(ctx context.Context) error {
			_, err := m.AddToBalance(ctx, account.ID, decimal.NewFromInt(10))
			return err
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)), "inner writes are discarded with the outer unit")
}

func TestDeleteAccountCascades(t *testing.T) {
	m := NewMemoryStore()
	account, category := seed(t, m)
	ctx := context.Background()

	require.NoError(t, m.CreateTransaction(ctx, models.Transaction{ID: "tx-1", AccountID: account.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(5), Type: models.TransactionExpense}))
	require.NoError(t, m.CreateSubscription(ctx, models.Subscription{ID: "sub-1", AccountID: account.ID, CategoryID: category.ID}))
	require.NoError(t, m.CreateInstrument(ctx, models.Instrument{ID: "loan-1", Kind: models.KindLoan, AccountID: account.ID}))
	require.NoError(t, m.CreatePayment(ctx, models.Payment{ID: "pay-1", Kind: models.KindLoan, InstrumentID: "loan-1"}))
	require.NoError(t, m.CreateInstrument(ctx, models.Instrument{ID: "debt-1", Kind: models.KindDebt, AccountID: account.ID}))

	require.NoError(t, m.DeleteAccount(ctx, account.ID))

	_, err := m.GetTransaction(ctx, "tx-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = m.GetSubscription(ctx, "sub-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = m.GetInstrument(ctx, models.KindLoan, "loan-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = m.GetInstrument(ctx, models.KindDebt, "debt-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	payments, err := m.ListPayments(ctx, models.KindLoan, "loan-1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestDeleteCategoryRestrictedWhileReferenced(t *testing.T) {
	m := NewMemoryStore()
	account, category := seed(t, m)
	ctx := context.Background()

	require.NoError(t, m.CreateTransaction(ctx, models.Transaction{ID: "tx-1", AccountID: account.ID, CategoryID: category.ID}))
	assert.ErrorIs(t, m.DeleteCategory(ctx, category.ID), storage.ErrReferenced)

	require.NoError(t, m.DeleteTransaction(ctx, "tx-1"))
	require.NoError(t, m.CreateSubscription(ctx, models.Subscription{ID: "sub-1", AccountID: account.ID, CategoryID: category.ID}))
	assert.ErrorIs(t, m.DeleteCategory(ctx, category.ID), storage.ErrReferenced)

	require.NoError(t, m.DeleteSubscription(ctx, "sub-1"))
	assert.NoError(t, m.DeleteCategory(ctx, category.ID))
}

func TestDeleteSubscriptionDetachesTransactions(t *testing.T) {
	m := NewMemoryStore()
	account, category := seed(t, m)
	ctx := context.Background()
	subID := "sub-1"

	require.NoError(t, m.CreateSubscription(ctx, models.Subscription{ID: subID, AccountID: account.ID, CategoryID: category.ID}))
	require.NoError(t, m.CreateTransaction(ctx, models.Transaction{ID: "tx-1", AccountID: account.ID, CategoryID: category.ID, SubscriptionID: &subID}))

	require.NoError(t, m.DeleteSubscription(ctx, subID))

	tx, err := m.GetTransaction(ctx, "tx-1")
	require.NoError(t, err)
	assert.Nil(t, tx.SubscriptionID)
}

func TestListTransactionsFilterAndOrder(t *testing.T) {
	m := NewMemoryStore()
	account, category := seed(t, m)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC) }

	for i, tx := range []models.Transaction{
		{ID: "a", Type: models.TransactionExpense, Amount: decimal.NewFromInt(10), Date: day(1)},
		{ID: "b", Type: models.TransactionIncome, Amount: decimal.NewFromInt(500), Date: day(15)},
		{ID: "c", Type: models.TransactionExpense, Amount: decimal.NewFromInt(40), Date: day(31)},
	} {
		tx.AccountID, tx.CategoryID = account.ID, category.ID
		tx.CreatedAt = day(1).Add(time.Duration(i) * time.Minute)
		require.NoError(t, m.CreateTransaction(ctx, tx))
	}

	all, err := m.ListTransactions(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	start, end := day(1), day(15)
	ranged, err := m.ListTransactions(ctx, models.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2, "bounds are inclusive")

	expenses, err := m.SumTransactions(ctx, models.TransactionExpense, nil, nil)
	require.NoError(t, err)
	assert.True(t, expenses.Equal(decimal.NewFromInt(50)))

	big, err := m.ListTransactions(ctx, models.TransactionFilter{MinAmount: decimal.NewNullDecimal(decimal.NewFromInt(20))})
	require.NoError(t, err)
	assert.Len(t, big, 2)
}

func TestSingleDefaultHelpers(t *testing.T) {
	m := NewMemoryStore()
	seed(t, m)
	ctx := context.Background()

	require.NoError(t, m.ClearDefaultAccount(ctx))
	_, err := m.GetDefaultAccount(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.AddToBalance(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
