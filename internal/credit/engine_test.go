package credit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/eventbus"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/ledger"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	ledger  *ledger.Ledger
	loans   *Engine
	debts   *Engine
	account models.Account
}

func newFixture(t *testing.T, opening int64) *fixture {
	t.Helper()
	store := memory.NewMemoryStore()
	l := ledger.NewLedger(store, zap.NewNop())
	account, err := l.Create(context.Background(), models.CreateAccountInput{
		Name:    "Cash",
		Type:    models.AccountCash,
		Balance: decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
	return &fixture{
		ledger:  l,
		loans:   NewLoanEngine(store, l, eventbus.NopPublisher{}, zap.NewNop()),
		debts:   NewDebtEngine(store, l, eventbus.NopPublisher{}, zap.NewNop()),
		account: account,
	}
}

func (f *fixture) balance(t *testing.T) string {
	t.Helper()
	a, err := f.ledger.Get(context.Background(), f.account.ID)
	require.NoError(t, err)
	return a.Balance.String()
}

func (f *fixture) open(t *testing.T, e *Engine, amount int64) models.Instrument {
	t.Helper()
	inst, err := e.Create(context.Background(), models.CreateInstrumentInput{
		CounterpartyName: "Ana",
		Amount:           decimal.NewFromInt(amount),
		IssueDate:        time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		AccountID:        f.account.ID,
	})
	require.NoError(t, err)
	return inst
}

func pay(e *Engine, id string, amount int64) (models.Payment, error) {
	return e.RecordPayment(context.Background(), models.CreatePaymentInput{
		InstrumentID: id,
		Amount:       decimal.NewFromInt(amount),
	})
}

func TestLoanScenario(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()

	loan := f.open(t, f.loans, 100)
	assert.Equal(t, models.StatusPending, loan.Status)
	assert.Equal(t, models.KindLoan, loan.Kind)
	assert.True(t, loan.PaidAmount.IsZero())
	assert.Equal(t, "400", f.balance(t))

	_, err := pay(f.loans, loan.ID, 40)
	require.NoError(t, err)
	got, err := f.loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, got.Status)
	assert.Equal(t, "40", got.PaidAmount.String())
	assert.Equal(t, "440", f.balance(t))

	_, err = pay(f.loans, loan.ID, 60)
	require.NoError(t, err)
	got, err = f.loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, got.Status)
	assert.Equal(t, "100", got.PaidAmount.String())
	assert.Equal(t, "500", f.balance(t))

	_, err = pay(f.loans, loan.ID, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Loan is already fully paid", err.Error())

	payments, err := f.loans.GetPayments(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestDebtRoundTrip(t *testing.T) {
	f := newFixture(t, 0)

	debt := f.open(t, f.debts, 250)
	assert.Equal(t, "250", f.balance(t))

	_, err := pay(f.debts, debt.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "150", f.balance(t))

	_, err = pay(f.debts, debt.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, "0", f.balance(t))

	_, err = pay(f.debts, debt.ID, 5)
	assert.EqualError(t, err, "Debt is already fully paid")
}

func TestOverpaymentLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	loan := f.open(t, f.loans, 300)
	_, err := pay(f.loans, loan.ID, 100)
	require.NoError(t, err)
	before := f.balance(t)

	_, err = pay(f.loans, loan.ID, 250)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Payment would exceed loan amount. Remaining: 200", err.Error())

	got, err := f.loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.PaidAmount.String())
	assert.Equal(t, models.StatusPartial, got.Status)
	assert.Equal(t, before, f.balance(t))

	payments, err := f.loans.GetPayments(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t, 0)
	loan := f.open(t, f.loans, 100)

	_, err := pay(f.loans, loan.ID, 0)
	assert.EqualError(t, err, "Payment amount must be greater than 0")

	_, err = pay(f.loans, "missing", 10)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "Loan with id 'missing' not found")

	_, err = pay(f.debts, loan.ID, 10)
	assert.True(t, apperrors.IsNotFound(err), "a loan id is not a debt id")
}

func TestStatusIsMonotonic(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	debt := f.open(t, f.debts, 90)

	rank := map[models.InstrumentStatus]int{models.StatusPending: 0, models.StatusPartial: 1, models.StatusPaid: 2}
	last := rank[debt.Status]
	for _, amount := range []int64{30, 0, 100, 30, 30, 5} {
		_, _ = pay(f.debts, debt.ID, amount)
		got, err := f.debts.Get(ctx, debt.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[got.Status], last)
		last = rank[got.Status]
	}
	assert.Equal(t, 2, last)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, 0)
	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		engine  *Engine
		in      models.CreateInstrumentInput
		wantErr string
	}{
		{"loan without borrower", f.loans, models.CreateInstrumentInput{Amount: decimal.NewFromInt(1), IssueDate: date, AccountID: f.account.ID}, "Borrower name is required"},
		{"debt without lender", f.debts, models.CreateInstrumentInput{Amount: decimal.NewFromInt(1), IssueDate: date, AccountID: f.account.ID}, "Lender name is required"},
		{"zero loan", f.loans, models.CreateInstrumentInput{CounterpartyName: "x", IssueDate: date, AccountID: f.account.ID}, "Loan amount must be greater than 0"},
		{"debt without date", f.debts, models.CreateInstrumentInput{CounterpartyName: "x", Amount: decimal.NewFromInt(1), AccountID: f.account.ID}, "Debt date is required"},
		{"missing account", f.loans, models.CreateInstrumentInput{CounterpartyName: "x", Amount: decimal.NewFromInt(1), IssueDate: date}, "Account is required"},
		{"unknown account", f.loans, models.CreateInstrumentInput{CounterpartyName: "x", Amount: decimal.NewFromInt(1), IssueDate: date, AccountID: "nope"}, "Account with id 'nope' not found"},
		{"bad type", f.debts, models.CreateInstrumentInput{CounterpartyName: "x", Amount: decimal.NewFromInt(1), IssueDate: date, AccountID: f.account.ID, Type: "CRYPTO"}, "Invalid debt type 'CRYPTO'"},
		{"negative interest", f.loans, models.CreateInstrumentInput{CounterpartyName: "x", Amount: decimal.NewFromInt(1), IssueDate: date, AccountID: f.account.ID, InterestRate: decimal.NewNullDecimal(decimal.NewFromInt(-2))}, "Interest rate cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.engine.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
	assert.Equal(t, "0", f.balance(t))
}

func TestSummaryAndDetails(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	a := f.open(t, f.loans, 100)
	b := f.open(t, f.loans, 200)
	f.open(t, f.loans, 50)
	_, err := pay(f.loans, a.ID, 100)
	require.NoError(t, err)
	_, err = pay(f.loans, b.ID, 50)
	require.NoError(t, err)

	summary, err := f.loans.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "350", summary.TotalAmount.String())
	assert.Equal(t, "150", summary.TotalPaid.String())
	assert.Equal(t, "200", summary.TotalPending.String())
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 1, summary.PartialCount)
	assert.Equal(t, 1, summary.PaidCount)

	details, err := f.loans.GetAllWithDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 3)
	byID := map[string]models.InstrumentWithDetails{}
	for _, d := range details {
		assert.Equal(t, "Cash", d.AccountName)
		byID[d.ID] = d
	}
	assert.InDelta(t, 100.0, byID[a.ID].ProgressPercentage, 1e-9)
	assert.InDelta(t, 25.0, byID[b.ID].ProgressPercentage, 1e-9)
	assert.Equal(t, "150", byID[b.ID].RemainingAmount.String())

	pending, err := f.loans.GetPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	partial, err := f.loans.GetPartial(ctx)
	require.NoError(t, err)
	assert.Len(t, partial, 1)
	paid, err := f.loans.GetPaid(ctx)
	require.NoError(t, err)
	assert.Len(t, paid, 1)

	debts, err := f.debts.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestProgressOfZeroPrincipal(t *testing.T) {
	assert.Zero(t, Progress(models.Instrument{}))
}

func TestUpdatePatchesInformationalFields(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	loan := f.open(t, f.loans, 100)

	name := "Bruno"
	rate := decimal.RequireFromString("2.5")
	bank := models.InstrumentBank
	updated, err := f.loans.Update(ctx, loan.ID, models.UpdateInstrumentInput{CounterpartyName: &name, InterestRate: &rate, Type: &bank})
	require.NoError(t, err)
	assert.Equal(t, "Bruno", updated.CounterpartyName)
	assert.Equal(t, "2.5", updated.InterestRate.Decimal.String())
	assert.Equal(t, models.InstrumentBank, updated.Type)
	assert.Equal(t, "100", updated.Amount.String())
	assert.Equal(t, models.StatusPending, updated.Status)

	blank := " "
	_, err = f.loans.Update(ctx, loan.ID, models.UpdateInstrumentInput{CounterpartyName: &blank})
	assert.EqualError(t, err, "Borrower name is required")

	negative := decimal.NewFromInt(-1)
	_, err = f.loans.Update(ctx, loan.ID, models.UpdateInstrumentInput{InterestRate: &negative})
	require.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Interest rate cannot be negative")

	crypto := models.InstrumentType("CRYPTO")
	_, err = f.loans.Update(ctx, loan.ID, models.UpdateInstrumentInput{Type: &crypto})
	assert.EqualError(t, err, "Invalid loan type 'CRYPTO'")

	var zero time.Time
	_, err = f.loans.Update(ctx, loan.ID, models.UpdateInstrumentInput{IssueDate: &zero})
	assert.EqualError(t, err, "Loan date is required")

	got, err := f.loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.5", got.InterestRate.Decimal.String())
	assert.Equal(t, models.InstrumentBank, got.Type)
}

func TestDeleteReversesOutstandingEffect(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	loan := f.open(t, f.loans, 300)
	_, err := pay(f.loans, loan.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "800", f.balance(t))

	require.NoError(t, f.loans.Delete(ctx, loan.ID))
	assert.Equal(t, "1000", f.balance(t))
	_, err = f.loans.Get(ctx, loan.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = f.loans.GetPayments(ctx, loan.ID)
	assert.True(t, apperrors.IsNotFound(err))

	debt := f.open(t, f.debts, 400)
	assert.Equal(t, "1400", f.balance(t))
	require.NoError(t, f.debts.Delete(ctx, debt.ID))
	assert.Equal(t, "1000", f.balance(t))
}

func TestConcurrentPaymentsNeverOverpay(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()
	loan := f.open(t, f.loans, 100)

	const workers = 50
	var succeeded, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pay(f.loans, loan.ID, 10)
			switch {
			case err == nil:
				succeeded.Add(1)
			case apperrors.IsValidation(err):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, succeeded.Load())
	assert.EqualValues(t, workers-10, rejected.Load())

	got, err := f.loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, got.Status)
	assert.Equal(t, "100", got.PaidAmount.String())
	assert.Equal(t, "500", f.balance(t))

	payments, err := f.loans.GetPayments(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 10)
}
