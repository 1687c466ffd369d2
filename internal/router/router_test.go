package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/category"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/credit"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/eventbus"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/ledger"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage/memory"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/subscription"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := memory.NewMemoryStore()
	logger := zap.NewNop()
	pub := eventbus.NopPublisher{}

	accounts := ledger.NewLedger(store, logger)
	categories := category.NewRegistry(store, logger)
	transactions := transaction.NewEngine(store, accounts, categories, pub, logger)
	scheduler := subscription.NewScheduler(store, accounts, categories, transactions, logger)

	_, err := categories.SeedDefaults(context.Background())
	require.NoError(t, err)

	return SetupRouter(gin.TestMode, Services{
		Ledger:       accounts,
		Categories:   categories,
		Transactions: transactions,
		Loans:        credit.NewLoanEngine(store, accounts, pub, logger),
		Debts:        credit.NewDebtEngine(store, accounts, pub, logger),
		Scheduler:    scheduler,
		Runner:       subscription.NewRunner(scheduler, "@daily", nil, logger),
	}, logger)
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idOnly struct {
	ID string `json:"id"`
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestTransactionFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/accounts", map[string]any{"name": "Cash", "type": "CASH"})
	require.Equal(t, http.StatusCreated, status)
	account := decode[struct {
		ID        string `json:"id"`
		IsDefault bool   `json:"isDefault"`
	}](t, env.Data)
	assert.True(t, account.IsDefault)

	status, env = do(t, r, http.MethodGet, "/api/categories?type=EXPENSE", nil)
	require.Equal(t, http.StatusOK, status)
	cats := decode[[]idOnly](t, env.Data)
	require.NotEmpty(t, cats)

	status, env = do(t, r, http.MethodPost, "/api/transactions", map[string]any{
		"type":       "EXPENSE",
		"amount":     "50",
		"date":       "2024-03-10T12:00:00Z",
		"accountId":  account.ID,
		"categoryId": cats[0].ID,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	tx := decode[idOnly](t, env.Data)

	status, env = do(t, r, http.MethodGet, "/api/accounts/"+account.ID, nil)
	require.Equal(t, http.StatusOK, status)
	balance := decode[struct {
		Balance string `json:"balance"`
	}](t, env.Data)
	assert.Equal(t, "-50", balance.Balance)

	status, env = do(t, r, http.MethodGet, "/api/transactions/summary?startDate=2024-03-01&endDate=2024-03-31", nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[struct {
		TotalExpense     string `json:"totalExpense"`
		TransactionCount int    `json:"transactionCount"`
	}](t, env.Data)
	assert.Equal(t, "50", summary.TotalExpense)
	assert.Equal(t, 1, summary.TransactionCount)

	status, _ = do(t, r, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = do(t, r, http.MethodGet, "/api/transactions/"+tx.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestValidationErrorsMapTo400(t *testing.T) {
	r := newTestRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/transactions", map[string]any{
		"type":       "EXPENSE",
		"amount":     "0",
		"date":       "2024-03-10T12:00:00Z",
		"accountId":  "a",
		"categoryId": "c",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "Transaction amount must be greater than 0", env.Message)

	status, env = do(t, r, http.MethodGet, "/api/transactions?startDate=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoanPaymentsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/accounts", map[string]any{"name": "Cash", "type": "CASH", "balance": "500"})
	account := decode[idOnly](t, env.Data)

	status, env := do(t, r, http.MethodPost, "/api/loans", map[string]any{
		"counterpartyName": "Ana",
		"amount":           "100",
		"issueDate":        "2024-01-10T00:00:00Z",
		"accountId":        account.ID,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	loan := decode[idOnly](t, env.Data)

	status, _ = do(t, r, http.MethodPost, "/api/loans/"+loan.ID+"/payments", map[string]any{"amount": "40"})
	require.Equal(t, http.StatusCreated, status)

	status, env = do(t, r, http.MethodPost, "/api/loans/"+loan.ID+"/payments", map[string]any{"amount": "70"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Payment would exceed loan amount. Remaining: 60", env.Message)

	status, env = do(t, r, http.MethodGet, "/api/loans?status=PARTIAL", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]idOnly](t, env.Data), 1)

	status, env = do(t, r, http.MethodGet, "/api/loans/details", nil)
	require.Equal(t, http.StatusOK, status)
	details := decode[[]struct {
		AccountName        string  `json:"accountName"`
		ProgressPercentage float64 `json:"progressPercentage"`
	}](t, env.Data)
	require.Len(t, details, 1)
	assert.Equal(t, "Cash", details[0].AccountName)
	assert.InDelta(t, 40.0, details[0].ProgressPercentage, 1e-9)

	status, _ = do(t, r, http.MethodGet, "/api/debts/"+loan.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubscriptionRoutes(t *testing.T) {
	r := newTestRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/accounts", map[string]any{"name": "Card", "type": "CARD"})
	account := decode[idOnly](t, env.Data)
	_, env = do(t, r, http.MethodGet, "/api/categories?type=EXPENSE", nil)
	cats := decode[[]idOnly](t, env.Data)

	status, env := do(t, r, http.MethodPost, "/api/subscriptions", map[string]any{
		"name":       "Netflix",
		"amount":     "15",
		"billingDay": 32,
		"accountId":  account.ID,
		"categoryId": cats[0].ID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Billing day must be between 1 and 31", env.Message)

	status, env = do(t, r, http.MethodPost, "/api/subscriptions", map[string]any{
		"name":       "Netflix",
		"amount":     "15",
		"billingDay": 5,
		"accountId":  account.ID,
		"categoryId": cats[0].ID,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	sub := decode[idOnly](t, env.Data)

	status, env = do(t, r, http.MethodGet, "/api/subscriptions/due?day=5", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]idOnly](t, env.Data), 1)

	status, _ = do(t, r, http.MethodPost, "/api/subscriptions/"+sub.ID+"/deactivate", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, r, http.MethodPost, "/api/subscriptions/"+sub.ID+"/process", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot process payment for inactive subscription", env.Message)

	status, _ = do(t, r, http.MethodPost, "/api/subscriptions/"+sub.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, r, http.MethodPost, "/api/subscriptions/"+sub.ID+"/process", nil)
	assert.Equal(t, http.StatusCreated, status)

	status, env = do(t, r, http.MethodGet, "/api/subscriptions/summary", nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[struct {
		TotalMonthly string `json:"totalMonthly"`
		ActiveCount  int    `json:"activeCount"`
	}](t, env.Data)
	assert.Equal(t, "15", summary.TotalMonthly)
	assert.Equal(t, 1, summary.ActiveCount)
}

func TestAccountDefaultRoutes(t *testing.T) {
	r := newTestRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/accounts", map[string]any{"name": "A", "type": "BANK"})
	a := decode[idOnly](t, env.Data)
	_, env = do(t, r, http.MethodPost, "/api/accounts", map[string]any{"name": "B", "type": "BANK"})
	b := decode[idOnly](t, env.Data)

	status, env := do(t, r, http.MethodDelete, "/api/accounts/"+a.ID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "default account")

	status, _ = do(t, r, http.MethodPost, "/api/accounts/"+b.ID+"/default", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, r, http.MethodGet, "/api/accounts/default", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, b.ID, decode[idOnly](t, env.Data).ID)

	status, _ = do(t, r, http.MethodDelete, "/api/accounts/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
}
