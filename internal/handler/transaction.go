package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/transaction"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	engine *transaction.Engine
}

func NewTransactionHandler(e *transaction.Engine) *TransactionHandler {
	return &TransactionHandler{engine: e}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var in models.CreateTransactionInput
	if !bindJSON(c, &in) {
		return
	}
	tx, err := h.engine.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tx)
}

// List applies the optional accountId, categoryId, subscriptionId, type,
// startDate, endDate, minAmount and maxAmount query filters.
func (h *TransactionHandler) List(c *gin.Context) {
	filter, ok := filterQuery(c)
	if !ok {
		return
	}
	txs, err := h.engine.GetFiltered(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, txs)
}

// Details is List with the account and category names joined in.
func (h *TransactionHandler) Details(c *gin.Context) {
	filter, ok := filterQuery(c)
	if !ok {
		return
	}
	txs, err := h.engine.GetAllWithRelations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, txs)
}

func (h *TransactionHandler) ThisMonth(c *gin.Context) {
	txs, err := h.engine.GetThisMonth(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, txs)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tx)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	var in models.UpdateTransactionInput
	if !bindJSON(c, &in) {
		return
	}
	tx, err := h.engine.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary covers the current month unless startDate or endDate is given.
func (h *TransactionHandler) Summary(c *gin.Context) {
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}
	summary, err := h.engine.GetSummary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func (h *TransactionHandler) ExpensesByCategory(c *gin.Context) {
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}
	rows, err := h.engine.GetExpensesByCategory(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, rows)
}

func filterQuery(c *gin.Context) (models.TransactionFilter, bool) {
	filter := models.TransactionFilter{
		AccountID:      c.Query("accountId"),
		CategoryID:     c.Query("categoryId"),
		SubscriptionID: c.Query("subscriptionId"),
		Type:           models.TransactionType(c.Query("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		badRequest(c, "invalid type: expected INCOME or EXPENSE")
		return filter, false
	}

	var ok bool
	if filter.StartDate, filter.EndDate, ok = rangeQuery(c); !ok {
		return filter, false
	}
	if filter.MinAmount, ok = amountQuery(c, "minAmount"); !ok {
		return filter, false
	}
	if filter.MaxAmount, ok = amountQuery(c, "maxAmount"); !ok {
		return filter, false
	}
	return filter, true
}

func amountQuery(c *gin.Context, name string) (decimal.NullDecimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		badRequest(c, "invalid "+name+": "+err.Error())
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}
