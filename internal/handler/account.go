package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/ledger"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

type AccountHandler struct {
	ledger *ledger.Ledger
}

func NewAccountHandler(l *ledger.Ledger) *AccountHandler {
	return &AccountHandler{ledger: l}
}

func (h *AccountHandler) Create(c *gin.Context) {
	var in models.CreateAccountInput
	if !bindJSON(c, &in) {
		return
	}
	account, err := h.ledger.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, account)
}

func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.ledger.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, accounts)
}

func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.ledger.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account)
}

func (h *AccountHandler) GetDefault(c *gin.Context) {
	account, err := h.ledger.GetDefault(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account)
}

func (h *AccountHandler) Summary(c *gin.Context) {
	summary, err := h.ledger.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func (h *AccountHandler) Update(c *gin.Context) {
	var in models.UpdateAccountInput
	if !bindJSON(c, &in) {
		return
	}
	account, err := h.ledger.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account)
}

func (h *AccountHandler) SetDefault(c *gin.Context) {
	account, err := h.ledger.SetDefault(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
