package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/credit"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

// InstrumentHandler serves either the loan or the debt engine; the routes are
// the same for both.
type InstrumentHandler struct {
	engine *credit.Engine
}

func NewInstrumentHandler(e *credit.Engine) *InstrumentHandler {
	return &InstrumentHandler{engine: e}
}

func (h *InstrumentHandler) Create(c *gin.Context) {
	var in models.CreateInstrumentInput
	if !bindJSON(c, &in) {
		return
	}
	inst, err := h.engine.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, inst)
}

// List accepts ?status=PENDING|PARTIAL|PAID.
func (h *InstrumentHandler) List(c *gin.Context) {
	list, err := h.engine.GetByStatus(c.Request.Context(), models.InstrumentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *InstrumentHandler) Details(c *gin.Context) {
	list, err := h.engine.GetAllWithDetails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *InstrumentHandler) Summary(c *gin.Context) {
	summary, err := h.engine.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func (h *InstrumentHandler) Get(c *gin.Context) {
	inst, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, inst)
}

func (h *InstrumentHandler) Update(c *gin.Context) {
	var in models.UpdateInstrumentInput
	if !bindJSON(c, &in) {
		return
	}
	inst, err := h.engine.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, inst)
}

func (h *InstrumentHandler) Delete(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InstrumentHandler) RecordPayment(c *gin.Context) {
	var in models.CreatePaymentInput
	if !bindJSON(c, &in) {
		return
	}
	in.InstrumentID = c.Param("id")
	payment, err := h.engine.RecordPayment(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, payment)
}

func (h *InstrumentHandler) Payments(c *gin.Context) {
	payments, err := h.engine.GetPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, payments)
}
