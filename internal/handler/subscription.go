package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/subscription"
)

type SubscriptionHandler struct {
	scheduler *subscription.Scheduler
	runner    *subscription.Runner
}

// NewSubscriptionHandler wires the scheduler; runner may be nil, in which case
// the batch endpoint answers 503.
func NewSubscriptionHandler(s *subscription.Scheduler, r *subscription.Runner) *SubscriptionHandler {
	return &SubscriptionHandler{scheduler: s, runner: r}
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var in models.CreateSubscriptionInput
	if !bindJSON(c, &in) {
		return
	}
	sub, err := h.scheduler.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, sub)
}

// List accepts ?active=true.
func (h *SubscriptionHandler) List(c *gin.Context) {
	var (
		subs []models.Subscription
		err  error
	)
	if c.Query("active") == "true" {
		subs, err = h.scheduler.GetActive(c.Request.Context())
	} else {
		subs, err = h.scheduler.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Details(c *gin.Context) {
	subs, err := h.scheduler.GetAllWithRelations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Summary(c *gin.Context) {
	summary, err := h.scheduler.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// Due lists the subscriptions billed on ?day=N, or today when day is absent.
func (h *SubscriptionHandler) Due(c *gin.Context) {
	var (
		subs []models.Subscription
		err  error
	)
	if raw := c.Query("day"); raw != "" {
		day, convErr := strconv.Atoi(raw)
		if convErr != nil {
			badRequest(c, "invalid day: "+raw)
			return
		}
		subs, err = h.scheduler.GetDueOn(c.Request.Context(), day)
	} else {
		subs, err = h.scheduler.GetDueToday(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.scheduler.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	var in models.UpdateSubscriptionInput
	if !bindJSON(c, &in) {
		return
	}
	sub, err := h.scheduler.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	if err := h.scheduler.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) Activate(c *gin.Context) {
	sub, err := h.scheduler.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	sub, err := h.scheduler.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Process(c *gin.Context) {
	tx, err := h.scheduler.ProcessPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tx)
}

// ProcessDue runs the daily billing pass immediately.
func (h *SubscriptionHandler) ProcessDue(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Code: "UNAVAILABLE", Message: "subscription runner is disabled"})
		return
	}
	report, err := h.runner.RunNow(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
	}
	respond(c, http.StatusOK, gin.H{
		"day":       report.Day,
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	})
}
