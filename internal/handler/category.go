package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/category"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

type CategoryHandler struct {
	registry *category.Registry
}

func NewCategoryHandler(r *category.Registry) *CategoryHandler {
	return &CategoryHandler{registry: r}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CreateCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	// system categories are only created by the seed
	in.IsSystem = false
	cat, err := h.registry.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cat)
}

// List returns all categories, or those usable for ?type=EXPENSE|INCOME|BOTH.
func (h *CategoryHandler) List(c *gin.Context) {
	var (
		list []models.Category
		err  error
	)
	if t := c.Query("type"); t != "" {
		list, err = h.registry.GetByType(c.Request.Context(), models.CategoryType(t))
	} else {
		list, err = h.registry.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var in models.UpdateCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.registry.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
