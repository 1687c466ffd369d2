package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// respondError maps the application error taxonomy onto HTTP statuses.
// Storage failures are reported without their cause.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		notFound     *apperrors.NotFoundError
		validation   *apperrors.ValidationError
		insufficient *apperrors.InsufficientBalanceError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, errorResponse{Code: notFound.Code(), Message: notFound.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse{Code: validation.Code(), Message: validation.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, errorResponse{Code: insufficient.Code(), Message: insufficient.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Code: apperrors.CodeDatabase, Message: "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: apperrors.CodeValidation, Message: message})
}

// bindJSON decodes the request body into dst and answers 400 on failure.
// Field rules use `validate` tags, which gin's `binding` validator ignores;
// the engines run them.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

const dateLayout = "2006-01-02"

// timeQuery parses an optional RFC 3339 or YYYY-MM-DD query parameter.
// A bare date used as an upper bound is moved to the end of that day.
func timeQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		badRequest(c, "invalid "+name+": expected RFC 3339 or YYYY-MM-DD")
		return nil, false
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return &t, true
}

// rangeQuery reads the startDate and endDate query parameters.
func rangeQuery(c *gin.Context) (*time.Time, *time.Time, bool) {
	start, ok := timeQuery(c, "startDate", false)
	if !ok {
		return nil, nil, false
	}
	end, ok := timeQuery(c, "endDate", true)
	if !ok {
		return nil, nil, false
	}
	return start, end, true
}
