package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge. It never holds a balance; each billing
// event is materialised as an EXPENSE transaction.
type Subscription struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	BillingDay int             `json:"billingDay"` // 1..31
	IsActive   bool            `json:"isActive"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    *time.Time      `json:"endDate,omitempty"`
	AccountID  string          `json:"accountId"`
	CategoryID string          `json:"categoryId"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// InWindow reports whether day falls between the start date and the optional
// end date, compared by calendar day in day's location.
func (s Subscription) InWindow(day time.Time) bool {
	y, m, d := day.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	sy, sm, sd := s.StartDate.In(day.Location()).Date()
	if today.Before(time.Date(sy, sm, sd, 0, 0, 0, 0, day.Location())) {
		return false
	}
	if s.EndDate != nil {
		ey, em, ed := s.EndDate.In(day.Location()).Date()
		if today.After(time.Date(ey, em, ed, 0, 0, 0, 0, day.Location())) {
			return false
		}
	}
	return true
}

type SubscriptionWithRelations struct {
	Subscription
	AccountName  string `json:"accountName"`
	CategoryName string `json:"categoryName"`
	CategoryIcon string `json:"categoryIcon"`
}

// CreateSubscriptionInput fields are declared in the order their rules are
// reported.
type CreateSubscriptionInput struct {
	Name       string          `json:"name" validate:"notblank"`
	Amount     decimal.Decimal `json:"amount" validate:"positive_decimal"`
	BillingDay int             `json:"billingDay" validate:"min=1,max=31"`
	AccountID  string          `json:"accountId" validate:"required"`
	CategoryID string          `json:"categoryId" validate:"required"`
	EndDate    *time.Time      `json:"endDate" validate:"omitnil,gtefield=StartDate"`
	StartDate  time.Time       `json:"startDate"` // now when zero
	Currency   string          `json:"currency"`
	IsActive   *bool           `json:"isActive"` // true when nil
}

type UpdateSubscriptionInput struct {
	Name       *string          `json:"name" validate:"omitnil,notblank"`
	Amount     *decimal.Decimal `json:"amount" validate:"omitnil,positive_decimal"`
	Currency   *string          `json:"currency"`
	BillingDay *int             `json:"billingDay" validate:"omitnil,min=1,max=31"`
	IsActive   *bool            `json:"isActive"`
	StartDate  *time.Time       `json:"startDate"`
	EndDate    *time.Time       `json:"endDate"`
	AccountID  *string          `json:"accountId"`
	CategoryID *string          `json:"categoryId"`
}

type SubscriptionSummary struct {
	TotalMonthly  decimal.Decimal `json:"totalMonthly"`
	ActiveCount   int             `json:"activeCount"`
	InactiveCount int             `json:"inactiveCount"`
}
