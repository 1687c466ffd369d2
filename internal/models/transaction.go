package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction. The amount itself is
// always positive; the sign of its balance effect comes from the type.
type TransactionType string

const (
	TransactionExpense TransactionType = "EXPENSE"
	TransactionIncome  TransactionType = "INCOME"
)

func (t TransactionType) Valid() bool {
	return t == TransactionExpense || t == TransactionIncome
}

// SignedEffect returns the delta a transaction of this type and amount applies
// to its account balance.
func (t TransactionType) SignedEffect(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionIncome {
		return amount
	}
	return amount.Neg()
}

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	SourceManual       TransactionSource = "MANUAL"
	SourceVoice        TransactionSource = "VOICE"
	SourceSubscription TransactionSource = "SUBSCRIPTION"
	SourceAutoFill     TransactionSource = "AUTO_FILL"
)

func (s TransactionSource) Valid() bool {
	switch s {
	case SourceManual, SourceVoice, SourceSubscription, SourceAutoFill:
		return true
	}
	return false
}

// Transaction is a single income or expense event against an account.
type Transaction struct {
	ID             string            `json:"id"`
	Type           TransactionType   `json:"type"`
	Amount         decimal.Decimal   `json:"amount"` // always > 0
	Description    *string           `json:"description,omitempty"`
	Date           time.Time         `json:"date"`
	Source         TransactionSource `json:"source"`
	AccountID      string            `json:"accountId"`
	CategoryID     string            `json:"categoryId"`
	SubscriptionID *string           `json:"subscriptionId,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Effect is the signed balance delta this transaction applies to its account.
func (t Transaction) Effect() decimal.Decimal {
	return t.Type.SignedEffect(t.Amount)
}

// TransactionWithRelations joins the names needed to render a transaction.
type TransactionWithRelations struct {
	Transaction
	AccountName   string `json:"accountName"`
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
}

type CreateTransactionInput struct {
	Type           TransactionType   `json:"type" validate:"oneof=EXPENSE INCOME"`
	Amount         decimal.Decimal   `json:"amount" validate:"positive_decimal"`
	Description    *string           `json:"description"`
	Date           time.Time         `json:"date" validate:"required"`
	Source         TransactionSource `json:"source" validate:"omitempty,oneof=MANUAL VOICE SUBSCRIPTION AUTO_FILL"` // MANUAL when empty
	AccountID      string            `json:"accountId" validate:"required"`
	CategoryID     string            `json:"categoryId" validate:"required"`
	SubscriptionID *string           `json:"subscriptionId"`
}

// UpdateTransactionInput is a patch; nil fields keep their current value.
type UpdateTransactionInput struct {
	Type        *TransactionType `json:"type" validate:"omitnil,oneof=EXPENSE INCOME"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitnil,positive_decimal"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date" validate:"omitnil,nonzero"`
	AccountID   *string          `json:"accountId"`
	CategoryID  *string          `json:"categoryId"`
}

// TransactionFilter narrows a transaction query. Zero values do not filter.
// Date bounds are inclusive.
type TransactionFilter struct {
	AccountID      string
	CategoryID     string
	SubscriptionID string
	Type           TransactionType
	StartDate      *time.Time
	EndDate        *time.Time
	MinAmount      decimal.NullDecimal
	MaxAmount      decimal.NullDecimal
}

// Match reports whether t satisfies every set criterion of f.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.SubscriptionID != "" && (t.SubscriptionID == nil || *t.SubscriptionID != f.SubscriptionID) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount.Valid && t.Amount.LessThan(f.MinAmount.Decimal) {
		return false
	}
	if f.MaxAmount.Valid && t.Amount.GreaterThan(f.MaxAmount.Decimal) {
		return false
	}
	return true
}

type TransactionSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	TransactionCount int             `json:"transactionCount"`
}

// CategorySummary is one row of the expenses-by-category breakdown.
type CategorySummary struct {
	CategoryID       string          `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	CategoryIcon     string          `json:"categoryIcon"`
	CategoryColor    string          `json:"categoryColor"`
	Total            decimal.Decimal `json:"total"`
	Percentage       float64         `json:"percentage"`
	TransactionCount int             `json:"transactionCount"`
}
