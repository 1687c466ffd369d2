package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies where the money of an account is held.
type AccountType string

const (
	AccountBank  AccountType = "BANK"
	AccountCash  AccountType = "CASH"
	AccountCard  AccountType = "CARD"
	AccountOther AccountType = "OTHER"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountBank, AccountCash, AccountCard, AccountOther:
		return true
	}
	return false
}

// DefaultCurrency is used whenever a record is created without a currency code.
const DefaultCurrency = "PEN"

// Account holds money and the authoritative running balance for it.
type Account struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Type            AccountType         `json:"type"`
	Currency        string              `json:"currency"`
	Balance         decimal.Decimal     `json:"balance"` // signed, may go negative
	BankName        *string             `json:"bankName,omitempty"`
	AccountNumber   *string             `json:"accountNumber,omitempty"`
	CCI             *string             `json:"cci,omitempty"`
	AutoFillEnabled bool                `json:"autoFillEnabled"`
	AutoFillAmount  decimal.NullDecimal `json:"autoFillAmount"`
	AutoFillDay     *int                `json:"autoFillDay,omitempty"`
	IsDefault       bool                `json:"isDefault"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// CreateAccountInput carries the fields accepted when opening an account.
type CreateAccountInput struct {
	Name            string              `json:"name" validate:"notblank"`
	Type            AccountType         `json:"type" validate:"oneof=BANK CASH CARD OTHER"`
	Currency        string              `json:"currency"`
	Balance         decimal.Decimal     `json:"balance"` // opening balance
	BankName        *string             `json:"bankName"`
	AccountNumber   *string             `json:"accountNumber"`
	CCI             *string             `json:"cci"`
	AutoFillEnabled bool                `json:"autoFillEnabled"`
	AutoFillAmount  decimal.NullDecimal `json:"autoFillAmount" validate:"required_if=AutoFillEnabled true"`
	AutoFillDay     *int                `json:"autoFillDay" validate:"required_if=AutoFillEnabled true,omitnil,min=1,max=31"`
	IsDefault       bool                `json:"isDefault"`
}

// UpdateAccountInput is a patch; nil fields keep their current value.
// The balance is deliberately absent: it only moves through ledger adjustments.
type UpdateAccountInput struct {
	Name            *string          `json:"name" validate:"omitnil,notblank"`
	Type            *AccountType     `json:"type" validate:"omitnil,oneof=BANK CASH CARD OTHER"`
	Currency        *string          `json:"currency"`
	BankName        *string          `json:"bankName"`
	AccountNumber   *string          `json:"accountNumber"`
	CCI             *string          `json:"cci"`
	AutoFillEnabled *bool            `json:"autoFillEnabled"`
	AutoFillAmount  *decimal.Decimal `json:"autoFillAmount"`
	AutoFillDay     *int             `json:"autoFillDay" validate:"omitnil,min=1,max=31"`
	IsDefault       *bool            `json:"isDefault"`
}

// AccountSummary aggregates balances across all accounts.
type AccountSummary struct {
	TotalBalance decimal.Decimal                 `json:"totalBalance"`
	AccountCount int                             `json:"accountCount"`
	ByType       map[AccountType]decimal.Decimal `json:"byType"`
}
