package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentKind distinguishes money lent out (LOAN) from money borrowed (DEBT).
// Both kinds share one shape and mirror each other's balance effects.
type InstrumentKind string

const (
	KindLoan InstrumentKind = "LOAN"
	KindDebt InstrumentKind = "DEBT"
)

func (k InstrumentKind) Valid() bool {
	return k == KindLoan || k == KindDebt
}

// Label is the lower-case noun used in messages ("loan", "debt").
func (k InstrumentKind) Label() string {
	if k == KindDebt {
		return "debt"
	}
	return "loan"
}

// Entity is the capitalised noun used in not-found errors.
func (k InstrumentKind) Entity() string {
	if k == KindDebt {
		return "Debt"
	}
	return "Loan"
}

// InitiationEffect is the balance delta applied when an instrument of this kind
// is created: a loan takes cash out of the account, a debt brings cash in.
func (k InstrumentKind) InitiationEffect(amount decimal.Decimal) decimal.Decimal {
	if k == KindDebt {
		return amount
	}
	return amount.Neg()
}

// PaymentEffect is the inverse of InitiationEffect.
func (k InstrumentKind) PaymentEffect(amount decimal.Decimal) decimal.Decimal {
	return k.InitiationEffect(amount).Neg()
}

// InstrumentType is informational only.
type InstrumentType string

const (
	InstrumentCasual InstrumentType = "CASUAL"
	InstrumentBank   InstrumentType = "BANK"
)

func (t InstrumentType) Valid() bool {
	return t == InstrumentCasual || t == InstrumentBank
}

// InstrumentStatus is derived from the paid amount; see StatusFor.
type InstrumentStatus string

const (
	StatusPending InstrumentStatus = "PENDING"
	StatusPartial InstrumentStatus = "PARTIAL"
	StatusPaid    InstrumentStatus = "PAID"
)

func (s InstrumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// StatusFor computes the status of an instrument with the given principal
// after paid has been repaid.
func StatusFor(paid, amount decimal.Decimal) InstrumentStatus {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Instrument is a loan or a debt tracked against an account.
type Instrument struct {
	ID               string              `json:"id"`
	Kind             InstrumentKind      `json:"kind"`
	CounterpartyName string              `json:"counterpartyName"` // borrower of a loan, lender of a debt
	Amount           decimal.Decimal     `json:"amount"`
	Currency         string              `json:"currency"`
	Type             InstrumentType      `json:"type"`
	Status           InstrumentStatus    `json:"status"`
	InterestRate     decimal.NullDecimal `json:"interestRate"`
	Description      *string             `json:"description,omitempty"`
	IssueDate        time.Time           `json:"issueDate"`
	DueDate          *time.Time          `json:"dueDate,omitempty"`
	PaidAmount       decimal.Decimal     `json:"paidAmount"`
	AccountID        string              `json:"accountId"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Remaining is the part of the principal that has not been repaid yet.
func (i Instrument) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// InstrumentWithDetails adds the derived progress figures and the account name.
type InstrumentWithDetails struct {
	Instrument
	AccountName        string          `json:"accountName"`
	RemainingAmount    decimal.Decimal `json:"remainingAmount"`
	ProgressPercentage float64         `json:"progressPercentage"`
}

// CreateInstrumentInput fields are declared in the order their rules are
// reported.
type CreateInstrumentInput struct {
	CounterpartyName string              `json:"counterpartyName" validate:"notblank"`
	Amount           decimal.Decimal     `json:"amount" validate:"positive_decimal"`
	IssueDate        time.Time           `json:"issueDate" validate:"required"`
	AccountID        string              `json:"accountId" validate:"required"`
	Type             InstrumentType      `json:"type" validate:"omitempty,oneof=CASUAL BANK"` // CASUAL when empty
	InterestRate     decimal.NullDecimal `json:"interestRate" validate:"nonnegative_decimal"`
	Currency         string              `json:"currency"`
	Description      *string             `json:"description"`
	DueDate          *time.Time          `json:"dueDate"`
}

// UpdateInstrumentInput only reaches informational fields. Principal, status,
// paid amount and account are owned by the engine.
type UpdateInstrumentInput struct {
	CounterpartyName *string          `json:"counterpartyName" validate:"omitnil,notblank"`
	Currency         *string          `json:"currency"`
	Type             *InstrumentType  `json:"type" validate:"omitnil,oneof=CASUAL BANK"`
	InterestRate     *decimal.Decimal `json:"interestRate" validate:"omitnil,nonnegative_decimal"`
	Description      *string          `json:"description"`
	IssueDate        *time.Time       `json:"issueDate" validate:"omitnil,nonzero"`
	DueDate          *time.Time       `json:"dueDate"`
}

// Payment is an append-only partial repayment of an instrument.
type Payment struct {
	ID           string          `json:"id"`
	Kind         InstrumentKind  `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  time.Time       `json:"paymentDate"`
	Note         *string         `json:"note,omitempty"`
	InstrumentID string          `json:"instrumentId"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreatePaymentInput struct {
	InstrumentID string          `json:"instrumentId"`
	Amount       decimal.Decimal `json:"amount" validate:"positive_decimal"`
	PaymentDate  time.Time       `json:"paymentDate"` // now when zero
	Note         *string         `json:"note"`
}

type InstrumentSummary struct {
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	TotalPending decimal.Decimal `json:"totalPending"` // outstanding principal
	Count        int             `json:"count"`
	PendingCount int             `json:"pendingCount"`
	PartialCount int             `json:"partialCount"`
	PaidCount    int             `json:"paidCount"`
}
