package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topic names published by the engines.
const (
	TopicTransactionRecorded = "transaction.recorded"
	TopicTransactionDeleted  = "transaction.deleted"
	TopicInstrumentCreated   = "instrument.created"
	TopicPaymentRecorded     = "instrument.payment_recorded"
)

// TransactionRecorded is emitted after a transaction is created or updated.
type TransactionRecorded struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Effect        decimal.Decimal `json:"effect"`
	Source        string          `json:"source"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// TransactionDeleted is emitted after a transaction is removed and its effect reversed.
type TransactionDeleted struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Reversed      decimal.Decimal `json:"reversed"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// InstrumentCreated is emitted after a loan or debt is opened.
type InstrumentCreated struct {
	InstrumentID string          `json:"instrument_id"`
	Kind         string          `json:"kind"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Effect       decimal.Decimal `json:"effect"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// PaymentRecorded is emitted after a partial payment is applied to an instrument.
type PaymentRecorded struct {
	PaymentID    string          `json:"payment_id"`
	InstrumentID string          `json:"instrument_id"`
	Kind         string          `json:"kind"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Status       string          `json:"status"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
