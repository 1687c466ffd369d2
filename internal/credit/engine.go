// Package credit tracks loans given and debts owed. Both kinds share one engine;
// the kind decides the sign of every balance effect.
package credit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/eventbus"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models/events"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	interfaces.TxManager
	interfaces.InstrumentStore
}

// AccountLedger is the balance owner the engine delegates to.
type AccountLedger interface {
	ValidateExists(ctx context.Context, id string) error
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
}

type Engine struct {
	kind      models.InstrumentKind
	messages  validation.Messages
	store     Repository
	ledger    AccountLedger
	publisher interfaces.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLoanEngine tracks money lent out of an account.
func NewLoanEngine(store Repository, ledger AccountLedger, publisher interfaces.EventPublisher, logger *zap.Logger) *Engine {
	return newEngine(models.KindLoan, store, ledger, publisher, logger)
}

// NewDebtEngine tracks money borrowed into an account.
func NewDebtEngine(store Repository, ledger AccountLedger, publisher interfaces.EventPublisher, logger *zap.Logger) *Engine {
	return newEngine(models.KindDebt, store, ledger, publisher, logger)
}

func newEngine(kind models.InstrumentKind, store Repository, ledger AccountLedger, publisher interfaces.EventPublisher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		kind:      kind,
		messages:  messagesFor(kind),
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger.Named(kind.Label()),
		now:       time.Now,
	}
}

func (e *Engine) Kind() models.InstrumentKind { return e.kind }

// Create opens an instrument as PENDING with nothing paid and applies the
// initiation effect to its account.
func (e *Engine) Create(ctx context.Context, in models.CreateInstrumentInput) (models.Instrument, error) {
	if err := validation.Struct(in, e.messages); err != nil {
		return models.Instrument{}, err
	}

	now := e.now()
	inst := models.Instrument{
		ID:               uuid.New().String(),
		Kind:             e.kind,
		CounterpartyName: strings.TrimSpace(in.CounterpartyName),
		Amount:           in.Amount,
		Currency:         in.Currency,
		Type:             in.Type,
		Status:           models.StatusPending,
		InterestRate:     in.InterestRate,
		Description:      in.Description,
		IssueDate:        in.IssueDate,
		DueDate:          in.DueDate,
		PaidAmount:       decimal.Zero,
		AccountID:        in.AccountID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if inst.Currency == "" {
		inst.Currency = models.DefaultCurrency
	}
	if inst.Type == "" {
		inst.Type = models.InstrumentCasual
	}

	effect := e.kind.InitiationEffect(inst.Amount)
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.ledger.ValidateExists(ctx, inst.AccountID); err != nil {
			return err
		}
		if err := e.store.CreateInstrument(ctx, inst); err != nil {
			return err
		}
		_, err := e.ledger.AdjustBalance(ctx, inst.AccountID, effect)
		return err
	})
	if err != nil {
		return models.Instrument{}, apperrors.Database("create "+e.kind.Label(), err)
	}

	e.logger.Info(e.kind.Label()+" created",
		zap.String("id", inst.ID),
		zap.String("account_id", inst.AccountID),
		zap.String("amount", inst.Amount.String()))
	eventbus.Emit(ctx, e.publisher, e.logger, events.TopicInstrumentCreated, events.InstrumentCreated{
		InstrumentID: inst.ID,
		Kind:         string(e.kind),
		AccountID:    inst.AccountID,
		Amount:       inst.Amount,
		Effect:       effect,
		OccurredAt:   now,
	})
	return inst, nil
}

// RecordPayment appends a partial repayment, advances the paid amount and
// status, and applies the payment effect, all in one unit of work.
func (e *Engine) RecordPayment(ctx context.Context, in models.CreatePaymentInput) (models.Payment, error) {
	var (
		payment models.Payment
		inst    models.Instrument
	)
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inst, err = e.store.GetInstrument(ctx, e.kind, in.InstrumentID)
		if err != nil {
			return apperrors.Lookup("get "+e.kind.Label(), e.kind.Entity(), in.InstrumentID, err)
		}

		if inst.Status == models.StatusPaid {
			return apperrors.Validation("%s is already fully paid", e.kind.Entity())
		}
		if err := validation.Struct(in, paymentMessages); err != nil {
			return err
		}
		paid := inst.PaidAmount.Add(in.Amount)
		if paid.GreaterThan(inst.Amount) {
			return apperrors.Validation("Payment would exceed %s amount. Remaining: %s", e.kind.Label(), inst.Remaining())
		}

		now := e.now()
		payment = models.Payment{
			ID:           uuid.New().String(),
			Kind:         e.kind,
			Amount:       in.Amount,
			PaymentDate:  in.PaymentDate,
			Note:         in.Note,
			InstrumentID: inst.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if payment.PaymentDate.IsZero() {
			payment.PaymentDate = now
		}
		if err := e.store.CreatePayment(ctx, payment); err != nil {
			return err
		}

		inst.PaidAmount = paid
		inst.Status = models.StatusFor(paid, inst.Amount)
		inst.UpdatedAt = now
		if err := e.store.UpdateInstrument(ctx, inst); err != nil {
			return err
		}

		_, err = e.ledger.AdjustBalance(ctx, inst.AccountID, e.kind.PaymentEffect(in.Amount))
		return err
	})
	if err != nil {
		return models.Payment{}, apperrors.Database("record "+e.kind.Label()+" payment", err)
	}

	e.logger.Info(e.kind.Label()+" payment recorded",
		zap.String("id", inst.ID),
		zap.String("payment_id", payment.ID),
		zap.String("amount", payment.Amount.String()),
		zap.String("status", string(inst.Status)))
	eventbus.Emit(ctx, e.publisher, e.logger, events.TopicPaymentRecorded, events.PaymentRecorded{
		PaymentID:    payment.ID,
		InstrumentID: inst.ID,
		Kind:         string(e.kind),
		AccountID:    inst.AccountID,
		Amount:       payment.Amount,
		PaidAmount:   inst.PaidAmount,
		Status:       string(inst.Status),
		OccurredAt:   payment.CreatedAt,
	})
	return payment, nil
}

// Update patches informational fields. Principal, paid amount, status and
// account stay under the engine's control.
func (e *Engine) Update(ctx context.Context, id string, in models.UpdateInstrumentInput) (models.Instrument, error) {
	if err := validation.Struct(in, e.messages); err != nil {
		return models.Instrument{}, err
	}

	var inst models.Instrument
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inst, err = e.store.GetInstrument(ctx, e.kind, id)
		if err != nil {
			return apperrors.Lookup("get "+e.kind.Label(), e.kind.Entity(), id, err)
		}

		if in.CounterpartyName != nil {
			inst.CounterpartyName = strings.TrimSpace(*in.CounterpartyName)
		}
		if in.Currency != nil {
			inst.Currency = *in.Currency
		}
		if in.Type != nil {
			inst.Type = *in.Type
		}
		if in.InterestRate != nil {
			inst.InterestRate = decimal.NewNullDecimal(*in.InterestRate)
		}
		if in.Description != nil {
			inst.Description = in.Description
		}
		if in.IssueDate != nil {
			inst.IssueDate = *in.IssueDate
		}
		if in.DueDate != nil {
			inst.DueDate = in.DueDate
		}

		inst.UpdatedAt = e.now()
		return e.store.UpdateInstrument(ctx, inst)
	})
	if err != nil {
		return models.Instrument{}, apperrors.Database("update "+e.kind.Label(), err)
	}

	e.logger.Info(e.kind.Label()+" updated", zap.String("id", inst.ID))
	return inst, nil
}

// Delete removes the instrument with its payments and gives back whatever
// part of the initiation effect has not been paid off yet.
func (e *Engine) Delete(ctx context.Context, id string) error {
	var inst models.Instrument
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inst, err = e.store.GetInstrument(ctx, e.kind, id)
		if err != nil {
			return apperrors.Lookup("get "+e.kind.Label(), e.kind.Entity(), id, err)
		}
		if remaining := inst.Remaining(); remaining.IsPositive() {
			if _, err := e.ledger.AdjustBalance(ctx, inst.AccountID, e.kind.PaymentEffect(remaining)); err != nil {
				return err
			}
		}
		return e.store.DeleteInstrument(ctx, e.kind, id)
	})
	if err != nil {
		return apperrors.Database("delete "+e.kind.Label(), err)
	}

	e.logger.Info(e.kind.Label()+" deleted",
		zap.String("id", id),
		zap.String("account_id", inst.AccountID),
		zap.String("reversed", inst.Remaining().String()))
	return nil
}

var paymentMessages = validation.Messages{
	"Amount": "Payment amount must be greater than 0",
}

// messagesFor words the create and update rules after the instrument kind.
func messagesFor(kind models.InstrumentKind) validation.Messages {
	name := "Borrower name is required"
	if kind == models.KindDebt {
		name = "Lender name is required"
	}
	return validation.Messages{
		"CounterpartyName": name,
		"Amount":           fmt.Sprintf("%s amount must be greater than 0", kind.Entity()),
		"IssueDate":        fmt.Sprintf("%s date is required", kind.Entity()),
		"AccountID":        "Account is required",
		"Type":             fmt.Sprintf("Invalid %s type '%%v'", kind.Label()),
		"InterestRate":     "Interest rate cannot be negative",
	}
}
