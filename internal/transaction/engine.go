// Package transaction records income and expense events and keeps the owning
// account balances in step with them.
package transaction

import (
	"context"
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

// Repository is the part of the record store the engine needs.
type Repository interface {
	interfaces.TxManager
	interfaces.TransactionStore
}

// AccountLedger is the balance owner the engine delegates to.
type AccountLedger interface {
	ValidateExists(ctx context.Context, id string) error
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
}

// Categories validates and resolves category ids.
type Categories interface {
	ValidateExists(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.Category, error)
}

type Engine struct {
	store      Repository
	ledger     AccountLedger
	categories Categories
	publisher  interfaces.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewEngine(store Repository, ledger AccountLedger, categories Categories, publisher interfaces.EventPublisher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		ledger:     ledger,
		categories: categories,
		publisher:  publisher,
		logger:     logger.Named("transaction"),
		now:        time.Now,
	}
}

// Create persists a transaction and applies its signed effect to the owning
// account in the same unit of work.
func (e *Engine) Create(ctx context.Context, in models.CreateTransactionInput) (models.Transaction, error) {
	if err := validation.Struct(in, transactionMessages); err != nil {
		return models.Transaction{}, err
	}

	now := e.now()
	tx := models.Transaction{
		ID:             uuid.New().String(),
		Type:           in.Type,
		Amount:         in.Amount,
		Description:    in.Description,
		Date:           in.Date,
		Source:         in.Source,
		AccountID:      in.AccountID,
		CategoryID:     in.CategoryID,
		SubscriptionID: in.SubscriptionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if tx.Source == "" {
		tx.Source = models.SourceManual
	}

	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.ledger.ValidateExists(ctx, tx.AccountID); err != nil {
			return err
		}
		if err := e.categories.ValidateExists(ctx, tx.CategoryID); err != nil {
			return err
		}
		if err := e.store.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		_, err := e.ledger.AdjustBalance(ctx, tx.AccountID, tx.Effect())
		return err
	})
	if err != nil {
		return models.Transaction{}, apperrors.Database("create transaction", err)
	}

	e.logger.Info("transaction created",
		zap.String("transaction_id", tx.ID),
		zap.String("account_id", tx.AccountID),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.String()),
		zap.String("source", string(tx.Source)))
	e.emitRecorded(ctx, tx)
	return tx, nil
}

// Update reverses the original effect on the original account, then applies
// the patched effect on the (possibly different) new account.
func (e *Engine) Update(ctx context.Context, id string, in models.UpdateTransactionInput) (models.Transaction, error) {
	if err := validation.Struct(in, transactionMessages); err != nil {
		return models.Transaction{}, err
	}

	var updated models.Transaction
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := e.store.GetTransaction(ctx, id)
		if err != nil {
			return apperrors.Lookup("get transaction", "Transaction", id, err)
		}

		next, err := e.applyPatch(ctx, existing, in)
		if err != nil {
			return err
		}

		if _, err := e.ledger.AdjustBalance(ctx, existing.AccountID, existing.Effect().Neg()); err != nil {
			return err
		}
		if _, err := e.ledger.AdjustBalance(ctx, next.AccountID, next.Effect()); err != nil {
			return err
		}

		next.UpdatedAt = e.now()
		if err := e.store.UpdateTransaction(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return models.Transaction{}, apperrors.Database("update transaction", err)
	}

	e.logger.Info("transaction updated",
		zap.String("transaction_id", updated.ID),
		zap.String("account_id", updated.AccountID),
		zap.String("amount", updated.Amount.String()))
	e.emitRecorded(ctx, updated)
	return updated, nil
}

// applyPatch merges a tag-validated patch over existing. A changed account or
// category is checked the same way Create checks it.
func (e *Engine) applyPatch(ctx context.Context, existing models.Transaction, in models.UpdateTransactionInput) (models.Transaction, error) {
	next := existing
	if in.Type != nil {
		next.Type = *in.Type
	}
	if in.Amount != nil {
		next.Amount = *in.Amount
	}
	if in.Description != nil {
		next.Description = in.Description
	}
	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.AccountID != nil && *in.AccountID != existing.AccountID {
		if err := e.ledger.ValidateExists(ctx, *in.AccountID); err != nil {
			return next, err
		}
		next.AccountID = *in.AccountID
	}
	if in.CategoryID != nil && *in.CategoryID != existing.CategoryID {
		if err := e.categories.ValidateExists(ctx, *in.CategoryID); err != nil {
			return next, err
		}
		next.CategoryID = *in.CategoryID
	}
	return next, nil
}

// Delete reverses the transaction's effect and removes it.
func (e *Engine) Delete(ctx context.Context, id string) error {
	var deleted models.Transaction
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = e.store.GetTransaction(ctx, id)
		if err != nil {
			return apperrors.Lookup("get transaction", "Transaction", id, err)
		}
		if _, err := e.ledger.AdjustBalance(ctx, deleted.AccountID, deleted.Effect().Neg()); err != nil {
			return err
		}
		return e.store.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return apperrors.Database("delete transaction", err)
	}

	e.logger.Info("transaction deleted",
		zap.String("transaction_id", id),
		zap.String("account_id", deleted.AccountID))
	eventbus.Emit(ctx, e.publisher, e.logger, events.TopicTransactionDeleted, events.TransactionDeleted{
		TransactionID: id,
		AccountID:     deleted.AccountID,
		Reversed:      deleted.Effect().Neg(),
		OccurredAt:    e.now(),
	})
	return nil
}

func (e *Engine) emitRecorded(ctx context.Context, tx models.Transaction) {
	eventbus.Emit(ctx, e.publisher, e.logger, events.TopicTransactionRecorded, events.TransactionRecorded{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Effect:        tx.Effect(),
		Source:        string(tx.Source),
		OccurredAt:    tx.UpdatedAt,
	})
}

var transactionMessages = validation.Messages{
	"Type":       "Invalid transaction type '%v'",
	"Amount":     "Transaction amount must be greater than 0",
	"Date":       "Transaction date is required",
	"Source":     "Invalid transaction source '%v'",
	"AccountID":  "Account is required",
	"CategoryID": "Category is required",
}
