// Package subscription manages recurring charges and turns each billing event
// into an expense transaction.
package subscription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/validation"
	"go.uber.org/zap"
)

type Repository interface {
	interfaces.TxManager
	interfaces.SubscriptionStore
}

type AccountLedger interface {
	ValidateExists(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.Account, error)
}

type Categories interface {
	ValidateExists(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.Category, error)
}

// Transactions is the engine billing events are recorded through.
type Transactions interface {
	Create(ctx context.Context, in models.CreateTransactionInput) (models.Transaction, error)
	GetFiltered(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

type Scheduler struct {
	store        Repository
	ledger       AccountLedger
	categories   Categories
	transactions Transactions
	logger       *zap.Logger
	now          func() time.Time
}

func NewScheduler(store Repository, ledger AccountLedger, categories Categories, transactions Transactions, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:        store,
		ledger:       ledger,
		categories:   categories,
		transactions: transactions,
		logger:       logger.Named("subscription"),
		now:          time.Now,
	}
}

func (s *Scheduler) Create(ctx context.Context, in models.CreateSubscriptionInput) (models.Subscription, error) {
	if err := validation.Struct(in, subscriptionMessages); err != nil {
		return models.Subscription{}, err
	}

	now := s.now()
	sub := models.Subscription{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		Amount:     in.Amount,
		Currency:   in.Currency,
		BillingDay: in.BillingDay,
		IsActive:   true,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}
	if sub.Currency == "" {
		sub.Currency = models.DefaultCurrency
	}
	if sub.StartDate.IsZero() {
		sub.StartDate = now
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.ValidateExists(ctx, sub.AccountID); err != nil {
			return err
		}
		if err := s.categories.ValidateExists(ctx, sub.CategoryID); err != nil {
			return err
		}
		return s.store.CreateSubscription(ctx, sub)
	})
	if err != nil {
		return models.Subscription{}, apperrors.Database("create subscription", err)
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("amount", sub.Amount.String()),
		zap.Int("billing_day", sub.BillingDay))
	return sub, nil
}

func (s *Scheduler) Update(ctx context.Context, id string, in models.UpdateSubscriptionInput) (models.Subscription, error) {
	if err := validation.Struct(in, subscriptionMessages); err != nil {
		return models.Subscription{}, err
	}

	var sub models.Subscription
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.store.GetSubscription(ctx, id)
		if err != nil {
			return apperrors.Lookup("get subscription", "Subscription", id, err)
		}

		if in.Name != nil {
			sub.Name = strings.TrimSpace(*in.Name)
		}
		if in.Amount != nil {
			sub.Amount = *in.Amount
		}
		if in.Currency != nil {
			sub.Currency = *in.Currency
		}
		if in.BillingDay != nil {
			sub.BillingDay = *in.BillingDay
		}
		if in.IsActive != nil {
			sub.IsActive = *in.IsActive
		}
		if in.StartDate != nil {
			sub.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			sub.EndDate = in.EndDate
		}
		if in.AccountID != nil && *in.AccountID != sub.AccountID {
			if err := s.ledger.ValidateExists(ctx, *in.AccountID); err != nil {
				return err
			}
			sub.AccountID = *in.AccountID
		}
		if in.CategoryID != nil && *in.CategoryID != sub.CategoryID {
			if err := s.categories.ValidateExists(ctx, *in.CategoryID); err != nil {
				return err
			}
			sub.CategoryID = *in.CategoryID
		}
		if sub.EndDate != nil && sub.EndDate.Before(sub.StartDate) {
			return apperrors.Validation("End date cannot be before start date")
		}

		sub.UpdatedAt = s.now()
		return s.store.UpdateSubscription(ctx, sub)
	})
	if err != nil {
		return models.Subscription{}, apperrors.Database("update subscription", err)
	}

	s.logger.Info("subscription updated", zap.String("subscription_id", sub.ID))
	return sub, nil
}

// Delete removes the subscription. Transactions it produced are kept and
// lose their subscription reference.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSubscription(ctx, id); err != nil {
		return apperrors.Lookup("delete subscription", "Subscription", id, err)
	}
	s.logger.Info("subscription deleted", zap.String("subscription_id", id))
	return nil
}

func (s *Scheduler) Activate(ctx context.Context, id string) (models.Subscription, error) {
	active := true
	return s.Update(ctx, id, models.UpdateSubscriptionInput{IsActive: &active})
}

func (s *Scheduler) Deactivate(ctx context.Context, id string) (models.Subscription, error) {
	active := false
	return s.Update(ctx, id, models.UpdateSubscriptionInput{IsActive: &active})
}

// ProcessPayment records one billing event of an active subscription as an
// expense dated now.
func (s *Scheduler) ProcessPayment(ctx context.Context, id string) (models.Transaction, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.charge(ctx, sub, s.now())
}

func (s *Scheduler) charge(ctx context.Context, sub models.Subscription, at time.Time) (models.Transaction, error) {
	if !sub.IsActive {
		return models.Transaction{}, apperrors.Validation("Cannot process payment for inactive subscription")
	}

	description := sub.Name + " - Subscription"
	subscriptionID := sub.ID
	tx, err := s.transactions.Create(ctx, models.CreateTransactionInput{
		Type:           models.TransactionExpense,
		Amount:         sub.Amount,
		Description:    &description,
		Date:           at,
		Source:         models.SourceSubscription,
		AccountID:      sub.AccountID,
		CategoryID:     sub.CategoryID,
		SubscriptionID: &subscriptionID,
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.logger.Info("subscription charged",
		zap.String("subscription_id", sub.ID),
		zap.String("transaction_id", tx.ID),
		zap.String("amount", sub.Amount.String()))
	return tx, nil
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}

var subscriptionMessages = validation.Messages{
	"Name":       "Subscription name is required",
	"Amount":     "Subscription amount must be greater than 0",
	"BillingDay": "Billing day must be between 1 and 31",
	"AccountID":  "Account is required",
	"CategoryID": "Category is required",
	"EndDate":    "End date cannot be before start date",
}
