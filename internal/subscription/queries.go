package subscription

import (
	"context"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func (s *Scheduler) Get(ctx context.Context, id string) (models.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if err != nil {
		return models.Subscription{}, apperrors.Lookup("get subscription", "Subscription", id, err)
	}
	return sub, nil
}

// GetAll returns every subscription ordered by billing day.
func (s *Scheduler) GetAll(ctx context.Context) ([]models.Subscription, error) {
	subs, err := s.store.ListSubscriptions(ctx, false)
	if err != nil {
		return nil, apperrors.Database("list subscriptions", err)
	}
	return subs, nil
}

func (s *Scheduler) GetActive(ctx context.Context) ([]models.Subscription, error) {
	subs, err := s.store.ListSubscriptions(ctx, true)
	if err != nil {
		return nil, apperrors.Database("list active subscriptions", err)
	}
	return subs, nil
}

func (s *Scheduler) GetAllWithRelations(ctx context.Context) ([]models.SubscriptionWithRelations, error) {
	subs, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	result := make([]models.SubscriptionWithRelations, 0, len(subs))
	for _, sub := range subs {
		result = append(result, models.SubscriptionWithRelations{
			Subscription: sub,
			AccountName:  accountNames[sub.AccountID],
			CategoryName: byID[sub.CategoryID].Name,
			CategoryIcon: byID[sub.CategoryID].Icon,
		})
	}
	return result, nil
}

// GetDueOn returns the active subscriptions billed on the given day of month.
func (s *Scheduler) GetDueOn(ctx context.Context, day int) ([]models.Subscription, error) {
	if !validDay(day) {
		return nil, apperrors.Validation("Billing day must be between 1 and 31")
	}
	active, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	var due []models.Subscription
	for _, sub := range active {
		if sub.BillingDay == day {
			due = append(due, sub)
		}
	}
	return due, nil
}

func (s *Scheduler) GetDueToday(ctx context.Context) ([]models.Subscription, error) {
	return s.GetDueOn(ctx, s.now().Day())
}

// GetSummary totals the monthly cost of the active subscriptions.
func (s *Scheduler) GetSummary(ctx context.Context) (models.SubscriptionSummary, error) {
	subs, err := s.GetAll(ctx)
	if err != nil {
		return models.SubscriptionSummary{}, err
	}
	summary := models.SubscriptionSummary{TotalMonthly: decimal.Zero}
	for _, sub := range subs {
		if !sub.IsActive {
			summary.InactiveCount++
			continue
		}
		summary.ActiveCount++
		summary.TotalMonthly = summary.TotalMonthly.Add(sub.Amount)
	}
	return summary, nil
}
