package postgres

import (
	"context"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

const subscriptionColumns = `id, name, amount, currency, billing_day, is_active, start_date, end_date,
	account_id, category_id, created_at, updated_at`

func scanSubscription(row rowScanner) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Amount,
		&s.Currency,
		&s.BillingDay,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.AccountID,
		&s.CategoryID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (p *PostgresStore) CreateSubscription(ctx context.Context, s models.Subscription) error {
	const query = `INSERT INTO subscriptions (` + subscriptionColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := p.conn(ctx).ExecContext(ctx, query,
		s.ID, s.Name, s.Amount, s.Currency, s.BillingDay, s.IsActive, s.StartDate, s.EndDate,
		s.AccountID, s.CategoryID, s.CreatedAt, s.UpdatedAt)
	return err
}

func (p *PostgresStore) GetSubscription(ctx context.Context, id string) (models.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	s, err := scanSubscription(p.conn(ctx).QueryRowContext(ctx, query, id))
	return s, notFound(err)
}

func (p *PostgresStore) ListSubscriptions(ctx context.Context, activeOnly bool) ([]models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY billing_day, name`

	rows, err := p.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (p *PostgresStore) UpdateSubscription(ctx context.Context, s models.Subscription) error {
	const query = `UPDATE subscriptions SET name = $2, amount = $3, currency = $4, billing_day = $5,
	is_active = $6, start_date = $7, end_date = $8, account_id = $9, category_id = $10, updated_at = $11
	WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query,
		s.ID, s.Name, s.Amount, s.Currency, s.BillingDay, s.IsActive, s.StartDate, s.EndDate,
		s.AccountID, s.CategoryID, s.UpdatedAt))
}

// DeleteSubscription relies on ON DELETE SET NULL to detach its transactions.
func (p *PostgresStore) DeleteSubscription(ctx context.Context, id string) error {
	const query = `DELETE FROM subscriptions WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query, id))
}
