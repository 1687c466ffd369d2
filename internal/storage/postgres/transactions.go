package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, type, amount, description, date, source, account_id, category_id,
	subscription_id, created_at, updated_at`

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.Date,
		&t.Source,
		&t.AccountID,
		&t.CategoryID,
		&t.SubscriptionID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (p *PostgresStore) CreateTransaction(ctx context.Context, t models.Transaction) error {
	const query = `INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := p.conn(ctx).ExecContext(ctx, query,
		t.ID, t.Type, t.Amount, t.Description, t.Date, t.Source, t.AccountID, t.CategoryID,
		t.SubscriptionID, t.CreatedAt, t.UpdatedAt)
	return err
}

func (p *PostgresStore) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1` + forUpdate(ctx)

	t, err := scanTransaction(p.conn(ctx).QueryRowContext(ctx, query, id))
	return t, notFound(err)
}

func (p *PostgresStore) UpdateTransaction(ctx context.Context, t models.Transaction) error {
	const query = `UPDATE transactions SET type = $2, amount = $3, description = $4, date = $5,
	source = $6, account_id = $7, category_id = $8, subscription_id = $9, updated_at = $10
	WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query,
		t.ID, t.Type, t.Amount, t.Description, t.Date, t.Source, t.AccountID, t.CategoryID,
		t.SubscriptionID, t.UpdatedAt))
}

func (p *PostgresStore) DeleteTransaction(ctx context.Context, id string) error {
	const query = `DELETE FROM transactions WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query, id))
}

// whereClause renders the filter as SQL conditions with positional arguments.
func whereClause(f models.TransactionFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.AccountID != "" {
		add("account_id = $%d", f.AccountID)
	}
	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.SubscriptionID != "" {
		add("subscription_id = $%d", f.SubscriptionID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}
	if f.MinAmount.Valid {
		add("amount >= $%d", f.MinAmount.Decimal)
	}
	if f.MaxAmount.Valid {
		add("amount <= $%d", f.MaxAmount.Decimal)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p *PostgresStore) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY date DESC, created_at DESC`

	rows, err := p.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (p *PostgresStore) SumTransactions(ctx context.Context, typ models.TransactionType, start, end *time.Time) (decimal.Decimal, error) {
	where, args := whereClause(models.TransactionFilter{Type: typ, StartDate: start, EndDate: end})
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions` + where

	var total decimal.Decimal
	err := p.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}
