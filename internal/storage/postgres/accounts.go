package postgres

import (
	"context"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, type, currency, balance, bank_name, account_number, cci,
	auto_fill_enabled, auto_fill_amount, auto_fill_day, is_default, created_at, updated_at`

func scanAccount(row rowScanner) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Type,
		&a.Currency,
		&a.Balance,
		&a.BankName,
		&a.AccountNumber,
		&a.CCI,
		&a.AutoFillEnabled,
		&a.AutoFillAmount,
		&a.AutoFillDay,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (p *PostgresStore) CreateAccount(ctx context.Context, a models.Account) error {
	const query = `INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := p.conn(ctx).ExecContext(ctx, query,
		a.ID, a.Name, a.Type, a.Currency, a.Balance, a.BankName, a.AccountNumber, a.CCI,
		a.AutoFillEnabled, a.AutoFillAmount, a.AutoFillDay, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	return err
}

func (p *PostgresStore) GetAccount(ctx context.Context, id string) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(p.conn(ctx).QueryRowContext(ctx, query, id))
	return a, notFound(err)
}

func (p *PostgresStore) GetDefaultAccount(ctx context.Context) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE is_default LIMIT 1`

	a, err := scanAccount(p.conn(ctx).QueryRowContext(ctx, query))
	return a, notFound(err)
}

func (p *PostgresStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`

	rows, err := p.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *PostgresStore) CountAccounts(ctx context.Context) (int, error) {
	const query = `SELECT count(*) FROM accounts`

	var n int
	err := p.conn(ctx).QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

// UpdateAccount writes every column except the balance, which only moves
// through AddToBalance.
func (p *PostgresStore) UpdateAccount(ctx context.Context, a models.Account) error {
	const query = `UPDATE accounts SET name = $2, type = $3, currency = $4, bank_name = $5,
	account_number = $6, cci = $7, auto_fill_enabled = $8, auto_fill_amount = $9,
	auto_fill_day = $10, is_default = $11, updated_at = $12
	WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query,
		a.ID, a.Name, a.Type, a.Currency, a.BankName, a.AccountNumber, a.CCI,
		a.AutoFillEnabled, a.AutoFillAmount, a.AutoFillDay, a.IsDefault, a.UpdatedAt))
}

func (p *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	const query = `DELETE FROM accounts WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query, id))
}

func (p *PostgresStore) ClearDefaultAccount(ctx context.Context) error {
	const query = `UPDATE accounts SET is_default = FALSE, updated_at = now() WHERE is_default`

	_, err := p.conn(ctx).ExecContext(ctx, query)
	return err
}

// AddToBalance increments in a single statement so concurrent adjustments
// cannot lose updates.
func (p *PostgresStore) AddToBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error) {
	const query = `UPDATE accounts SET balance = balance + $2, updated_at = now()
	WHERE id = $1 RETURNING ` + accountColumns

	a, err := scanAccount(p.conn(ctx).QueryRowContext(ctx, query, id, delta))
	return a, notFound(err)
}
