package postgres

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

// instrumentTable maps an instrument kind onto its pair of tables.
type instrumentTable struct {
	table        string // loans | debts
	nameColumn   string // borrower_name | lender_name
	dateColumn   string // loan_date | debt_date
	paymentTable string // loan_payments | debt_payments
	fkColumn     string // loan_id | debt_id
}

var instrumentTables = map[models.InstrumentKind]instrumentTable{
	models.KindLoan: {"loans", "borrower_name", "loan_date", "loan_payments", "loan_id"},
	models.KindDebt: {"debts", "lender_name", "debt_date", "debt_payments", "debt_id"},
}

func tableFor(kind models.InstrumentKind) (instrumentTable, error) {
	t, ok := instrumentTables[kind]
	if !ok {
		return instrumentTable{}, fmt.Errorf("unknown instrument kind %q", kind)
	}
	return t, nil
}

func (t instrumentTable) columns() string {
	return fmt.Sprintf(`id, %s, amount, currency, type, status, interest_rate, description, %s,
	due_date, paid_amount, account_id, created_at, updated_at`, t.nameColumn, t.dateColumn)
}

func scanInstrument(kind models.InstrumentKind, row rowScanner) (models.Instrument, error) {
	i := models.Instrument{Kind: kind}
	err := row.Scan(
		&i.ID,
		&i.CounterpartyName,
		&i.Amount,
		&i.Currency,
		&i.Type,
		&i.Status,
		&i.InterestRate,
		&i.Description,
		&i.IssueDate,
		&i.DueDate,
		&i.PaidAmount,
		&i.AccountID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (p *PostgresStore) CreateInstrument(ctx context.Context, i models.Instrument) error {
	t, err := tableFor(i.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.table + ` (` + t.columns() + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err = p.conn(ctx).ExecContext(ctx, query,
		i.ID, i.CounterpartyName, i.Amount, i.Currency, i.Type, i.Status, i.InterestRate,
		i.Description, i.IssueDate, i.DueDate, i.PaidAmount, i.AccountID, i.CreatedAt, i.UpdatedAt)
	return err
}

func (p *PostgresStore) GetInstrument(ctx context.Context, kind models.InstrumentKind, id string) (models.Instrument, error) {
	t, err := tableFor(kind)
	if err != nil {
		return models.Instrument{}, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.table + ` WHERE id = $1` + forUpdate(ctx)

	i, err := scanInstrument(kind, p.conn(ctx).QueryRowContext(ctx, query, id))
	return i, notFound(err)
}

func (p *PostgresStore) ListInstruments(ctx context.Context, kind models.InstrumentKind, status models.InstrumentStatus) ([]models.Instrument, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.table
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY ` + t.dateColumn + ` DESC, created_at DESC`

	rows, err := p.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Instrument
	for rows.Next() {
		i, err := scanInstrument(kind, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	return result, rows.Err()
}

func (p *PostgresStore) UpdateInstrument(ctx context.Context, i models.Instrument) error {
	t, err := tableFor(i.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, amount = $3, currency = $4, type = $5, status = $6,
	interest_rate = $7, description = $8, %s = $9, due_date = $10, paid_amount = $11, updated_at = $12
	WHERE id = $1`, t.table, t.nameColumn, t.dateColumn)

	return expectOne(p.conn(ctx).ExecContext(ctx, query,
		i.ID, i.CounterpartyName, i.Amount, i.Currency, i.Type, i.Status, i.InterestRate,
		i.Description, i.IssueDate, i.DueDate, i.PaidAmount, i.UpdatedAt))
}

// DeleteInstrument relies on ON DELETE CASCADE to remove the payments.
func (p *PostgresStore) DeleteInstrument(ctx context.Context, kind models.InstrumentKind, id string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := `DELETE FROM ` + t.table + ` WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query, id))
}

func (p *PostgresStore) CreatePayment(ctx context.Context, pay models.Payment) error {
	t, err := tableFor(pay.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.paymentTable + ` (id, amount, payment_date, note, ` + t.fkColumn + `, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = p.conn(ctx).ExecContext(ctx, query,
		pay.ID, pay.Amount, pay.PaymentDate, pay.Note, pay.InstrumentID, pay.CreatedAt, pay.UpdatedAt)
	return err
}

func (p *PostgresStore) ListPayments(ctx context.Context, kind models.InstrumentKind, instrumentID string) ([]models.Payment, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, amount, payment_date, note, ` + t.fkColumn + `, created_at, updated_at
	FROM ` + t.paymentTable + ` WHERE ` + t.fkColumn + ` = $1 ORDER BY payment_date DESC, created_at DESC`

	rows, err := p.conn(ctx).QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		pay := models.Payment{Kind: kind}
		if err := rows.Scan(&pay.ID, &pay.Amount, &pay.PaymentDate, &pay.Note, &pay.InstrumentID, &pay.CreatedAt, &pay.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, pay)
	}
	return payments, rows.Err()
}
