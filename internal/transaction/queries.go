package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func (e *Engine) Get(ctx context.Context, id string) (models.Transaction, error) {
	tx, err := e.store.GetTransaction(ctx, id)
	if err != nil {
		return models.Transaction{}, apperrors.Lookup("get transaction", "Transaction", id, err)
	}
	return tx, nil
}

// GetAll returns every transaction, newest first.
func (e *Engine) GetAll(ctx context.Context) ([]models.Transaction, error) {
	return e.GetFiltered(ctx, models.TransactionFilter{})
}

func (e *Engine) GetFiltered(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	txs, err := e.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, apperrors.Database("list transactions", err)
	}
	return txs, nil
}

// GetThisMonth returns the transactions of the current local calendar month.
func (e *Engine) GetThisMonth(ctx context.Context) ([]models.Transaction, error) {
	start, end := MonthRange(e.now())
	return e.GetFiltered(ctx, models.TransactionFilter{StartDate: &start, EndDate: &end})
}

// GetAllWithRelations joins the account and category names onto every
// transaction matching filter.
func (e *Engine) GetAllWithRelations(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionWithRelations, error) {
	txs, err := e.GetFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	accounts, err := e.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := e.categories.GetAll(ctx)
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

	result := make([]models.TransactionWithRelations, 0, len(txs))
	for _, tx := range txs {
		c := byID[tx.CategoryID]
		result = append(result, models.TransactionWithRelations{
			Transaction:   tx,
			AccountName:   accountNames[tx.AccountID],
			CategoryName:  c.Name,
			CategoryIcon:  c.Icon,
			CategoryColor: c.Color,
		})
	}
	return result, nil
}

// MonthRange returns the inclusive bounds of the calendar month containing t,
// in t's location: first day 00:00:00.000 to last day 23:59:59.999.
func MonthRange(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m+1, 0, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// resolveRange falls back to the current month when no bound is given.
func (e *Engine) resolveRange(start, end *time.Time) (*time.Time, *time.Time) {
	if start != nil || end != nil {
		return start, end
	}
	s, en := MonthRange(e.now())
	return &s, &en
}

// GetSummary sums income and expense independently over the inclusive range.
// The count comes from a separate fetch that does not filter by type.
func (e *Engine) GetSummary(ctx context.Context, start, end *time.Time) (models.TransactionSummary, error) {
	start, end = e.resolveRange(start, end)

	income, err := e.store.SumTransactions(ctx, models.TransactionIncome, start, end)
	if err != nil {
		return models.TransactionSummary{}, apperrors.Database("sum income", err)
	}
	expense, err := e.store.SumTransactions(ctx, models.TransactionExpense, start, end)
	if err != nil {
		return models.TransactionSummary{}, apperrors.Database("sum expense", err)
	}
	txs, err := e.GetFiltered(ctx, models.TransactionFilter{StartDate: start, EndDate: end})
	if err != nil {
		return models.TransactionSummary{}, err
	}

	return models.TransactionSummary{
		TotalIncome:      income,
		TotalExpense:     expense,
		NetBalance:       income.Sub(expense),
		TransactionCount: len(txs),
	}, nil
}

func (e *Engine) GetMonthSummary(ctx context.Context) (models.TransactionSummary, error) {
	start, end := MonthRange(e.now())
	return e.GetSummary(ctx, &start, &end)
}

// GetExpensesByCategory groups the expense transactions in range by category.
// Each row carries its share of the total expense; rows are sorted by total,
// largest first, and categories without expenses are left out.
func (e *Engine) GetExpensesByCategory(ctx context.Context, start, end *time.Time) ([]models.CategorySummary, error) {
	start, end = e.resolveRange(start, end)

	txs, err := e.GetFiltered(ctx, models.TransactionFilter{
		Type:      models.TransactionExpense,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return []models.CategorySummary{}, nil
	}

	categories, err := e.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	total := decimal.Zero
	rows := make(map[string]*models.CategorySummary)
	for _, tx := range txs {
		total = total.Add(tx.Amount)
		row, ok := rows[tx.CategoryID]
		if !ok {
			c := byID[tx.CategoryID]
			row = &models.CategorySummary{
				CategoryID:    tx.CategoryID,
				CategoryName:  c.Name,
				CategoryIcon:  c.Icon,
				CategoryColor: c.Color,
				Total:         decimal.Zero,
			}
			rows[tx.CategoryID] = row
		}
		row.Total = row.Total.Add(tx.Amount)
		row.TransactionCount++
	}

	hundred := decimal.NewFromInt(100)
	result := make([]models.CategorySummary, 0, len(rows))
	for _, row := range rows {
		if total.IsPositive() {
			row.Percentage = row.Total.Div(total).Mul(hundred).InexactFloat64()
		}
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result, nil
}
