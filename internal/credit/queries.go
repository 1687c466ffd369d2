package credit

import (
	"context"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func (e *Engine) Get(ctx context.Context, id string) (models.Instrument, error) {
	inst, err := e.store.GetInstrument(ctx, e.kind, id)
	if err != nil {
		return models.Instrument{}, apperrors.Lookup("get "+e.kind.Label(), e.kind.Entity(), id, err)
	}
	return inst, nil
}

// GetAll returns every instrument of the engine's kind, newest issue date first.
func (e *Engine) GetAll(ctx context.Context) ([]models.Instrument, error) {
	return e.GetByStatus(ctx, "")
}

// GetByStatus filters by status; the empty status matches all.
func (e *Engine) GetByStatus(ctx context.Context, status models.InstrumentStatus) ([]models.Instrument, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation("Invalid status '%s'", status)
	}
	list, err := e.store.ListInstruments(ctx, e.kind, status)
	if err != nil {
		return nil, apperrors.Database("list "+e.kind.Label()+"s", err)
	}
	return list, nil
}

func (e *Engine) GetPending(ctx context.Context) ([]models.Instrument, error) {
	return e.GetByStatus(ctx, models.StatusPending)
}

func (e *Engine) GetPartial(ctx context.Context) ([]models.Instrument, error) {
	return e.GetByStatus(ctx, models.StatusPartial)
}

func (e *Engine) GetPaid(ctx context.Context) ([]models.Instrument, error) {
	return e.GetByStatus(ctx, models.StatusPaid)
}

// GetPayments lists the payments of one instrument, newest first.
func (e *Engine) GetPayments(ctx context.Context, id string) ([]models.Payment, error) {
	if _, err := e.Get(ctx, id); err != nil {
		return nil, err
	}
	payments, err := e.store.ListPayments(ctx, e.kind, id)
	if err != nil {
		return nil, apperrors.Database("list "+e.kind.Label()+" payments", err)
	}
	return payments, nil
}

func (e *Engine) GetSummary(ctx context.Context) (models.InstrumentSummary, error) {
	list, err := e.GetAll(ctx)
	if err != nil {
		return models.InstrumentSummary{}, err
	}

	summary := models.InstrumentSummary{
		TotalAmount:  decimal.Zero,
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
		Count:        len(list),
	}
	for _, inst := range list {
		summary.TotalAmount = summary.TotalAmount.Add(inst.Amount)
		summary.TotalPaid = summary.TotalPaid.Add(inst.PaidAmount)
		summary.TotalPending = summary.TotalPending.Add(inst.Remaining())
		switch inst.Status {
		case models.StatusPending:
			summary.PendingCount++
		case models.StatusPartial:
			summary.PartialCount++
		case models.StatusPaid:
			summary.PaidCount++
		}
	}
	return summary, nil
}

// GetAllWithDetails adds the account name, the remaining principal and the
// repayment progress to every instrument.
func (e *Engine) GetAllWithDetails(ctx context.Context) ([]models.InstrumentWithDetails, error) {
	list, err := e.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := e.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	result := make([]models.InstrumentWithDetails, 0, len(list))
	for _, inst := range list {
		result = append(result, models.InstrumentWithDetails{
			Instrument:         inst,
			AccountName:        names[inst.AccountID],
			RemainingAmount:    inst.Remaining(),
			ProgressPercentage: Progress(inst),
		})
	}
	return result, nil
}

// Progress is the paid share of the principal in percent, 0 for a zero principal.
func Progress(inst models.Instrument) float64 {
	if !inst.Amount.IsPositive() {
		return 0
	}
	return inst.PaidAmount.Div(inst.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
