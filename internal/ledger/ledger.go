package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountRepository is the part of the record store the ledger needs.
type AccountRepository interface {
	interfaces.TxManager
	interfaces.AccountStore
}

// Ledger owns account balances. It is the only component allowed to change a
// balance; the engines above compose AdjustBalance calls inside their own
// units of work.
type Ledger struct {
	store  AccountRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger creates a Ledger on top of the given store.
func NewLedger(store AccountRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:  store,
		logger: logger.Named("ledger"),
		now:    time.Now,
	}
}

// Create opens an account. The first account ever created becomes the default
// regardless of the input; requesting default clears it everywhere else first.
func (l *Ledger) Create(ctx context.Context, in models.CreateAccountInput) (models.Account, error) {
	if err := validateCreate(in); err != nil {
		return models.Account{}, err
	}

	now := l.now()
	account := models.Account{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		Type:            in.Type,
		Currency:        in.Currency,
		Balance:         in.Balance,
		BankName:        in.BankName,
		AccountNumber:   in.AccountNumber,
		CCI:             in.CCI,
		AutoFillEnabled: in.AutoFillEnabled,
		AutoFillAmount:  in.AutoFillAmount,
		AutoFillDay:     in.AutoFillDay,
		IsDefault:       in.IsDefault,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if account.Currency == "" {
		account.Currency = models.DefaultCurrency
	}
	if !account.AutoFillEnabled {
		account.AutoFillAmount = decimal.NullDecimal{}
		account.AutoFillDay = nil
	}

	err := l.store.WithinTx(ctx, func(ctx context.Context) error {
		count, err := l.store.CountAccounts(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			account.IsDefault = true
		}
		if account.IsDefault {
			if err := l.store.ClearDefaultAccount(ctx); err != nil {
				return err
			}
		}
		return l.store.CreateAccount(ctx, account)
	})
	if err != nil {
		return models.Account{}, apperrors.Database("create account", err)
	}

	l.logger.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("type", string(account.Type)),
		zap.Bool("default", account.IsDefault))
	return account, nil
}

// Update patches the descriptive fields of an account. The balance cannot be
// patched, and the default flag can only be moved, never dropped.
func (l *Ledger) Update(ctx context.Context, id string, in models.UpdateAccountInput) (models.Account, error) {
	if err := validateUpdate(in); err != nil {
		return models.Account{}, err
	}

	var updated models.Account
	err := l.store.WithinTx(ctx, func(ctx context.Context) error {
		account, err := l.store.GetAccount(ctx, id)
		if err != nil {
			return apperrors.Lookup("get account", "Account", id, err)
		}

		if in.Name != nil {
			account.Name = strings.TrimSpace(*in.Name)
		}
		if in.Type != nil {
			account.Type = *in.Type
		}
		if in.Currency != nil {
			account.Currency = *in.Currency
		}
		if in.BankName != nil {
			account.BankName = in.BankName
		}
		if in.AccountNumber != nil {
			account.AccountNumber = in.AccountNumber
		}
		if in.CCI != nil {
			account.CCI = in.CCI
		}
		if in.AutoFillEnabled != nil {
			account.AutoFillEnabled = *in.AutoFillEnabled
		}
		if in.AutoFillAmount != nil {
			account.AutoFillAmount = decimal.NewNullDecimal(*in.AutoFillAmount)
		}
		if in.AutoFillDay != nil {
			account.AutoFillDay = in.AutoFillDay
		}
		if !account.AutoFillEnabled {
			account.AutoFillAmount = decimal.NullDecimal{}
			account.AutoFillDay = nil
		}

		if err := validateAutoFill(account); err != nil {
			return err
		}

		if in.IsDefault != nil && *in.IsDefault != account.IsDefault {
			if !*in.IsDefault {
				return apperrors.Validation("Cannot unset the default account. Set another account as default instead.")
			}
			if err := l.store.ClearDefaultAccount(ctx); err != nil {
				return err
			}
			account.IsDefault = true
		}

		account.UpdatedAt = l.now()
		if err := l.store.UpdateAccount(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return models.Account{}, apperrors.Database("update account", err)
	}

	l.logger.Info("account updated", zap.String("account_id", updated.ID))
	return updated, nil
}

// SetDefault moves the default flag to id in one unit of work.
func (l *Ledger) SetDefault(ctx context.Context, id string) (models.Account, error) {
	var account models.Account
	err := l.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = l.store.GetAccount(ctx, id)
		if err != nil {
			return apperrors.Lookup("get account", "Account", id, err)
		}
		if err := l.store.ClearDefaultAccount(ctx); err != nil {
			return err
		}
		account.IsDefault = true
		account.UpdatedAt = l.now()
		return l.store.UpdateAccount(ctx, account)
	})
	if err != nil {
		return models.Account{}, apperrors.Database("set default account", err)
	}

	l.logger.Info("default account changed", zap.String("account_id", id))
	return account, nil
}

// Delete removes an account and, through the store, everything it owns.
// The only account and the default account cannot be deleted.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	err := l.store.WithinTx(ctx, func(ctx context.Context) error {
		account, err := l.store.GetAccount(ctx, id)
		if err != nil {
			return apperrors.Lookup("get account", "Account", id, err)
		}
		count, err := l.store.CountAccounts(ctx)
		if err != nil {
			return err
		}
		if count == 1 {
			return apperrors.Validation("Cannot delete the only account")
		}
		if account.IsDefault {
			return apperrors.Validation("Cannot delete the default account. Set another account as default first.")
		}
		return l.store.DeleteAccount(ctx, id)
	})
	if err != nil {
		return apperrors.Database("delete account", err)
	}

	l.logger.Info("account deleted", zap.String("account_id", id))
	return nil
}

// AdjustBalance adds delta to the balance of account id. It is the sole
// balance-mutation primitive. No bound is enforced: overdraft is allowed.
// Called with a unit-of-work context it joins that unit.
func (l *Ledger) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (models.Account, error) {
	account, err := l.store.AddToBalance(ctx, id, delta)
	if err != nil {
		return models.Account{}, apperrors.Lookup("adjust balance", "Account", id, err)
	}

	l.logger.Debug("balance adjusted",
		zap.String("account_id", id),
		zap.String("delta", delta.String()),
		zap.String("balance", account.Balance.String()))
	return account, nil
}

// ValidateExists fails with a ValidationError when id does not name an
// account. Engines call it to validate foreign account ids in their input.
func (l *Ledger) ValidateExists(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Validation("Account is required")
	}
	_, err := l.store.GetAccount(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Validation("Account with id '%s' not found", id)
	}
	return apperrors.Database("get account", err)
}

func (l *Ledger) Get(ctx context.Context, id string) (models.Account, error) {
	account, err := l.store.GetAccount(ctx, id)
	if err != nil {
		return models.Account{}, apperrors.Lookup("get account", "Account", id, err)
	}
	return account, nil
}

// GetAll returns every account, oldest first.
func (l *Ledger) GetAll(ctx context.Context) ([]models.Account, error) {
	accounts, err := l.store.ListAccounts(ctx)
	if err != nil {
		return nil, apperrors.Database("list accounts", err)
	}
	return accounts, nil
}

func (l *Ledger) GetDefault(ctx context.Context) (models.Account, error) {
	account, err := l.store.GetDefaultAccount(ctx)
	if err != nil {
		return models.Account{}, apperrors.Lookup("get default account", "Account", "default", err)
	}
	return account, nil
}

// GetSummary totals balances overall and per account type.
func (l *Ledger) GetSummary(ctx context.Context) (models.AccountSummary, error) {
	accounts, err := l.GetAll(ctx)
	if err != nil {
		return models.AccountSummary{}, err
	}

	summary := models.AccountSummary{
		TotalBalance: decimal.Zero,
		AccountCount: len(accounts),
		ByType: map[models.AccountType]decimal.Decimal{
			models.AccountBank:  decimal.Zero,
			models.AccountCash:  decimal.Zero,
			models.AccountCard:  decimal.Zero,
			models.AccountOther: decimal.Zero,
		},
	}
	for _, account := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(account.Balance)
		summary.ByType[account.Type] = summary.ByType[account.Type].Add(account.Balance)
	}
	return summary, nil
}

// EnsureDefault opens a cash account when none exists yet.
func (l *Ledger) EnsureDefault(ctx context.Context) error {
	count, err := l.store.CountAccounts(ctx)
	if err != nil {
		return apperrors.Database("count accounts", err)
	}
	if count > 0 {
		return nil
	}
	_, err = l.Create(ctx, models.CreateAccountInput{
		Name:      "Cash",
		Type:      models.AccountCash,
		Currency:  models.DefaultCurrency,
		IsDefault: true,
	})
	return err
}
