package ledger

import (
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/validation"
)

var accountMessages = validation.Messages{
	"Name":                       "Account name is required",
	"Type":                       "Invalid account type '%v'",
	"AutoFillAmount.required_if": "Auto-fill amount is required when auto-fill is enabled",
	"AutoFillDay.required_if":    "Auto-fill day is required when auto-fill is enabled",
	"AutoFillDay":                "Auto-fill day must be between 1 and 31",
}

func validateCreate(in models.CreateAccountInput) error {
	return validation.Struct(in, accountMessages)
}

func validateUpdate(in models.UpdateAccountInput) error {
	return validation.Struct(in, accountMessages)
}

// validateAutoFill checks a patched account: the auto-fill amount and day
// travel together with the flag.
func validateAutoFill(account models.Account) error {
	if !account.AutoFillEnabled {
		return nil
	}
	if !account.AutoFillAmount.Valid {
		return apperrors.Validation("Auto-fill amount is required when auto-fill is enabled")
	}
	if account.AutoFillDay == nil {
		return apperrors.Validation("Auto-fill day is required when auto-fill is enabled")
	}
	return nil
}
