package models

import "time"

// CategoryType says which transaction types a category may classify.
type CategoryType string

const (
	CategoryExpense CategoryType = "EXPENSE"
	CategoryIncome  CategoryType = "INCOME"
	CategoryBoth    CategoryType = "BOTH"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryExpense, CategoryIncome, CategoryBoth:
		return true
	}
	return false
}

// Category labels transactions and subscriptions. System categories are seeded
// and never change afterwards.
type Category struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"` // #RRGGBB
	Type      CategoryType `json:"type"`
	IsSystem  bool         `json:"isSystem"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CreateCategoryInput colors are #RRGGBB; hexcolor alone also admits the
// short and alpha forms, hence len=7.
type CreateCategoryInput struct {
	Name     string       `json:"name" validate:"notblank"`
	Icon     string       `json:"icon" validate:"notblank"`
	Color    string       `json:"color" validate:"notblank,hexcolor,len=7"`
	Type     CategoryType `json:"type" validate:"oneof=EXPENSE INCOME BOTH"`
	IsSystem bool         `json:"isSystem"`
}

type UpdateCategoryInput struct {
	Name  *string       `json:"name" validate:"omitnil,notblank"`
	Icon  *string       `json:"icon" validate:"omitnil,notblank"`
	Color *string       `json:"color" validate:"omitnil,notblank,hexcolor,len=7"`
	Type  *CategoryType `json:"type" validate:"omitnil,oneof=EXPENSE INCOME BOTH"`
}
