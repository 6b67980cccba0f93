package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the allocation bucket an expense draws from.
type Category string

const (
	CategoryNeeds   Category = "needs"
	CategoryWants   Category = "wants"
	CategorySavings Category = "savings"
)

// Categories lists the three allocation buckets in display order.
var Categories = []Category{CategoryNeeds, CategoryWants, CategorySavings}

// Valid reports whether c is one of the three allocation buckets.
func (c Category) Valid() bool {
	return c == CategoryNeeds || c == CategoryWants || c == CategorySavings
}

// ExpenseType distinguishes one-off purchases from scheduled bills.
type ExpenseType string

const (
	ExpenseOneTime   ExpenseType = "one-time"
	ExpenseRecurring ExpenseType = "recurring"
)

// ExpenseCategory is the descriptive grouping shown in lists and breakdowns.
type ExpenseCategory string

const (
	ExpenseHousing       ExpenseCategory = "housing"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseUtilities     ExpenseCategory = "utilities"
	ExpenseHealth        ExpenseCategory = "health"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseOther         ExpenseCategory = "other"
)

// ExpenseCategories lists the descriptive groupings in display order.
var ExpenseCategories = []ExpenseCategory{
	ExpenseHousing, ExpenseFood, ExpenseTransport, ExpenseUtilities,
	ExpenseHealth, ExpenseEntertainment, ExpenseOther,
}

// Expense is a single recorded expense. A one-time expense is attributed to
// CreatedAt; a recurring expense carries a pay cycle and its next payment date.
type Expense struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Category        ExpenseCategory `json:"category"`
	SpendFrom       Category        `json:"spend_from"`
	Type            ExpenseType     `json:"expense_type"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	PayCycle        PayCycle        `json:"pay_cycle,omitempty"`
	NextPaymentDate time.Time       `json:"next_payment_date,omitzero"`
}
