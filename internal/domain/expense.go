package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a money movement: an expense or a revenue entry, depending on
// Kind. DueDate is the day the bill is due (or the revenue expected).
type Expense struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      ExpenseKind
	Title     string
	Amount    decimal.Decimal
	Currency  string
	Category  string
	DueDate   time.Time
	Paid      bool
	Shared
	CreatedAt time.Time
	UpdatedAt time.Time
}
