package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge billed on a fixed day of the month.
// Subscriptions are not shareable; they feed due/overdue reminders.
type Subscription struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Title      string
	Amount     decimal.Decimal
	Currency   string
	BillingDay int // 1..28
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DueOn reports whether the subscription bills on the given date.
// Billing days are capped at 28 so every month has one.
func (s *Subscription) DueOn(day time.Time) bool {
	return s.Active && day.Day() == s.BillingDay
}
