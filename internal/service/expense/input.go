package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
)

// CreateInput holds the parameters for creating an expense or revenue entry.
type CreateInput struct {
	Kind     domain.ExpenseKind
	Title    string
	Amount   decimal.Decimal
	Currency string
	Category string
	DueDate  time.Time
	Paid     bool
	Targets  []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be expense or revenue"})
	}
	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	if i.Amount.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be non-negative"})
	}
	if len(i.Currency) != 3 {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	if i.DueDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "due_date", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating an expense.
type UpdateInput struct {
	ID       uuid.UUID
	Kind     domain.ExpenseKind
	Title    string
	Amount   decimal.Decimal
	Currency string
	Category string
	DueDate  time.Time
	Paid     bool
	Targets  []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return CreateInput{
		Kind:     i.Kind,
		Title:    i.Title,
		Amount:   i.Amount,
		Currency: i.Currency,
		Category: i.Category,
		DueDate:  i.DueDate,
		Paid:     i.Paid,
	}.Validate()
}

// ListInput holds pagination parameters.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
