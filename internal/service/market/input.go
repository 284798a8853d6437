package market

import (
	"strings"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// CreateInput holds the parameters for creating a market item.
type CreateInput struct {
	Name     string
	Quantity int
	Targets  []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if i.Quantity < 1 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a market item.
type UpdateInput struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	Purchased bool
	Targets   []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return CreateInput{Name: i.Name, Quantity: i.Quantity}.Validate()
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
	if i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 500"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
