package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// CreateInput holds the parameters for creating a task.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Targets     []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	if len(i.Description) > 2000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a task.
type UpdateInput struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Done        bool
	Targets     []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return CreateInput{Title: i.Title, Description: i.Description, DueDate: i.DueDate}.Validate()
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
