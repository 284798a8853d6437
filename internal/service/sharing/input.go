package sharing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// ShareInput holds the parameters for sharing an entity with a set of users.
type ShareInput struct {
	Kind        domain.EntityKind
	EntityID    uuid.UUID
	EntityTitle string
	Targets     []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i ShareInput) Validate() error {
	var errs []domain.FieldError

	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "unknown entity kind"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if strings.TrimSpace(i.EntityTitle) == "" {
		errs = append(errs, domain.FieldError{Field: "entity_title", Message: "required"})
	}
	if len(i.Targets) == 0 {
		errs = append(errs, domain.FieldError{Field: "targets", Message: "required"})
	}
	for _, t := range i.Targets {
		if t.UID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "targets", Message: "target uid required"})
			break
		}
		if strings.TrimSpace(t.UserName) == "" {
			errs = append(errs, domain.FieldError{Field: "targets", Message: "target user name required"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DecisionInput holds the parameters for accepting or rejecting an invitation.
type DecisionInput struct {
	NotificationID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DecisionInput) Validate() error {
	if i.NotificationID == uuid.Nil {
		return domain.NewValidationError("notification_id", "required")
	}
	return nil
}

// RemoveInput holds the parameters for removing a user from an entity's share.
type RemoveInput struct {
	Kind      domain.EntityKind
	EntityID  uuid.UUID
	TargetUID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i RemoveInput) Validate() error {
	var errs []domain.FieldError

	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "unknown entity kind"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.TargetUID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "target_uid", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
