package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// CreateInput holds the parameters for creating a calendar event.
type CreateInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
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
	if i.StartsAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "starts_at", Message: "required"})
	}
	if !i.EndsAt.IsZero() && i.EndsAt.Before(i.StartsAt) {
		errs = append(errs, domain.FieldError{Field: "ends_at", Message: "must not be before starts_at"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a calendar event.
type UpdateInput struct {
	ID          uuid.UUID
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Targets     []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return CreateInput{
		Title:       i.Title,
		Description: i.Description,
		StartsAt:    i.StartsAt,
		EndsAt:      i.EndsAt,
	}.Validate()
}

// ListInput holds the window and pagination parameters for listing events.
type ListInput struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 || i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if i.From != nil && i.To != nil && i.To.Before(*i.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create saves a new calendar event and fires the sharing workflow for any
// targets.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.CalendarEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	shared, err := s.sharer.BuildShareInfo(ctx, input.Targets)
	if err != nil {
		return nil, fmt.Errorf("build share info: %w", err)
	}

	now := nowUTC()
	e := &domain.CalendarEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Shared:      shared,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if len(input.Targets) > 0 {
		s.share(ctx, e.ID, e.Title, input.Targets)
	}

	return e, nil
}

// Get returns a single event if it is visible to the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !domain.VisibleTo(e.UserID, e.Shared, userID) {
		return nil, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}

	return e, nil
}

// List returns the events visible to the caller inside the requested window.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.CalendarEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	rows, err := s.events.ListReachable(ctx, userID, input.From, input.To, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return rows, nil
}

// Update rewrites a calendar event. Owner only.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.CalendarEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.events.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if existing.UserID != userID {
		return nil, domain.ErrForbidden
	}

	shared, err := s.sharer.BuildShareInfo(ctx, input.Targets)
	if err != nil {
		return nil, fmt.Errorf("build share info: %w", err)
	}
	shared = sharing.MergeShareInfo(existing.Shared, shared)
	added := newTargets(existing.Shared, input.Targets)

	e := &domain.CalendarEvent{
		ID:          existing.ID,
		UserID:      existing.UserID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Shared:      shared,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   nowUTC(),
	}
	if err := s.events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if len(added) > 0 {
		s.share(ctx, e.ID, e.Title, added)
	}

	return e, nil
}

// Delete removes a calendar event. Owner only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if e.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.log.InfoContext(ctx, "event deleted",
		slog.String("user_id", userID.String()),
		slog.String("event_id", id.String()),
	)
	return nil
}

func (s *Service) share(ctx context.Context, id uuid.UUID, title string, targets []domain.ShareTarget) {
	err := s.sharer.ShareWithUsers(ctx, sharing.ShareInput{
		Kind:        domain.EntityKindCalendarEvent,
		EntityID:    id,
		EntityTitle: title,
		Targets:     targets,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "share event failed",
			slog.String("event_id", id.String()),
			slog.Any("error", err),
		)
	}
}
