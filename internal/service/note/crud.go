package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// CreateInput holds the parameters for creating a note.
type CreateInput struct {
	Title   string
	Body    string
	Targets []domain.ShareTarget
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
	if len(i.Body) > 20000 {
		errs = append(errs, domain.FieldError{Field: "body", Message: "max 20000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a note.
type UpdateInput struct {
	ID      uuid.UUID
	Title   string
	Body    string
	Targets []domain.ShareTarget
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return CreateInput{Title: i.Title, Body: i.Body}.Validate()
}

// ListInput holds pagination parameters.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create saves a new note and fires the sharing workflow for any targets.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Note, error) {
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
	n := &domain.Note{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     input.Title,
		Body:      input.Body,
		Shared:    shared,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	if len(input.Targets) > 0 {
		s.share(ctx, n.ID, n.Title, input.Targets)
	}

	return n, nil
}

// Get returns a single note if it is visible to the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if !domain.VisibleTo(n.UserID, n.Shared, userID) {
		return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}

	return n, nil
}

// List returns the notes visible to the caller.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Note, error) {
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

	rows, err := s.notes.ListReachable(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return rows, nil
}

// Update rewrites a note. Owner only.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.notes.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
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

	n := &domain.Note{
		ID:        existing.ID,
		UserID:    existing.UserID,
		Title:     input.Title,
		Body:      input.Body,
		Shared:    shared,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: nowUTC(),
	}
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	if len(added) > 0 {
		s.share(ctx, n.ID, n.Title, added)
	}

	return n, nil
}

// Delete removes a note. Owner only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get note: %w", err)
	}
	if n.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.log.InfoContext(ctx, "note deleted",
		slog.String("user_id", userID.String()),
		slog.String("note_id", id.String()),
	)
	return nil
}

func (s *Service) share(ctx context.Context, id uuid.UUID, title string, targets []domain.ShareTarget) {
	err := s.sharer.ShareWithUsers(ctx, sharing.ShareInput{
		Kind:        domain.EntityKindNote,
		EntityID:    id,
		EntityTitle: title,
		Targets:     targets,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "share note failed",
			slog.String("note_id", id.String()),
			slog.Any("error", err),
		)
	}
}
