package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Create saves a new task and fires the sharing workflow for any targets.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
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
	t := &domain.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Shared:      shared,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.InfoContext(ctx, "task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", t.ID.String()),
	)

	if len(input.Targets) > 0 {
		s.share(ctx, t.ID, t.Title, input.Targets)
	}

	return t, nil
}

// Get returns a single task if it is visible to the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if !domain.VisibleTo(t.UserID, t.Shared, userID) {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}

	return t, nil
}

// List returns the tasks visible to the caller.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Task, error) {
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

	rows, err := s.tasks.ListReachable(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return rows, nil
}

// Update rewrites a task. Owner only; acceptances survive the edit and
// targets added by it are shared.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Task, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.tasks.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
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

	t := &domain.Task{
		ID:          existing.ID,
		UserID:      existing.UserID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Done:        input.Done,
		Shared:      shared,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   nowUTC(),
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if len(added) > 0 {
		s.share(ctx, t.ID, t.Title, added)
	}

	return t, nil
}

// SetDone toggles the done flag. Owner only.
func (s *Service) SetDone(ctx context.Context, id uuid.UUID, done bool) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if t.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.tasks.SetDone(ctx, id, done); err != nil {
		return fmt.Errorf("set done: %w", err)
	}
	return nil
}

// Delete removes a task. Owner only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if t.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.log.InfoContext(ctx, "task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", id.String()),
	)
	return nil
}

func (s *Service) share(ctx context.Context, id uuid.UUID, title string, targets []domain.ShareTarget) {
	err := s.sharer.ShareWithUsers(ctx, sharing.ShareInput{
		Kind:        domain.EntityKindTask,
		EntityID:    id,
		EntityTitle: title,
		Targets:     targets,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "share task failed",
			slog.String("task_id", id.String()),
			slog.Any("error", err),
		)
	}
}
