package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Update rewrites an expense. Owner only. The share columns are rebuilt from
// the new target list with existing acceptances preserved; targets added by
// this edit get the full sharing workflow.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Expense, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.expenses.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
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

	e := &domain.Expense{
		ID:        existing.ID,
		UserID:    existing.UserID,
		Kind:      input.Kind,
		Title:     input.Title,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Category:  input.Category,
		DueDate:   input.DueDate,
		Paid:      input.Paid,
		Shared:    shared,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: nowUTC(),
	}
	if err := s.expenses.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	if len(added) > 0 {
		s.share(ctx, e.ID, e.Title, added)
	}

	return e, nil
}

// SetPaid toggles the paid flag. Owner only.
func (s *Service) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	e, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if e.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.expenses.SetPaid(ctx, id, paid); err != nil {
		return fmt.Errorf("set paid: %w", err)
	}

	s.log.InfoContext(ctx, "expense paid flag changed",
		slog.String("expense_id", id.String()),
		slog.Bool("paid", paid),
	)
	return nil
}
