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

// Create saves a new expense. The share columns embed the acceptance
// snapshot at creation time; sharing side effects run afterwards and never
// fail the save.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Expense, error) {
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
	e := &domain.Expense{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      input.Kind,
		Title:     input.Title,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Category:  input.Category,
		DueDate:   input.DueDate,
		Paid:      input.Paid,
		Shared:    shared,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.log.InfoContext(ctx, "expense created",
		slog.String("user_id", userID.String()),
		slog.String("expense_id", e.ID.String()),
		slog.String("kind", e.Kind.String()),
	)

	if len(input.Targets) > 0 {
		s.share(ctx, e.ID, e.Title, input.Targets)
	}

	return e, nil
}

// share fires the sharing workflow. Failures are logged, never returned:
// the primary save already succeeded.
func (s *Service) share(ctx context.Context, id uuid.UUID, title string, targets []domain.ShareTarget) {
	err := s.sharer.ShareWithUsers(ctx, sharing.ShareInput{
		Kind:        domain.EntityKindExpense,
		EntityID:    id,
		EntityTitle: title,
		Targets:     targets,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "share expense failed",
			slog.String("expense_id", id.String()),
			slog.Any("error", err),
		)
	}
}
