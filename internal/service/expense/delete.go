package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Delete removes an expense. Owner only; shared users drop their own
// visibility through the sharing service instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
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

	if err := s.expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.log.InfoContext(ctx, "expense deleted",
		slog.String("user_id", userID.String()),
		slog.String("expense_id", id.String()),
	)
	return nil
}
