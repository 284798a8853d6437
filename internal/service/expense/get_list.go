package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Get returns a single expense if it is visible to the caller. A pending
// share is indistinguishable from a missing expense.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	e, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if !domain.VisibleTo(e.UserID, e.Shared, userID) {
		return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}

	return e, nil
}

// List returns the expenses visible to the caller: owned, or shared and
// accepted. The store excludes pending shares, so limit and offset apply
// to the visible set and pages come back full.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Expense, error) {
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

	rows, err := s.expenses.ListReachable(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return rows, nil
}
