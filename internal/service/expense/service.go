// Package expense provides expense and revenue management.
package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

const DefaultLimit = 50

type expenseRepo interface {
	Create(ctx context.Context, e *domain.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Expense, error)
	Update(ctx context.Context, e *domain.Expense) error
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharer interface {
	BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsers(ctx context.Context, input sharing.ShareInput) error
}

// Service provides expense operations.
type Service struct {
	expenses expenseRepo
	sharer   sharer
	log      *slog.Logger
}

// NewService creates a new Expense service.
func NewService(
	log *slog.Logger,
	expenses expenseRepo,
	sharer sharer,
) *Service {
	return &Service{
		expenses: expenses,
		sharer:   sharer,
		log:      log.With("service", "expense"),
	}
}

// newTargets returns the targets not already present in the entity's
// share_with list. Only these get the full invite/notify/push treatment.
func newTargets(existing domain.Shared, targets []domain.ShareTarget) []domain.ShareTarget {
	var fresh []domain.ShareTarget
	for _, t := range targets {
		if !existing.SharedWith(t.UID) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func nowUTC() time.Time { return time.Now().UTC() }
