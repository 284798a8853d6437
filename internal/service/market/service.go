// Package market provides shopping list management.
package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

const DefaultLimit = 100

type marketRepo interface {
	Create(ctx context.Context, m *domain.MarketItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error)
	ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.MarketItem, error)
	Update(ctx context.Context, m *domain.MarketItem) error
	SetPurchased(ctx context.Context, id uuid.UUID, purchased bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharer interface {
	BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsers(ctx context.Context, input sharing.ShareInput) error
}

// Service provides market item operations.
type Service struct {
	items  marketRepo
	sharer sharer
	log    *slog.Logger
}

// NewService creates a new Market service.
func NewService(
	log *slog.Logger,
	items marketRepo,
	sharer sharer,
) *Service {
	return &Service{
		items:  items,
		sharer: sharer,
		log:    log.With("service", "market"),
	}
}

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
