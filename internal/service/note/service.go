// Package note provides free-form note management.
package note

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

const DefaultLimit = 50

type noteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharer interface {
	BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsers(ctx context.Context, input sharing.ShareInput) error
}

// Service provides note operations.
type Service struct {
	notes  noteRepo
	sharer sharer
	log    *slog.Logger
}

// NewService creates a new Note service.
func NewService(
	log *slog.Logger,
	notes noteRepo,
	sharer sharer,
) *Service {
	return &Service{
		notes:  notes,
		sharer: sharer,
		log:    log.With("service", "note"),
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
