// Package event provides calendar event management.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

const DefaultLimit = 100

type eventRepo interface {
	Create(ctx context.Context, e *domain.CalendarEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error)
	ListReachable(ctx context.Context, uid uuid.UUID, from, to *time.Time, limit, offset int) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, e *domain.CalendarEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharer interface {
	BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsers(ctx context.Context, input sharing.ShareInput) error
}

// Service provides calendar event operations.
type Service struct {
	events eventRepo
	sharer sharer
	log    *slog.Logger
}

// NewService creates a new Event service.
func NewService(
	log *slog.Logger,
	events eventRepo,
	sharer sharer,
) *Service {
	return &Service{
		events: events,
		sharer: sharer,
		log:    log.With("service", "event"),
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
