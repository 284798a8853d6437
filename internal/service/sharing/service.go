// Package sharing implements the peer-to-peer sharing workflow: inviting
// users to see an entity, accepting or rejecting the invitation, and keeping
// the per-entity share columns in sync with the invitation state.
package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

const DefaultMaxTargets = 20

type invitationRepo interface {
	CreateIfAbsent(ctx context.Context, inv *domain.SharingInvitation) (bool, error)
	ListByInviter(ctx context.Context, invitedBy uuid.UUID) ([]domain.SharingInvitation, error)
	FindActivePair(ctx context.Context, invitedBy, target uuid.UUID) (*domain.SharingInvitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InviteStatus) error
}

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error
}

type pushOutbox interface {
	Enqueue(ctx context.Context, receiver uuid.UUID, title, message string) error
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// EntityStore is the shareable capability each entity repo implements.
// The orchestrator and acceptance handler are coded against it once instead
// of per entity kind.
type EntityStore interface {
	Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error
	RemoveShare(ctx context.Context, id, uid uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service orchestrates sharing invitations, acceptance and removal across
// every shareable entity kind.
type Service struct {
	invitations   invitationRepo
	notifications notificationRepo
	outbox        pushOutbox
	users         userRepo
	entities      map[domain.EntityKind]EntityStore
	tx            txManager
	maxTargets    int
	log           *slog.Logger
}

// NewService creates a new Sharing service. entities maps each shareable
// entity kind to its store; maxTargets caps the per-call target list
// (DefaultMaxTargets when zero).
func NewService(
	log *slog.Logger,
	invitations invitationRepo,
	notifications notificationRepo,
	outbox pushOutbox,
	users userRepo,
	tx txManager,
	entities map[domain.EntityKind]EntityStore,
	maxTargets int,
) *Service {
	if maxTargets <= 0 {
		maxTargets = DefaultMaxTargets
	}
	return &Service{
		invitations:   invitations,
		notifications: notifications,
		outbox:        outbox,
		users:         users,
		entities:      entities,
		tx:            tx,
		maxTargets:    maxTargets,
		log:           log.With("service", "sharing"),
	}
}

func (s *Service) storeFor(kind domain.EntityKind) (EntityStore, error) {
	store, ok := s.entities[kind]
	if !ok {
		return nil, fmt.Errorf("no store for entity kind %q: %w", kind, domain.ErrValidation)
	}
	return store, nil
}
