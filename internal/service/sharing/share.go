package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// ShareWithUsers ensures every target ends up invited, notified and
// push-alerted, without duplicating invitations.
//
// The owner's invitations are fetched once for the whole batch. Per target,
// three side effects run concurrently and settle independently: the in-app
// notification, the invitation (created only when no invitation exists for
// the pair) and the push enqueue. An individual failure is logged, never
// returned; the caller's save must not fail because a notification did.
func (s *Service) ShareWithUsers(ctx context.Context, input ShareInput) error {
	owner, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}
	if len(input.Targets) > s.maxTargets {
		return domain.NewValidationError("targets", fmt.Sprintf("max %d targets per share", s.maxTargets))
	}
	for _, t := range input.Targets {
		if t.UID == owner {
			return domain.NewValidationError("targets", "cannot share with yourself")
		}
	}

	invs, err := s.invitations.ListByInviter(ctx, owner)
	if err != nil {
		return fmt.Errorf("list invitations: %w", err)
	}

	inviter, err := s.users.GetByID(ctx, owner)
	if err != nil {
		return fmt.Errorf("get inviter: %w", err)
	}

	accepted := make(map[uuid.UUID]bool)
	exists := make(map[uuid.UUID]bool)
	for _, inv := range invs {
		exists[inv.Target] = true
		if inv.Status == domain.InviteStatusAccepted {
			accepted[inv.Target] = true
		}
	}

	now := time.Now().UTC()
	var wg sync.WaitGroup

	seen := make(map[uuid.UUID]bool, len(input.Targets))
	for _, target := range input.Targets {
		if seen[target.UID] {
			continue
		}
		seen[target.UID] = true

		alreadySharing := accepted[target.UID]
		requestExists := exists[target.UID]
		title, message := shareMessage(inviter.Name, input.EntityTitle, alreadySharing)

		wg.Add(1)
		go func(target domain.ShareTarget) {
			defer wg.Done()
			s.createNotification(ctx, owner, target.UID, input, title, message, alreadySharing, now)
		}(target)

		if !alreadySharing && !requestExists {
			wg.Add(1)
			go func(target domain.ShareTarget) {
				defer wg.Done()
				s.createInvitation(ctx, owner, target.UID, now)
			}(target)
		}

		wg.Add(1)
		go func(target domain.ShareTarget) {
			defer wg.Done()
			if err := s.outbox.Enqueue(ctx, target.UID, title, message); err != nil {
				s.log.ErrorContext(ctx, "enqueue push failed",
					slog.String("owner", owner.String()),
					slog.String("target", target.UID.String()),
					slog.Any("error", err),
				)
			}
		}(target)
	}
	wg.Wait()

	return nil
}

func (s *Service) createNotification(ctx context.Context, owner, target uuid.UUID, input ShareInput, title, message string, alreadySharing bool, now time.Time) {
	status := domain.NotificationStatusPending
	if alreadySharing {
		status = domain.NotificationStatusSharingAccepted
	}

	n := &domain.Notification{
		ID:          uuid.New(),
		Type:        domain.NotificationTypeSharingInvite,
		Status:      status,
		Sender:      owner,
		Receiver:    target,
		Title:       title,
		Description: message,
		Source: domain.NotificationSource{
			ID:   input.EntityID,
			Type: input.Kind,
		},
		CreatedAt: now,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.ErrorContext(ctx, "create sharing notification failed",
			slog.String("owner", owner.String()),
			slog.String("target", target.String()),
			slog.Any("error", err),
		)
	}
}

func (s *Service) createInvitation(ctx context.Context, owner, target uuid.UUID, now time.Time) {
	inv := &domain.SharingInvitation{
		ID:        uuid.New(),
		InvitedBy: owner,
		Target:    target,
		Status:    domain.InviteStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.invitations.CreateIfAbsent(ctx, inv)
	if err != nil {
		s.log.ErrorContext(ctx, "create invitation failed",
			slog.String("owner", owner.String()),
			slog.String("target", target.String()),
			slog.Any("error", err),
		)
		return
	}
	if !created {
		// Lost the race to a concurrent share for the same pair.
		s.log.InfoContext(ctx, "invitation already exists",
			slog.String("owner", owner.String()),
			slog.String("target", target.String()),
		)
		return
	}
	s.log.InfoContext(ctx, "sharing invitation created",
		slog.String("owner", owner.String()),
		slog.String("target", target.String()),
		slog.String("invitation_id", inv.ID.String()),
	)
}

func shareMessage(inviterName, entityTitle string, alreadySharing bool) (title, message string) {
	if alreadySharing {
		return "New shared item", fmt.Sprintf("%s added %q to your shared items", inviterName, entityTitle)
	}
	return "Sharing invitation", fmt.Sprintf("%s invited you to see %q", inviterName, entityTitle)
}
