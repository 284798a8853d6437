package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Accept processes the receiver's positive decision on a sharing invite:
// the notification becomes sharing_accepted, the pair's invitation becomes
// accepted, and the source entity's share_info entry for the receiver gets
// its acceptedAt back-filled. A source entity that was deleted after sharing
// is logged and tolerated; the acceptance itself still commits.
func (s *Service) Accept(ctx context.Context, input DecisionInput) error {
	return s.decide(ctx, input, true)
}

// Reject processes the receiver's negative decision: notification and
// invitation both become rejected. The entity's share_info is left alone,
// so the entity stays invisible to the target (acceptedAt stays nil).
func (s *Service) Reject(ctx context.Context, input DecisionInput) error {
	return s.decide(ctx, input, false)
}

func (s *Service) decide(ctx context.Context, input DecisionInput, accept bool) error {
	receiver, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	n, err := s.notifications.GetByID(ctx, input.NotificationID)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if n.Receiver != receiver {
		return domain.ErrForbidden
	}
	if !n.IsActionable() {
		return fmt.Errorf("notification %s is not a pending invite: %w", n.ID, domain.ErrConflict)
	}

	notifStatus := domain.NotificationStatusSharingAccepted
	invStatus := domain.InviteStatusAccepted
	if !accept {
		notifStatus = domain.NotificationStatusSharingRejected
		invStatus = domain.InviteStatusRejected
	}

	now := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.notifications.UpdateStatus(ctx, n.ID, notifStatus); err != nil {
			return fmt.Errorf("update notification status: %w", err)
		}

		inv, err := s.invitations.FindActivePair(ctx, n.Sender, receiver)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// The notification outlived its invitation. Record the decision
			// on the notification anyway.
			s.log.WarnContext(ctx, "invitation missing for notification",
				slog.String("notification_id", n.ID.String()),
				slog.String("sender", n.Sender.String()),
				slog.String("receiver", receiver.String()),
			)
		case err != nil:
			return fmt.Errorf("find invitation: %w", err)
		default:
			if err := s.invitations.UpdateStatus(ctx, inv.ID, invStatus); err != nil {
				return fmt.Errorf("update invitation status: %w", err)
			}
		}

		if !accept {
			return nil
		}

		store, err := s.storeFor(n.Source.Type)
		if err != nil {
			return err
		}
		if err := store.AcceptShare(ctx, n.Source.ID, receiver, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Owner deleted the entity after sharing it.
				s.log.WarnContext(ctx, "shared entity vanished before acceptance",
					slog.String("notification_id", n.ID.String()),
					slog.String("entity_kind", n.Source.Type.String()),
					slog.String("entity_id", n.Source.ID.String()),
				)
				return nil
			}
			return fmt.Errorf("accept share on %s: %w", n.Source.Type, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "sharing decision recorded",
		slog.String("notification_id", n.ID.String()),
		slog.String("receiver", receiver.String()),
		slog.Bool("accepted", accept),
	)
	return nil
}
