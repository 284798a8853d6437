package sharing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// BuildShareInfo builds the two share columns for an entity from the target
// list. AcceptedAt is set optimistically for targets who already accepted an
// invitation from the caller, nil otherwise. Entity services call this at
// create/update time so the entity embeds the acceptance snapshot; the
// acceptance handler back-fills it when a pending invitation is accepted
// later.
func (s *Service) BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error) {
	owner, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Shared{}, domain.ErrUnauthorized
	}
	if len(targets) == 0 {
		return domain.Shared{}, nil
	}

	invs, err := s.invitations.ListByInviter(ctx, owner)
	if err != nil {
		return domain.Shared{}, fmt.Errorf("list invitations: %w", err)
	}

	return buildShared(targets, invs, time.Now().UTC()), nil
}

// MergeShareInfo overlays an entity's existing acceptance state onto a
// freshly built snapshot. A target who already accepted keeps their original
// AcceptedAt; targets absent from next are dropped. Entity services call this
// on update so editing the target list never resets an acceptance.
func MergeShareInfo(existing, next domain.Shared) domain.Shared {
	prior := make(map[uuid.UUID]*time.Time, len(existing.ShareInfo))
	for _, e := range existing.ShareInfo {
		if e.AcceptedAt != nil {
			prior[e.UID] = e.AcceptedAt
		}
	}

	for i, e := range next.ShareInfo {
		if at, ok := prior[e.UID]; ok {
			next.ShareInfo[i].AcceptedAt = at
		}
	}
	return next
}

// buildShared constructs ShareWith and ShareInfo in lockstep from the same
// target list. Duplicate targets collapse to one entry.
func buildShared(targets []domain.ShareTarget, invs []domain.SharingInvitation, now time.Time) domain.Shared {
	accepted := make(map[uuid.UUID]bool)
	for _, inv := range invs {
		if inv.Status == domain.InviteStatusAccepted {
			accepted[inv.Target] = true
		}
	}

	var shared domain.Shared
	seen := make(map[uuid.UUID]bool, len(targets))
	for _, t := range targets {
		if seen[t.UID] {
			continue
		}
		seen[t.UID] = true

		entry := domain.ShareInfoEntry{UID: t.UID, UserName: t.UserName}
		if accepted[t.UID] {
			at := now
			entry.AcceptedAt = &at
		}
		shared.ShareWith = append(shared.ShareWith, t.UID)
		shared.ShareInfo = append(shared.ShareInfo, entry)
	}
	return shared
}
