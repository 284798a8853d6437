package domain

import (
	"time"

	"github.com/google/uuid"
)

// SharingInvitation is a peer-to-peer invitation from one user to another.
// A single invitation covers every entity the inviter shares with the target:
// once the target accepts, later shares between the same pair are visible
// immediately without a new round trip.
//
// At most one non-rejected invitation exists per (InvitedBy, Target) pair.
// The store enforces this with a partial unique index, so creation is an
// atomic create-if-absent rather than a query-then-insert.
type SharingInvitation struct {
	ID        uuid.UUID
	InvitedBy uuid.UUID
	Target    uuid.UUID
	Status    InviteStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShareTarget is a user the owner wants to share an entity with.
// UserName is captured at share time and denormalized into ShareInfo.
type ShareTarget struct {
	UID      uuid.UUID
	UserName string
}

// ShareInfoEntry records one target user's acceptance state on a shareable
// entity. AcceptedAt is nil until the target accepts the invitation; it is
// set optimistically at entity creation time when an accepted invitation
// already exists between the pair.
type ShareInfoEntry struct {
	UID        uuid.UUID  `json:"uid"`
	UserName   string     `json:"userName"`
	AcceptedAt *time.Time `json:"acceptedAt"`
}

// Shared groups the two share columns every shareable entity carries.
// ShareWith is the flat uid list used for array-contains queries; ShareInfo
// holds the per-user acceptance records. The two are always built in lockstep
// from the same target list and must never drift apart.
type Shared struct {
	ShareWith []uuid.UUID
	ShareInfo []ShareInfoEntry
}

// AcceptedBy reports whether uid has an accepted entry in ShareInfo.
func (s Shared) AcceptedBy(uid uuid.UUID) bool {
	for _, e := range s.ShareInfo {
		if e.UID == uid && e.AcceptedAt != nil {
			return true
		}
	}
	return false
}

// SharedWith reports whether uid appears in ShareWith.
func (s Shared) SharedWith(uid uuid.UUID) bool {
	for _, id := range s.ShareWith {
		if id == uid {
			return true
		}
	}
	return false
}

// VisibleTo is the single visibility predicate for shareable entities:
// the owner always sees the entity; a shared user sees it only after
// accepting the invitation. Pending and rejected shares are invisible.
func VisibleTo(owner uuid.UUID, s Shared, uid uuid.UUID) bool {
	if owner == uid {
		return true
	}
	return s.SharedWith(uid) && s.AcceptedBy(uid)
}
