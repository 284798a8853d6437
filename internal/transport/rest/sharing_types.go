package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// shareTargetRequest is one user to share an entity with.
type shareTargetRequest struct {
	UID      uuid.UUID `json:"uid"`
	UserName string    `json:"userName"`
}

func toShareTargets(reqs []shareTargetRequest) []domain.ShareTarget {
	if len(reqs) == 0 {
		return nil
	}
	targets := make([]domain.ShareTarget, len(reqs))
	for i, t := range reqs {
		targets[i] = domain.ShareTarget{UID: t.UID, UserName: t.UserName}
	}
	return targets
}

type shareInfoResponse struct {
	UID        uuid.UUID  `json:"uid"`
	UserName   string     `json:"userName"`
	AcceptedAt *time.Time `json:"acceptedAt"`
}

func toShareInfoResponse(s domain.Shared) []shareInfoResponse {
	out := make([]shareInfoResponse, len(s.ShareInfo))
	for i, e := range s.ShareInfo {
		out[i] = shareInfoResponse{UID: e.UID, UserName: e.UserName, AcceptedAt: e.AcceptedAt}
	}
	return out
}
