package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/notification"
	"github.com/homelyapp/backend/internal/service/sharing"
)

type notificationService interface {
	List(ctx context.Context, input notification.ListInput) (*notification.Feed, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharingDecider interface {
	Accept(ctx context.Context, input sharing.DecisionInput) error
	Reject(ctx context.Context, input sharing.DecisionInput) error
}

// NotificationHandler serves the notification feed and the accept/reject
// endpoints for sharing invites.
type NotificationHandler struct {
	svc     notificationService
	sharing sharingDecider
	log     *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, sharing sharingDecider, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, sharing: sharing, log: logger.With("handler", "notification")}
}

type notificationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Sender      string    `json:"sender,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceID    string    `json:"sourceId"`
	SourceType  string    `json:"sourceType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:          n.ID.String(),
		Type:        n.Type.String(),
		Status:      n.Status.String(),
		Title:       n.Title,
		Description: n.Description,
		SourceID:    n.Source.ID.String(),
		SourceType:  n.Source.Type.String(),
		CreatedAt:   n.CreatedAt,
	}
	if n.Sender != uuid.Nil {
		resp.Sender = n.Sender.String()
	}
	return resp
}

// List handles GET /notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	feed, err := h.svc.List(r.Context(), notification.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]notificationResponse, len(feed.Notifications))
	for i := range feed.Notifications {
		out[i] = toNotificationResponse(&feed.Notifications[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": out,
		"total":         feed.Total,
	})
}

// Accept handles POST /notifications/{id}/accept.
func (h *NotificationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sharing.Accept(r.Context(), sharing.DecisionInput{NotificationID: id}); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /notifications/{id}/reject.
func (h *NotificationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sharing.Reject(r.Context(), sharing.DecisionInput{NotificationID: id}); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /notifications/{id}.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
