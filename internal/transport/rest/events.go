package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/event"
	"github.com/homelyapp/backend/internal/service/sharing"
)

type eventService interface {
	Create(ctx context.Context, input event.CreateInput) (*domain.CalendarEvent, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error)
	List(ctx context.Context, input event.ListInput) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, input event.UpdateInput) (*domain.CalendarEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventHandler serves the calendar event endpoints.
type EventHandler struct {
	svc     eventService
	sharing sharingRemover
	log     *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(svc eventService, sharing sharingRemover, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, sharing: sharing, log: logger.With("handler", "event")}
}

type eventRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	StartsAt    time.Time            `json:"startsAt"`
	EndsAt      time.Time            `json:"endsAt"`
	Targets     []shareTargetRequest `json:"targets"`
}

type eventResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	StartsAt    time.Time           `json:"startsAt"`
	EndsAt      time.Time           `json:"endsAt"`
	ShareInfo   []shareInfoResponse `json:"shareInfo"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func toEventResponse(e *domain.CalendarEvent) eventResponse {
	return eventResponse{
		ID:          e.ID.String(),
		UserID:      e.UserID.String(),
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		ShareInfo:   toShareInfoResponse(e.Shared),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.Create(r.Context(), event.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Targets:     toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(e))
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// List handles GET /events?from=...&to=... with an optional time window.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	input := event.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		input.From = &from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		input.To = &to
	}

	events, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]eventResponse, len(events))
	for i := range events {
		out[i] = toEventResponse(&events[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// Update handles PUT /events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.Update(r.Context(), event.UpdateInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Targets:     toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// RemoveShare handles DELETE /events/{id}/shares/{uid}.
func (h *EventHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathUUID(w, r, "uid")
	if !ok {
		return
	}

	err := h.sharing.RemoveSharing(r.Context(), sharing.RemoveInput{
		Kind:      domain.EntityKindCalendarEvent,
		EntityID:  id,
		TargetUID: uid,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
