package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/note"
	"github.com/homelyapp/backend/internal/service/sharing"
)

type noteService interface {
	Create(ctx context.Context, input note.CreateInput) (*domain.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	List(ctx context.Context, input note.ListInput) ([]domain.Note, error)
	Update(ctx context.Context, input note.UpdateInput) (*domain.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NoteHandler serves the note endpoints.
type NoteHandler struct {
	svc     noteService
	sharing sharingRemover
	log     *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(svc noteService, sharing sharingRemover, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, sharing: sharing, log: logger.With("handler", "note")}
}

type noteRequest struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Targets []shareTargetRequest `json:"targets"`
}

type noteResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	ShareInfo []shareInfoResponse `json:"shareInfo"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Body:      n.Body,
		ShareInfo: toShareInfoResponse(n.Shared),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.svc.Create(r.Context(), note.CreateInput{
		Title:   req.Title,
		Body:    req.Body,
		Targets: toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

// Get handles GET /notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// List handles GET /notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context(), note.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]noteResponse, len(notes))
	for i := range notes {
		out[i] = toNoteResponse(&notes[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": out})
}

// Update handles PUT /notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.svc.Update(r.Context(), note.UpdateInput{
		ID:      id,
		Title:   req.Title,
		Body:    req.Body,
		Targets: toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// Delete handles DELETE /notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// RemoveShare handles DELETE /notes/{id}/shares/{uid}.
func (h *NoteHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathUUID(w, r, "uid")
	if !ok {
		return
	}

	err := h.sharing.RemoveSharing(r.Context(), sharing.RemoveInput{
		Kind:      domain.EntityKindNote,
		EntityID:  id,
		TargetUID: uid,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
