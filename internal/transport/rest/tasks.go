package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/internal/service/task"
)

type taskService interface {
	Create(ctx context.Context, input task.CreateInput) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, input task.ListInput) ([]domain.Task, error)
	Update(ctx context.Context, input task.UpdateInput) (*domain.Task, error)
	SetDone(ctx context.Context, id uuid.UUID, done bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	svc     taskService
	sharing sharingRemover
	log     *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc taskService, sharing sharingRemover, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, sharing: sharing, log: logger.With("handler", "task")}
}

type taskRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	DueDate     *time.Time           `json:"dueDate"`
	Done        bool                 `json:"done"`
	Targets     []shareTargetRequest `json:"targets"`
}

type taskResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	DueDate     *time.Time          `json:"dueDate"`
	Done        bool                `json:"done"`
	ShareInfo   []shareInfoResponse `json:"shareInfo"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Done:        t.Done,
		ShareInfo:   toShareInfoResponse(t.Shared),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.svc.Create(r.Context(), task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Targets:     toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context(), task.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.svc.Update(r.Context(), task.UpdateInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Done:        req.Done,
		Targets:     toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// SetDone handles PATCH /tasks/{id}/done.
func (h *TaskHandler) SetDone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Done bool `json:"done"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.SetDone(r.Context(), id, req.Done); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// RemoveShare handles DELETE /tasks/{id}/shares/{uid}.
func (h *TaskHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathUUID(w, r, "uid")
	if !ok {
		return
	}

	err := h.sharing.RemoveSharing(r.Context(), sharing.RemoveInput{
		Kind:      domain.EntityKindTask,
		EntityID:  id,
		TargetUID: uid,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
