package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/expense"
	"github.com/homelyapp/backend/internal/service/sharing"
)

type expenseService interface {
	Create(ctx context.Context, input expense.CreateInput) (*domain.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	List(ctx context.Context, input expense.ListInput) ([]domain.Expense, error)
	Update(ctx context.Context, input expense.UpdateInput) (*domain.Expense, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharingRemover interface {
	RemoveSharing(ctx context.Context, input sharing.RemoveInput) error
}

// ExpenseHandler serves the expense endpoints.
type ExpenseHandler struct {
	svc     expenseService
	sharing sharingRemover
	log     *slog.Logger
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(svc expenseService, sharing sharingRemover, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, sharing: sharing, log: logger.With("handler", "expense")}
}

type expenseRequest struct {
	Kind     string               `json:"kind"`
	Title    string               `json:"title"`
	Amount   decimal.Decimal      `json:"amount"`
	Currency string               `json:"currency"`
	Category string               `json:"category"`
	DueDate  time.Time            `json:"dueDate"`
	Paid     bool                 `json:"paid"`
	Targets  []shareTargetRequest `json:"targets"`
}

type expenseResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Kind      string              `json:"kind"`
	Title     string              `json:"title"`
	Amount    decimal.Decimal     `json:"amount"`
	Currency  string              `json:"currency"`
	Category  string              `json:"category,omitempty"`
	DueDate   time.Time           `json:"dueDate"`
	Paid      bool                `json:"paid"`
	ShareInfo []shareInfoResponse `json:"shareInfo"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Kind:      e.Kind.String(),
		Title:     e.Title,
		Amount:    e.Amount,
		Currency:  e.Currency,
		Category:  e.Category,
		DueDate:   e.DueDate,
		Paid:      e.Paid,
		ShareInfo: toShareInfoResponse(e.Shared),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateInput{
		Kind:     domain.ExpenseKind(req.Kind),
		Title:    req.Title,
		Amount:   req.Amount,
		Currency: req.Currency,
		Category: req.Category,
		DueDate:  req.DueDate,
		Paid:     req.Paid,
		Targets:  toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(e))
}

// Get handles GET /expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(e))
}

// List handles GET /expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.List(r.Context(), expense.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i := range expenses {
		out[i] = toExpenseResponse(&expenses[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

// Update handles PUT /expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.Update(r.Context(), expense.UpdateInput{
		ID:       id,
		Kind:     domain.ExpenseKind(req.Kind),
		Title:    req.Title,
		Amount:   req.Amount,
		Currency: req.Currency,
		Category: req.Category,
		DueDate:  req.DueDate,
		Paid:     req.Paid,
		Targets:  toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(e))
}

// SetPaid handles PATCH /expenses/{id}/paid.
func (h *ExpenseHandler) SetPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Paid bool `json:"paid"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.SetPaid(r.Context(), id, req.Paid); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// RemoveShare handles DELETE /expenses/{id}/shares/{uid}.
func (h *ExpenseHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathUUID(w, r, "uid")
	if !ok {
		return
	}

	err := h.sharing.RemoveSharing(r.Context(), sharing.RemoveInput{
		Kind:      domain.EntityKindExpense,
		EntityID:  id,
		TargetUID: uid,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
