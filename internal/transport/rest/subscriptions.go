package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/subscription"
)

type subscriptionService interface {
	Create(ctx context.Context, input subscription.Input) (*domain.Subscription, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	List(ctx context.Context, input subscription.ListInput) ([]domain.Subscription, error)
	Update(ctx context.Context, input subscription.Input) (*domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionHandler serves the subscription endpoints.
type SubscriptionHandler struct {
	svc subscriptionService
	log *slog.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(svc subscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, log: logger.With("handler", "subscription")}
}

type subscriptionRequest struct {
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	BillingDay int             `json:"billingDay"`
	Active     bool            `json:"active"`
}

type subscriptionResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	BillingDay int             `json:"billingDay"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func toSubscriptionResponse(s *domain.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:         s.ID.String(),
		UserID:     s.UserID.String(),
		Title:      s.Title,
		Amount:     s.Amount,
		Currency:   s.Currency,
		BillingDay: s.BillingDay,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Create handles POST /subscriptions.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.svc.Create(r.Context(), subscription.Input{
		Title:      req.Title,
		Amount:     req.Amount,
		Currency:   req.Currency,
		BillingDay: req.BillingDay,
		Active:     req.Active,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionResponse(s))
}

// Get handles GET /subscriptions/{id}.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(s))
}

// List handles GET /subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context(), subscription.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]subscriptionResponse, len(subs))
	for i := range subs {
		out[i] = toSubscriptionResponse(&subs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": out})
}

// Update handles PUT /subscriptions/{id}.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.svc.Update(r.Context(), subscription.Input{
		ID:         id,
		Title:      req.Title,
		Amount:     req.Amount,
		Currency:   req.Currency,
		BillingDay: req.BillingDay,
		Active:     req.Active,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(s))
}

// Delete handles DELETE /subscriptions/{id}.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
