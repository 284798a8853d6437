package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/market"
	"github.com/homelyapp/backend/internal/service/sharing"
)

type marketService interface {
	Create(ctx context.Context, input market.CreateInput) (*domain.MarketItem, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error)
	List(ctx context.Context, input market.ListInput) ([]domain.MarketItem, error)
	Update(ctx context.Context, input market.UpdateInput) (*domain.MarketItem, error)
	SetPurchased(ctx context.Context, id uuid.UUID, purchased bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MarketHandler serves the shopping list endpoints.
type MarketHandler struct {
	svc     marketService
	sharing sharingRemover
	log     *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(svc marketService, sharing sharingRemover, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{svc: svc, sharing: sharing, log: logger.With("handler", "market")}
}

type marketItemRequest struct {
	Name      string               `json:"name"`
	Quantity  int                  `json:"quantity"`
	Purchased bool                 `json:"purchased"`
	Targets   []shareTargetRequest `json:"targets"`
}

type marketItemResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Name      string              `json:"name"`
	Quantity  int                 `json:"quantity"`
	Purchased bool                `json:"purchased"`
	ShareInfo []shareInfoResponse `json:"shareInfo"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toMarketItemResponse(m *domain.MarketItem) marketItemResponse {
	return marketItemResponse{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		Name:      m.Name,
		Quantity:  m.Quantity,
		Purchased: m.Purchased,
		ShareInfo: toShareInfoResponse(m.Shared),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create handles POST /market.
func (h *MarketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req marketItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.svc.Create(r.Context(), market.CreateInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Targets:  toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMarketItemResponse(m))
}

// Get handles GET /market/{id}.
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMarketItemResponse(m))
}

// List handles GET /market.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), market.ListInput{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]marketItemResponse, len(items))
	for i := range items {
		out[i] = toMarketItemResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Update handles PUT /market/{id}.
func (h *MarketHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req marketItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.svc.Update(r.Context(), market.UpdateInput{
		ID:        id,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Purchased: req.Purchased,
		Targets:   toShareTargets(req.Targets),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMarketItemResponse(m))
}

// SetPurchased handles PATCH /market/{id}/purchased.
func (h *MarketHandler) SetPurchased(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Purchased bool `json:"purchased"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.SetPurchased(r.Context(), id, req.Purchased); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /market/{id}.
func (h *MarketHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// RemoveShare handles DELETE /market/{id}/shares/{uid}.
func (h *MarketHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid, ok := pathUUID(w, r, "uid")
	if !ok {
		return
	}

	err := h.sharing.RemoveSharing(r.Context(), sharing.RemoveInput{
		Kind:      domain.EntityKindMarketItem,
		EntityID:  id,
		TargetUID: uid,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
