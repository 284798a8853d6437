package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homelyapp/backend/internal/config"
	"github.com/homelyapp/backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Log            *slog.Logger
	CORS           config.CORSConfig
	RateLimit      config.RateLimitConfig
	TokenValidator tokenValidator
	RateLimiter    *middleware.RateLimiter
	Metrics        *middleware.HTTPMetrics

	Health        *HealthHandler
	Auth          *AuthHandler
	Users         *UserHandler
	Expenses      *ExpenseHandler
	Tasks         *TaskHandler
	Market        *MarketHandler
	Notes         *NoteHandler
	Events        *EventHandler
	Notifications *NotificationHandler
	Subscriptions *SubscriptionHandler
}

// NewRouter builds the HTTP handler tree. Probes and metrics sit outside
// the middleware chain; everything under /api/v1 goes through it.
func NewRouter(deps RouterDeps) http.Handler {
	api := http.NewServeMux()

	// Login and registration get the stricter per-IP limit.
	authLimit := func(h http.HandlerFunc) http.Handler {
		if deps.RateLimiter == nil || !deps.RateLimit.Enabled {
			return h
		}
		return deps.RateLimiter.Limit(deps.RateLimit.AuthPerMinute)(h)
	}
	api.Handle("POST /api/v1/auth/register", authLimit(deps.Auth.Register))
	api.Handle("POST /api/v1/auth/login", authLimit(deps.Auth.Login))

	api.HandleFunc("GET /api/v1/users/me", deps.Users.Me)
	api.HandleFunc("GET /api/v1/users/search", deps.Users.Search)

	api.HandleFunc("GET /api/v1/expenses", deps.Expenses.List)
	api.HandleFunc("POST /api/v1/expenses", deps.Expenses.Create)
	api.HandleFunc("GET /api/v1/expenses/{id}", deps.Expenses.Get)
	api.HandleFunc("PUT /api/v1/expenses/{id}", deps.Expenses.Update)
	api.HandleFunc("PATCH /api/v1/expenses/{id}/paid", deps.Expenses.SetPaid)
	api.HandleFunc("DELETE /api/v1/expenses/{id}", deps.Expenses.Delete)
	api.HandleFunc("DELETE /api/v1/expenses/{id}/shares/{uid}", deps.Expenses.RemoveShare)

	api.HandleFunc("GET /api/v1/tasks", deps.Tasks.List)
	api.HandleFunc("POST /api/v1/tasks", deps.Tasks.Create)
	api.HandleFunc("GET /api/v1/tasks/{id}", deps.Tasks.Get)
	api.HandleFunc("PUT /api/v1/tasks/{id}", deps.Tasks.Update)
	api.HandleFunc("PATCH /api/v1/tasks/{id}/done", deps.Tasks.SetDone)
	api.HandleFunc("DELETE /api/v1/tasks/{id}", deps.Tasks.Delete)
	api.HandleFunc("DELETE /api/v1/tasks/{id}/shares/{uid}", deps.Tasks.RemoveShare)

	api.HandleFunc("GET /api/v1/market", deps.Market.List)
	api.HandleFunc("POST /api/v1/market", deps.Market.Create)
	api.HandleFunc("GET /api/v1/market/{id}", deps.Market.Get)
	api.HandleFunc("PUT /api/v1/market/{id}", deps.Market.Update)
	api.HandleFunc("PATCH /api/v1/market/{id}/purchased", deps.Market.SetPurchased)
	api.HandleFunc("DELETE /api/v1/market/{id}", deps.Market.Delete)
	api.HandleFunc("DELETE /api/v1/market/{id}/shares/{uid}", deps.Market.RemoveShare)

	api.HandleFunc("GET /api/v1/notes", deps.Notes.List)
	api.HandleFunc("POST /api/v1/notes", deps.Notes.Create)
	api.HandleFunc("GET /api/v1/notes/{id}", deps.Notes.Get)
	api.HandleFunc("PUT /api/v1/notes/{id}", deps.Notes.Update)
	api.HandleFunc("DELETE /api/v1/notes/{id}", deps.Notes.Delete)
	api.HandleFunc("DELETE /api/v1/notes/{id}/shares/{uid}", deps.Notes.RemoveShare)

	api.HandleFunc("GET /api/v1/events", deps.Events.List)
	api.HandleFunc("POST /api/v1/events", deps.Events.Create)
	api.HandleFunc("GET /api/v1/events/{id}", deps.Events.Get)
	api.HandleFunc("PUT /api/v1/events/{id}", deps.Events.Update)
	api.HandleFunc("DELETE /api/v1/events/{id}", deps.Events.Delete)
	api.HandleFunc("DELETE /api/v1/events/{id}/shares/{uid}", deps.Events.RemoveShare)

	api.HandleFunc("GET /api/v1/notifications", deps.Notifications.List)
	api.HandleFunc("POST /api/v1/notifications/{id}/accept", deps.Notifications.Accept)
	api.HandleFunc("POST /api/v1/notifications/{id}/reject", deps.Notifications.Reject)
	api.HandleFunc("POST /api/v1/notifications/{id}/read", deps.Notifications.MarkRead)
	api.HandleFunc("DELETE /api/v1/notifications/{id}", deps.Notifications.Delete)

	api.HandleFunc("GET /api/v1/subscriptions", deps.Subscriptions.List)
	api.HandleFunc("POST /api/v1/subscriptions", deps.Subscriptions.Create)
	api.HandleFunc("GET /api/v1/subscriptions/{id}", deps.Subscriptions.Get)
	api.HandleFunc("PUT /api/v1/subscriptions/{id}", deps.Subscriptions.Update)
	api.HandleFunc("DELETE /api/v1/subscriptions/{id}", deps.Subscriptions.Delete)

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.Recovery(deps.Log),
	}
	if deps.Metrics != nil {
		mws = append(mws, deps.Metrics.Middleware)
	}
	mws = append(mws, middleware.CORS(deps.CORS))
	if deps.RateLimiter != nil && deps.RateLimit.Enabled {
		mws = append(mws, deps.RateLimiter.Limit(deps.RateLimit.PerMinute))
	}
	mws = append(mws, middleware.Auth(deps.TokenValidator))

	root := http.NewServeMux()
	root.HandleFunc("GET /live", deps.Health.Live)
	root.HandleFunc("GET /ready", deps.Health.Ready)
	root.HandleFunc("GET /health", deps.Health.Health)
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/api/v1/", middleware.Chain(mws...)(api))

	return root
}
