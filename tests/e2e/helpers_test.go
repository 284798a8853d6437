//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/homelyapp/backend/internal/adapter/postgres"
	eventrepo "github.com/homelyapp/backend/internal/adapter/postgres/event"
	expenserepo "github.com/homelyapp/backend/internal/adapter/postgres/expense"
	invitationrepo "github.com/homelyapp/backend/internal/adapter/postgres/invitation"
	marketrepo "github.com/homelyapp/backend/internal/adapter/postgres/market"
	noterepo "github.com/homelyapp/backend/internal/adapter/postgres/note"
	notificationrepo "github.com/homelyapp/backend/internal/adapter/postgres/notification"
	outboxrepo "github.com/homelyapp/backend/internal/adapter/postgres/outbox"
	subscriptionrepo "github.com/homelyapp/backend/internal/adapter/postgres/subscription"
	taskrepo "github.com/homelyapp/backend/internal/adapter/postgres/task"
	"github.com/homelyapp/backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/homelyapp/backend/internal/adapter/postgres/user"
	"github.com/homelyapp/backend/internal/auth"
	"github.com/homelyapp/backend/internal/config"
	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/event"
	"github.com/homelyapp/backend/internal/service/expense"
	"github.com/homelyapp/backend/internal/service/market"
	"github.com/homelyapp/backend/internal/service/note"
	"github.com/homelyapp/backend/internal/service/notification"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/internal/service/subscription"
	"github.com/homelyapp/backend/internal/service/task"
	"github.com/homelyapp/backend/internal/service/user"
	"github.com/homelyapp/backend/internal/transport/rest"
)

// testServer wraps a fully wired HTTP server backed by the shared test DB.
type testServer struct {
	*httptest.Server
}

// setupTestServer wires the whole stack the way internal/app does, minus the
// push dispatcher, and serves it over httptest.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := userrepo.New(pool)
	invitations := invitationrepo.New(pool)
	notifications := notificationrepo.New(pool)
	outbox := outboxrepo.New(pool)
	expenses := expenserepo.New(pool)
	tasks := taskrepo.New(pool)
	marketItems := marketrepo.New(pool)
	notes := noterepo.New(pool)
	events := eventrepo.New(pool)
	subscriptions := subscriptionrepo.New(pool)

	tx := postgres.NewTxManager(pool)
	jwtManager := auth.NewJWTManager("e2e-test-secret", "homely-e2e", time.Hour)

	userSvc := user.NewService(logger, users, auth.BcryptHasher{}, jwtManager)
	sharingSvc := sharing.NewService(
		logger, invitations, notifications, outbox, users, tx,
		map[domain.EntityKind]sharing.EntityStore{
			domain.EntityKindExpense:       expenses,
			domain.EntityKindTask:          tasks,
			domain.EntityKindMarketItem:    marketItems,
			domain.EntityKindNote:          notes,
			domain.EntityKindCalendarEvent: events,
		},
		0,
	)

	handler := rest.NewRouter(rest.RouterDeps{
		Log:            logger,
		CORS:           config.CORSConfig{AllowedOrigins: "*"},
		RateLimit:      config.RateLimitConfig{Enabled: false},
		TokenValidator: jwtManager,

		Health:        rest.NewHealthHandler(pool, "e2e"),
		Auth:          rest.NewAuthHandler(userSvc, logger),
		Users:         rest.NewUserHandler(userSvc, logger),
		Expenses:      rest.NewExpenseHandler(expense.NewService(logger, expenses, sharingSvc), sharingSvc, logger),
		Tasks:         rest.NewTaskHandler(task.NewService(logger, tasks, sharingSvc), sharingSvc, logger),
		Market:        rest.NewMarketHandler(market.NewService(logger, marketItems, sharingSvc), sharingSvc, logger),
		Notes:         rest.NewNoteHandler(note.NewService(logger, notes, sharingSvc), sharingSvc, logger),
		Events:        rest.NewEventHandler(event.NewService(logger, events, sharingSvc), sharingSvc, logger),
		Notifications: rest.NewNotificationHandler(notification.NewService(logger, notifications), sharingSvc, logger),
		Subscriptions: rest.NewSubscriptionHandler(subscription.NewService(logger, subscriptions), logger),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv}
}

// account is a registered test user together with its bearer token.
type account struct {
	ID    uuid.UUID
	Name  string
	Token string
}

// registerUser creates a fresh account through the public API.
func (ts *testServer) registerUser(t *testing.T, name string) account {
	t.Helper()

	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	userObj, ok := body["user"].(map[string]any)
	require.True(t, ok, "expected user object in register response")

	id, err := uuid.Parse(userObj["id"].(string))
	require.NoError(t, err)

	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	return account{ID: id, Name: name, Token: token}
}

// doJSON performs a JSON request and decodes the JSON response body, if any.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		// Some endpoints return 204 with an empty body.
		require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	}
	return resp.StatusCode, body
}

// notificationFor finds the receiver's notification whose sourceId matches.
func (ts *testServer) notificationFor(t *testing.T, acc account, sourceID string) map[string]any {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodGet, "/api/v1/notifications", acc.Token, nil)
	require.Equal(t, http.StatusOK, status)

	items, ok := body["notifications"].([]any)
	require.True(t, ok, "expected notifications array")

	for _, it := range items {
		n, ok := it.(map[string]any)
		require.True(t, ok)
		if n["sourceId"] == sourceID {
			return n
		}
	}
	t.Fatalf("no notification with sourceId %s for %s", sourceID, acc.Name)
	return nil
}
