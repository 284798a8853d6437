package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

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
	userrepo "github.com/homelyapp/backend/internal/adapter/postgres/user"
	"github.com/homelyapp/backend/internal/adapter/push"
	"github.com/homelyapp/backend/internal/auth"
	"github.com/homelyapp/backend/internal/config"
	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/dispatcher"
	"github.com/homelyapp/backend/internal/service/event"
	"github.com/homelyapp/backend/internal/service/expense"
	"github.com/homelyapp/backend/internal/service/market"
	"github.com/homelyapp/backend/internal/service/note"
	"github.com/homelyapp/backend/internal/service/notification"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/internal/service/subscription"
	"github.com/homelyapp/backend/internal/service/task"
	"github.com/homelyapp/backend/internal/service/user"
	"github.com/homelyapp/backend/internal/transport/middleware"
	"github.com/homelyapp/backend/internal/transport/rest"
)

// Run wires the application together and serves HTTP until ctx is canceled:
// config, logger, database pool and migrations, repositories, services, the
// push outbox dispatcher, and finally the HTTP server with graceful shutdown.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

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

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	userSvc := user.NewService(logger, users, auth.BcryptHasher{}, jwtManager)

	sharingSvc := sharing.NewService(
		logger,
		invitations,
		notifications,
		outbox,
		users,
		tx,
		map[domain.EntityKind]sharing.EntityStore{
			domain.EntityKindExpense:       expenses,
			domain.EntityKindTask:          tasks,
			domain.EntityKindMarketItem:    marketItems,
			domain.EntityKindNote:          notes,
			domain.EntityKindCalendarEvent: events,
		},
		cfg.Sharing.MaxTargetsPerShare,
	)

	expenseSvc := expense.NewService(logger, expenses, sharingSvc)
	taskSvc := task.NewService(logger, tasks, sharingSvc)
	marketSvc := market.NewService(logger, marketItems, sharingSvc)
	noteSvc := note.NewService(logger, notes, sharingSvc)
	eventSvc := event.NewService(logger, events, sharingSvc)
	notificationSvc := notification.NewService(logger, notifications)
	subscriptionSvc := subscription.NewService(logger, subscriptions)

	if cfg.Push.Enabled {
		sender := push.New(cfg.Push.URL, cfg.Push.APIKey, cfg.Push.RequestTimeout)
		d := dispatcher.New(logger, outbox, tx, sender, dispatcher.Config{
			Interval:    cfg.Push.PollInterval,
			BatchSize:   cfg.Push.BatchSize,
			MaxAttempts: cfg.Push.MaxAttempts,
			Retention:   time.Duration(cfg.Push.RetentionDays) * 24 * time.Hour,
		})
		go d.Run(ctx)
	} else {
		logger.Info("push dispatcher disabled")
	}

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := rest.NewRouter(rest.RouterDeps{
		Log:            logger,
		CORS:           cfg.CORS,
		RateLimit:      cfg.RateLimit,
		TokenValidator: jwtManager,
		RateLimiter:    rateLimiter,
		Metrics:        middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),

		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Auth:          rest.NewAuthHandler(userSvc, logger),
		Users:         rest.NewUserHandler(userSvc, logger),
		Expenses:      rest.NewExpenseHandler(expenseSvc, sharingSvc, logger),
		Tasks:         rest.NewTaskHandler(taskSvc, sharingSvc, logger),
		Market:        rest.NewMarketHandler(marketSvc, sharingSvc, logger),
		Notes:         rest.NewNoteHandler(noteSvc, sharingSvc, logger),
		Events:        rest.NewEventHandler(eventSvc, sharingSvc, logger),
		Notifications: rest.NewNotificationHandler(notificationSvc, sharingSvc, logger),
		Subscriptions: rest.NewSubscriptionHandler(subscriptionSvc, logger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
