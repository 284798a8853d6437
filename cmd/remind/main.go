// Command remind runs a single reminder pass: it scans expenses due or
// overdue today and subscriptions billed today, creates in-app notifications,
// and enqueues push deliveries. It is intended to be invoked once a day by an
// external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/homelyapp/backend/internal/adapter/postgres"
	expenserepo "github.com/homelyapp/backend/internal/adapter/postgres/expense"
	notificationrepo "github.com/homelyapp/backend/internal/adapter/postgres/notification"
	outboxrepo "github.com/homelyapp/backend/internal/adapter/postgres/outbox"
	subscriptionrepo "github.com/homelyapp/backend/internal/adapter/postgres/subscription"
	"github.com/homelyapp/backend/internal/app"
	"github.com/homelyapp/backend/internal/config"
	"github.com/homelyapp/backend/internal/service/reminder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := reminder.NewService(
		logger,
		expenserepo.New(pool),
		subscriptionrepo.New(pool),
		notificationrepo.New(pool),
		outboxrepo.New(pool),
	)

	stats, err := svc.Run(ctx, time.Now())
	if err != nil {
		logger.Error("reminder pass failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("reminder pass completed",
		slog.Int("due", stats.Due),
		slog.Int("overdue", stats.Overdue),
		slog.Int("skipped", stats.Skipped),
	)
}
