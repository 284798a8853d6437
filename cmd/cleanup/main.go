// Command cleanup physically removes delivered push outbox rows older than
// the configured retention period. The dispatcher runs the same cleanup once
// a day in-process; this command exists for manual runs and for deployments
// that keep the dispatcher disabled.
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
	outboxrepo "github.com/homelyapp/backend/internal/adapter/postgres/outbox"
	"github.com/homelyapp/backend/internal/app"
	"github.com/homelyapp/backend/internal/config"
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

	outbox := outboxrepo.New(pool)

	threshold := time.Now().AddDate(0, 0, -cfg.Push.RetentionDays)

	deleted, err := outbox.DeleteDelivered(ctx, threshold)
	if err != nil {
		logger.Error("outbox cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("outbox cleanup completed",
		slog.Int("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
