// Command server runs the HTTP API together with the push outbox dispatcher.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/homelyapp/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
