// Package dispatcher drains the push outbox and delivers notifications to
// the push provider, retrying failures with exponential backoff.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/adapter/postgres/outbox"
	"github.com/homelyapp/backend/internal/adapter/push"
)

const (
	defaultInterval    = 15 * time.Second
	defaultBatchSize   = 50
	defaultMaxAttempts = 8
	defaultRetention   = 7 * 24 * time.Hour

	// Deliveries that exhausted their attempts are parked far in the
	// future so the due query stops picking them up.
	parkedDelay = 30 * 24 * time.Hour
)

type outboxRepo interface {
	Due(ctx context.Context, now time.Time, limit int) ([]outbox.Delivery, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attemptErr string, nextAttemptAt time.Time) error
	DeleteDelivered(ctx context.Context, before time.Time) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

// Config tunes the dispatcher loop. Zero values fall back to defaults.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Retention   time.Duration
}

// Dispatcher is the background worker draining the push outbox.
type Dispatcher struct {
	log         *slog.Logger
	outbox      outboxRepo
	tx          txManager
	sender      pushSender
	interval    time.Duration
	batchSize   int
	maxAttempts int
	retention   time.Duration
	backoff     *backoff.ExponentialBackOff
	lastCleanup time.Time
}

// New creates a new push dispatcher.
func New(log *slog.Logger, outbox outboxRepo, tx txManager, sender pushSender, cfg Config) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 30 * time.Second
	b.MaxInterval = 4 * time.Hour
	b.MaxElapsedTime = 0

	return &Dispatcher{
		log:         log.With("service", "dispatcher"),
		outbox:      outbox,
		tx:          tx,
		sender:      sender,
		interval:    cfg.Interval,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		retention:   cfg.Retention,
		backoff:     b,
	}
}

// Run drains the outbox on a fixed interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.InfoContext(ctx, "push dispatcher started",
		slog.Duration("interval", d.interval),
		slog.Int("batch_size", d.batchSize),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.InfoContext(ctx, "push dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchDue(ctx); err != nil {
				d.log.ErrorContext(ctx, "dispatch pass failed", slog.Any("error", err))
			}
			d.maybeCleanup(ctx)
		}
	}
}

// DispatchDue processes one batch of due deliveries. The batch is locked
// with SKIP LOCKED inside a transaction, so concurrent dispatchers never
// double-send the same delivery.
func (d *Dispatcher) DispatchDue(ctx context.Context) error {
	return d.tx.RunInTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()

		due, err := d.outbox.Due(ctx, now, d.batchSize)
		if err != nil {
			return fmt.Errorf("fetch due deliveries: %w", err)
		}

		for _, delivery := range due {
			d.deliver(ctx, delivery, now)
		}
		return nil
	})
}

func (d *Dispatcher) deliver(ctx context.Context, delivery outbox.Delivery, now time.Time) {
	err := d.sender.Send(ctx, push.Message{
		Title:   delivery.Title,
		Message: delivery.Message,
		UID:     delivery.Receiver,
	})
	if err == nil {
		if err := d.outbox.MarkDelivered(ctx, delivery.ID, now); err != nil {
			d.log.ErrorContext(ctx, "mark delivered failed",
				slog.String("delivery_id", delivery.ID.String()),
				slog.Any("error", err),
			)
		}
		return
	}

	attempts := delivery.Attempts + 1
	next := now.Add(d.nextDelay(delivery.Attempts))
	reason := err.Error()
	if attempts >= d.maxAttempts {
		next = now.Add(parkedDelay)
		reason = fmt.Sprintf("gave up after %d attempts: %s", attempts, reason)
		d.log.ErrorContext(ctx, "push delivery gave up",
			slog.String("delivery_id", delivery.ID.String()),
			slog.String("receiver", delivery.Receiver.String()),
			slog.Int("attempts", attempts),
		)
	} else {
		d.log.WarnContext(ctx, "push delivery failed, will retry",
			slog.String("delivery_id", delivery.ID.String()),
			slog.Int("attempts", attempts),
			slog.Time("next_attempt_at", next),
			slog.Any("error", err),
		)
	}

	if err := d.outbox.MarkFailed(ctx, delivery.ID, reason, next); err != nil {
		d.log.ErrorContext(ctx, "mark failed failed",
			slog.String("delivery_id", delivery.ID.String()),
			slog.Any("error", err),
		)
	}
}

// nextDelay returns the backoff delay after the given number of prior
// failed attempts. The interval for attempt n is derived directly as
// InitialInterval * Multiplier^n capped at MaxInterval, with the same
// jitter window ExponentialBackOff applies.
func (d *Dispatcher) nextDelay(priorAttempts int) time.Duration {
	interval := float64(d.backoff.InitialInterval) * math.Pow(d.backoff.Multiplier, float64(priorAttempts))
	interval = math.Min(interval, float64(d.backoff.MaxInterval))

	delta := d.backoff.RandomizationFactor * interval
	return time.Duration(interval - delta + rand.Float64()*2*delta)
}

func (d *Dispatcher) maybeCleanup(ctx context.Context) {
	now := time.Now().UTC()
	if now.Sub(d.lastCleanup) < 24*time.Hour {
		return
	}
	d.lastCleanup = now

	removed, err := d.outbox.DeleteDelivered(ctx, now.Add(-d.retention))
	if err != nil {
		d.log.ErrorContext(ctx, "outbox cleanup failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		d.log.InfoContext(ctx, "outbox cleaned up", slog.Int("removed", removed))
	}
}
