// Package alerts periodically reminds users about expired and soon-expiring
// items.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/render"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

type userDirectory interface {
	AllIDs(ctx context.Context) ([]int64, error)
}

type inventory interface {
	ExpiryDigest(ctx context.Context, days int) (expired, expiring []domain.ItemDetails, err error)
}

// Options configures the alert loop.
type Options struct {
	Interval     time.Duration
	ExpiringDays int
}

// Notifier sends expiry digests.
type Notifier struct {
	log   *slog.Logger
	users userDirectory
	inv   inventory
	sink  chat.Sink
	opts  Options
}

// NewNotifier creates a Notifier.
func NewNotifier(logger *slog.Logger, users userDirectory, inv inventory, sink chat.Sink, opts Options) *Notifier {
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.ExpiringDays <= 0 {
		opts.ExpiringDays = 7
	}
	return &Notifier{
		log:   logger.With("service", "alerts"),
		users: users,
		inv:   inv,
		sink:  sink,
		opts:  opts,
	}
}

// Run sends digests every interval until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := n.RunOnce(ctx); err != nil {
				n.log.ErrorContext(ctx, "expiry alerts failed", slog.String("error", err.Error()))
			}
		}
	}
}

// RunOnce sends one digest to every user that has something to report. It
// returns the number of digests delivered. Per-user failures are logged and
// skipped.
func (n *Notifier) RunOnce(ctx context.Context) (int, error) {
	ids, err := n.users.AllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	sent := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		userCtx := ctxutil.WithUserID(ctx, id)
		expired, expiring, err := n.inv.ExpiryDigest(userCtx, n.opts.ExpiringDays)
		if err != nil {
			n.log.WarnContext(ctx, "expiry digest failed",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		text := render.Digest(expired, expiring, n.opts.ExpiringDays)
		if text == "" {
			continue
		}
		if err := n.sink.Send(userCtx, id, chat.Message{Text: text}); err != nil {
			n.log.WarnContext(ctx, "expiry alert delivery failed",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	n.log.InfoContext(ctx, "expiry alerts sent", slog.Int("users", len(ids)), slog.Int("sent", sent))
	return sent, nil
}
