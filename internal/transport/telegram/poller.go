package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/heartmarshall/medkit/internal/chat"
)

type handler interface {
	Handle(ctx context.Context, u chat.Update) (chat.Reply, error)
}

// PollerOptions tunes long polling.
type PollerOptions struct {
	Timeout time.Duration
	Workers int
	// QueueSize bounds pending updates per worker.
	QueueSize int
}

// Poller long-polls the Bot API. Updates of one user always go to the same
// worker, so a user's updates are handled strictly in order while different
// users proceed in parallel.
type Poller struct {
	api      botAPI
	handler  handler
	renderer *Renderer
	log      *slog.Logger
	opts     PollerOptions
}

// NewPoller creates a Poller.
func NewPoller(api botAPI, h handler, renderer *Renderer, logger *slog.Logger, opts PollerOptions) *Poller {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Poller{
		api:      api,
		handler:  h,
		renderer: renderer,
		log:      logger.With("component", "telegram_poller"),
		opts:     opts,
	}
}

// Run polls until ctx is cancelled, then drains queued updates and returns nil.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(p.opts.Timeout / time.Second)
	updates := p.api.GetUpdatesChan(cfg)

	queues := make([]chan chat.Update, p.opts.Workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan chat.Update, p.opts.QueueSize)
		wg.Add(1)
		go func(q <-chan chat.Update) {
			defer wg.Done()
			for u := range q {
				// Shutdown does not cut a started update short.
				p.process(context.WithoutCancel(ctx), u)
			}
		}(queues[i])
	}

	p.log.InfoContext(ctx, "polling started", slog.Int("workers", p.opts.Workers))

	stop := func() {
		p.api.StopReceivingUpdates()
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
		p.log.InfoContext(ctx, "polling stopped")
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case raw, ok := <-updates:
			if !ok {
				stop()
				return nil
			}
			u, ok := toUpdate(raw)
			if !ok {
				continue
			}
			select {
			case queues[workerFor(u.UserID, p.opts.Workers)] <- u:
			case <-ctx.Done():
				stop()
				return nil
			}
		}
	}
}

func (p *Poller) process(ctx context.Context, u chat.Update) {
	reply, err := p.handler.Handle(ctx, u)
	if err != nil {
		p.log.ErrorContext(ctx, "handle update",
			slog.Int64("user_id", u.UserID),
			slog.String("error", err.Error()),
		)
	}
	if err := p.renderer.Render(ctx, u, reply); err != nil {
		p.log.ErrorContext(ctx, "render reply",
			slog.Int64("user_id", u.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func workerFor(userID int64, workers int) int {
	return int(uint64(userID) % uint64(workers))
}
