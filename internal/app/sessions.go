package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	pgsession "github.com/heartmarshall/medkit/internal/adapter/postgres/session"
	redissession "github.com/heartmarshall/medkit/internal/adapter/redis/session"
	"github.com/heartmarshall/medkit/internal/config"
	"github.com/heartmarshall/medkit/internal/dialogue"
)

// sessionStore is a dialogue.Store with a shutdown hook.
type sessionStore struct {
	dialogue.Store
	close func() error
	// sweep purges expired entries for backends without native expiry; nil otherwise.
	sweep func(ctx context.Context) (int64, error)
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig, db postgres.Querier) (*sessionStore, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		s, err := redissession.New(ctx, redissession.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		return &sessionStore{Store: s, close: s.Close}, nil

	case config.SessionBackendPostgres:
		s := pgsession.New(db)
		return &sessionStore{Store: s, close: func() error { return nil }, sweep: s.DeleteExpired}, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// runSweeper purges expired sessions every interval until ctx is cancelled.
func runSweeper(ctx context.Context, logger *slog.Logger, s *sessionStore, interval time.Duration) error {
	if s.sweep == nil {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.sweep(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "purge expired sessions", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "expired sessions purged", slog.Int64("count", n))
			}
		}
	}
}
