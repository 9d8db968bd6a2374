// Package app wires configuration, storage, services and transports into
// the running bot process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/config"
	"github.com/heartmarshall/medkit/internal/transport/rest"
	"github.com/heartmarshall/medkit/internal/transport/telegram"
)

// Run is the application entry point. It blocks until ctx is cancelled or
// a component fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting medkit bot",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("session_backend", cfg.Session.Backend),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := newSessionStore(ctx, cfg.Session, pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.close(); err != nil {
			logger.Warn("close session store", slog.String("error", err.Error()))
		}
	}()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("connect telegram: %w", err)
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info("telegram authorized", slog.String("bot", api.Self.UserName))

	renderer := telegram.NewRenderer(api, logger)

	c, err := build(logger, cfg, pool, sessions, renderer)
	if err != nil {
		return err
	}
	defer c.limiter.Stop()

	poller := telegram.NewPoller(api, c.handler, renderer, logger, telegram.PollerOptions{
		Timeout: cfg.Telegram.PollTimeout,
		Workers: cfg.Telegram.Workers,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return poller.Run(gctx) })

	if cfg.Alerts.Enabled {
		g.Go(func() error { return c.notifier.Run(gctx) })
	}

	g.Go(func() error { return runSweeper(gctx, logger, sessions, cfg.Session.TTL) })

	if cfg.Health.Enabled {
		health := rest.NewHealthHandler(BuildVersion(),
			rest.Component{Name: "database", Pinger: pool},
			rest.Component{Name: "sessions", Pinger: sessions},
		)
		srv := &http.Server{
			Addr:              net.JoinHostPort(cfg.Health.Host, strconv.Itoa(cfg.Health.Port)),
			Handler:           rest.Instrument(logger, health.Routes()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("health server listening", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("health server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Health.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("medkit bot stopped")
	return err
}
