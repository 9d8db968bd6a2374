package app

import (
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/adapter/postgres/item"
	"github.com/heartmarshall/medkit/internal/adapter/postgres/kit"
	"github.com/heartmarshall/medkit/internal/adapter/postgres/medicine"
	userrepo "github.com/heartmarshall/medkit/internal/adapter/postgres/user"
	"github.com/heartmarshall/medkit/internal/bot"
	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/config"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/service/admin"
	"github.com/heartmarshall/medkit/internal/service/alerts"
	"github.com/heartmarshall/medkit/internal/service/catalog"
	"github.com/heartmarshall/medkit/internal/service/inventory"
	"github.com/heartmarshall/medkit/internal/service/itemedit"
	"github.com/heartmarshall/medkit/internal/service/share"
	"github.com/heartmarshall/medkit/internal/service/upload"
	"github.com/heartmarshall/medkit/internal/service/user"
)

// database is what the repositories and the transaction manager need.
type database interface {
	postgres.Querier
	postgres.Beginner
}

// components are the long-lived parts of the bot built from config.
type components struct {
	handler  bot.Handler
	limiter  *bot.RateLimiter
	notifier *alerts.Notifier
}

// build wires repositories, services, dialogues and the middleware chain.
// sink delivers messages outside a reply: share notifications, broadcasts and alerts.
func build(logger *slog.Logger, cfg *config.Config, db database, sessions dialogue.Store, sink chat.Sink) (*components, error) {
	allow, err := catalog.LoadAllowList(cfg.Catalog.AllowListPath)
	if err != nil {
		return nil, fmt.Errorf("load allow-list: %w", err)
	}

	// Repositories.
	medicines := medicine.New(db)
	kits := kit.New(db)
	items := item.New(db)
	users := userrepo.New(db)
	tx := postgres.NewTxManager(db)

	// Services.
	userSvc := user.NewService(logger, users)
	catalogSvc := catalog.NewService(logger, medicines, allow, catalog.Options{
		Threshold: cfg.Catalog.SimilarityThreshold,
		Limit:     cfg.Catalog.SimilarityLimit,
	})
	inventorySvc := inventory.NewService(logger, kits, items, tx, inventory.Options{
		PageSize:          cfg.Inventory.PageSize,
		ExpiringDays:      cfg.Inventory.ExpiringDays,
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
	})

	// Dialogues.
	shareFlow := share.NewFlow(logger, inventorySvc, userSvc, share.NewRequests(sessions, cfg.Session.ShareRequestTTL))
	engine := dialogue.NewEngine(logger, sessions, cfg.Session.TTL,
		upload.NewFlow(logger, inventorySvc, catalogSvc, tx),
		itemedit.NewFlow(logger, inventorySvc),
		shareFlow,
		admin.NewBroadcast(logger, userSvc, sink),
	)

	router := bot.NewRouter(bot.Deps{
		Dialogues: engine,
		Inventory: inventorySvc,
		Share:     shareFlow,
		Reviewer:  admin.NewReviewer(logger, catalogSvc),
		Users:     userSvc,
	})

	limiter := bot.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	chain := bot.Chain(
		bot.RequestID,
		bot.Logger(logger),
		bot.Errors(),
		bot.Recovery(logger),
		bot.RateLimit(limiter, cfg.RateLimit.PerMinute),
		bot.Identify(userSvc, cfg.Telegram.AdminIDs),
	)

	return &components{
		handler: chain(router),
		limiter: limiter,
		notifier: alerts.NewNotifier(logger, userSvc, inventorySvc, sink, alerts.Options{
			Interval:     cfg.Alerts.Interval,
			ExpiringDays: cfg.Alerts.ExpiringDays,
		}),
	}, nil
}
