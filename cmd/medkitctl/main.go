// Command medkitctl is the operator CLI: schema migrations, purging of
// expired Postgres sessions and review of the shared medicine catalog.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/adapter/postgres/medicine"
	pgsession "github.com/heartmarshall/medkit/internal/adapter/postgres/session"
	"github.com/heartmarshall/medkit/internal/app"
	"github.com/heartmarshall/medkit/internal/config"
	"github.com/heartmarshall/medkit/internal/service/catalog"
	"github.com/heartmarshall/medkit/migrations"
)

func main() {
	logger := app.NewLogger(config.LogConfig{Level: os.Getenv("LOG_LEVEL"), Format: "text"})

	if err := newCLIApp(connector(logger), os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// connector opens the database and builds the command dependencies.
func connector(logger *slog.Logger) connectFunc {
	return func(ctx context.Context, dsn string) (*deps, func(), error) {
		pool, err := postgres.NewPool(ctx, config.DatabaseConfig{DSN: dsn, MaxConns: 2, MinConns: 0})
		if err != nil {
			return nil, nil, err
		}

		db := stdlib.OpenDBFromPool(pool)
		provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
		if err != nil {
			db.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("goose new provider: %w", err)
		}

		allow, err := catalog.LoadAllowList("")
		if err != nil {
			db.Close()
			pool.Close()
			return nil, nil, err
		}

		d := &deps{
			migrations: provider,
			sessions:   pgsession.New(pool),
			catalog:    catalog.NewService(logger, medicine.New(pool), allow, catalog.Options{}),
		}
		return d, func() {
			db.Close()
			pool.Close()
		}, nil
	}
}
