package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"github.com/heartmarshall/medkit/internal/app"
	"github.com/heartmarshall/medkit/internal/domain"
)

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

type sessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type catalogAdmin interface {
	Pending(ctx context.Context, limit int) ([]domain.Medicine, error)
	Verify(ctx context.Context, id int64) (*domain.Medicine, error)
	Reject(ctx context.Context, id int64) (*domain.Medicine, error)
}

type deps struct {
	migrations migrator
	sessions   sessionPurger
	catalog    catalogAdmin
}

type connectFunc func(ctx context.Context, dsn string) (*deps, func(), error)

// medicineView is the JSON shape of a catalog entry.
type medicineView struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Dosage       *string   `json:"dosage,omitempty"`
	Verification string    `json:"verification"`
	CreatedAt    time.Time `json:"created_at"`
}

func toView(m domain.Medicine) medicineView {
	return medicineView{
		ID:           m.ID,
		Name:         m.Name,
		Type:         string(m.Type),
		Category:     string(m.Category),
		Dosage:       m.Dosage,
		Verification: m.Verification.String(),
		CreatedAt:    m.CreatedAt,
	}
}

type migrationView struct {
	Version   int64      `json:"version"`
	Path      string     `json:"path"`
	State     string     `json:"state,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// newCLIApp creates the CLI application. Commands connect lazily so --help
// works without a database.
func newCLIApp(connect connectFunc, out io.Writer) *cli.App {
	withDeps := func(fn func(c *cli.Context, d *deps) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			d, closeFn, err := connect(c.Context, c.String("dsn"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer closeFn()
			if err := fn(c, d); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		}
	}
	emit := func(v any) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	cliApp := &cli.App{
		Name:    "medkitctl",
		Usage:   "Operate the medicine kit bot database",
		Version: app.BuildVersion(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", EnvVars: []string{"DATABASE_DSN"}, Usage: "PostgreSQL connection string", Required: true},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "Apply all pending migrations",
						Action: withDeps(func(c *cli.Context, d *deps) error {
							results, err := d.migrations.Up(c.Context)
							if err != nil {
								return fmt.Errorf("migrate up: %w", err)
							}
							views := make([]migrationView, 0, len(results))
							for _, r := range results {
								views = append(views, migrationView{
									Version:  r.Source.Version,
									Path:     r.Source.Path,
									Duration: r.Duration.String(),
								})
							}
							return emit(views)
						}),
					},
					{
						Name:  "status",
						Usage: "Show applied and pending migrations",
						Action: withDeps(func(c *cli.Context, d *deps) error {
							statuses, err := d.migrations.Status(c.Context)
							if err != nil {
								return fmt.Errorf("migrate status: %w", err)
							}
							views := make([]migrationView, 0, len(statuses))
							for _, s := range statuses {
								v := migrationView{Version: s.Source.Version, Path: s.Source.Path, State: string(s.State)}
								if !s.AppliedAt.IsZero() {
									at := s.AppliedAt
									v.AppliedAt = &at
								}
								views = append(views, v)
							}
							return emit(views)
						}),
					},
				},
			},
			{
				Name:  "sessions",
				Usage: "Maintain the Postgres session table",
				Subcommands: []*cli.Command{
					{
						Name:  "cleanup",
						Usage: "Delete expired dialogue sessions and share requests",
						Action: withDeps(func(c *cli.Context, d *deps) error {
							n, err := d.sessions.DeleteExpired(c.Context)
							if err != nil {
								return fmt.Errorf("delete expired sessions: %w", err)
							}
							return emit(map[string]int64{"deleted": n})
						}),
					},
				},
			},
			{
				Name:  "catalog",
				Usage: "Review shared catalog entries",
				Subcommands: []*cli.Command{
					{
						Name:  "pending",
						Usage: "List entries awaiting review",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 50, Usage: "Maximum entries to list"},
						},
						Action: withDeps(func(c *cli.Context, d *deps) error {
							list, err := d.catalog.Pending(c.Context, c.Int("limit"))
							if err != nil {
								return fmt.Errorf("list pending: %w", err)
							}
							views := make([]medicineView, 0, len(list))
							for _, m := range list {
								views = append(views, toView(m))
							}
							return emit(views)
						}),
					},
					reviewCmd("verify", "Mark an entry as verified", emit, withDeps, func(d *deps) func(context.Context, int64) (*domain.Medicine, error) {
						return d.catalog.Verify
					}),
					reviewCmd("reject", "Mark an entry as checked and not verified", emit, withDeps, func(d *deps) func(context.Context, int64) (*domain.Medicine, error) {
						return d.catalog.Reject
					}),
				},
			},
		},
	}
	// Keep errors as return values so tests can inspect them.
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

func reviewCmd(
	name, usage string,
	emit func(any) error,
	withDeps func(func(*cli.Context, *deps) error) cli.ActionFunc,
	op func(*deps) func(context.Context, int64) (*domain.Medicine, error),
) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<medicine-id>",
		Action: withDeps(func(c *cli.Context, d *deps) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one medicine id")
			}
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid medicine id %q", c.Args().First())
			}
			m, err := op(d)(c.Context, id)
			if err != nil {
				return fmt.Errorf("%s medicine %d: %w", name, id, err)
			}
			return emit(toView(*m))
		}),
	}
}
