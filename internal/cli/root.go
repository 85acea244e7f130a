// Package cli implements the smartmeal command line. Every command builds
// the same meal service the API server uses, so a sqlite or postgres store
// shares state between the two.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pageza/smartmeal/backend/config"
	"github.com/pageza/smartmeal/backend/internal/app"
	"github.com/pageza/smartmeal/backend/internal/logging"
	"github.com/pageza/smartmeal/backend/internal/service"
)

const name = "smartmeal"

// overridden during build with ldflags
var version = "dev"

// runner carries the service shared by the subcommands of one invocation.
type runner struct {
	out     io.Writer
	appOpts []app.Option
	app     *app.App
}

// Option adjusts the command tree, mostly for tests.
type Option func(*runner)

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(r *runner) { r.out = w }
}

// WithAppOptions passes options through to app.New.
func WithAppOptions(opts ...app.Option) Option {
	return func(r *runner) { r.appOpts = append(r.appOpts, opts...) }
}

// NewCommand returns the root smartmeal command.
func NewCommand(opts ...Option) *cli.Command {
	r := &runner{out: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}

	return &cli.Command{
		Name:                  name,
		Usage:                 "Search recipes, rate meals and get a price for them",
		Version:               version,
		EnableShellCompletion: true,
		Writer:                r.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Usage:   fmt.Sprintf("Meal store backend (supported values: %s); overrides STORE_BACKEND, defaults to %s", strings.Join(storeBackends, ", "), config.StoreSQLite),
				Sources: cli.EnvVars("SMARTMEAL_STORE"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(FormatTable),
				Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(supportedFormats(), ", ")),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   config.DefaultLogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			r.searchCmd(),
			r.listCmd(),
			r.showCmd(),
			r.rateCmd(),
			r.priceCmd(),
			r.pricingCmd(),
			r.favoriteCmd(),
			r.unfavoriteCmd(),
			r.favoritesCmd(),
			r.surpriseCmd(),
			r.topCmd(),
			r.exportCmd(),
		},
	}
}

var storeBackends = []string{config.StoreMemory, config.StoreSQLite, config.StorePostgres}

func (r *runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if _, err := ParseFormat(cmd.String("format")); err != nil {
		return ctx, err
	}
	logging.Setup(cmd.String("log-level"))
	return ctx, nil
}

func (r *runner) after(_ context.Context, _ *cli.Command) error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

// meals builds the service on first use. Help and version output never
// need configuration.
func (r *runner) meals(ctx context.Context, cmd *cli.Command) (service.IMealService, error) {
	if r.app != nil {
		return r.app.Meals, nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if backend := storeBackend(cmd); backend != cfg.StoreBackend {
		cfg.StoreBackend = backend
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	a, err := app.New(ctx, cfg, r.appOpts...)
	if err != nil {
		return nil, err
	}
	r.app = a
	return a.Meals, nil
}

// storeBackend picks the store for one invocation. Each command runs in its
// own process, so the memory store would forget a search before the next
// command could rate it; it is only used when asked for.
func storeBackend(cmd *cli.Command) string {
	if backend := strings.ToLower(cmd.String("store")); backend != "" {
		return backend
	}
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		return strings.ToLower(backend)
	}
	return config.StoreSQLite
}

func (r *runner) printer(cmd *cli.Command) *Printer {
	// the format was validated in before
	f, _ := ParseFormat(cmd.String("format"))
	return NewPrinter(r.out, f)
}
