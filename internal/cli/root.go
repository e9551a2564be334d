// Package cli arma el comando vetcare-reminders: pasadas batch del dispatcher,
// vista previa de buckets y migraciones.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	pg "vet-care-reminders/internal/adapters/storage/postgres"
	"vet-care-reminders/internal/config"
	"vet-care-reminders/internal/domain/notify"
	"vet-care-reminders/internal/platform/logger"
	"vet-care-reminders/internal/router"

	"github.com/spf13/cobra"
)

// Build-time variables (ldflags).
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type rootOptions struct {
	ConfigPath string
	Timeout    time.Duration
}

// Deps permite a los tests inyectar reloj, gateway y salida.
type Deps struct {
	Now     func() time.Time
	Gateway notify.Gateway
	Out     io.Writer
}

func NewRootCommand(deps Deps) *cobra.Command {
	opts := &rootOptions{}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	cmd := &cobra.Command{
		Use:           "vetcare-reminders",
		Short:         "Vaccination and deworming reminders: batch runs, bucket preview and migrations",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(deps.Out)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML); empty = env only")
	pf.DurationVar(&opts.Timeout, "timeout", 10*time.Minute, "timeout for the whole command")

	cmd.AddCommand(
		newRunCommand(opts, deps),
		newBucketsCommand(opts, deps),
		newMigrateCommand(opts),
	)
	return cmd
}

// Execute corre el comando raíz; usado por cmd/reminders.
func Execute() int {
	if err := NewRootCommand(Deps{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func loadConfig(opts *rootOptions) (config.Config, logger.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
		Output: os.Stderr,
	})
	return *cfg, log, nil
}

// withApp arma el grafo, corre fn y cierra todo.
func withApp(cmd *cobra.Command, opts *rootOptions, deps Deps, fn func(ctx context.Context, app *router.App, cfg config.Config) error) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	app, err := router.New(ctx, router.Options{
		Config:  cfg,
		Log:     log,
		Gateway: deps.Gateway,
		Now:     deps.Now,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close app", map[string]any{"error": err})
		}
	}()

	return fn(ctx, app, cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRunCommand(opts *rootOptions, deps Deps) *cobra.Command {
	var (
		account string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reminder pass (classify every animal and send what has not fired today)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, deps, func(ctx context.Context, app *router.App, cfg config.Config) error {
				rep, err := app.Dispatcher.Run(ctx, notify.RunOptions{
					AccountScope: account,
					DryRun:       dryRun || cfg.Schedule.DryRun,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "limit the pass to one account (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compose messages without sending or recording them")
	return cmd
}

func newBucketsCommand(opts *rootOptions, deps Deps) *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Show the notification buckets each animal falls in today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, deps, func(ctx context.Context, app *router.App, _ config.Config) error {
				res, err := app.Care.ClassifyAll(ctx, account)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "limit to one account (default: all)")
	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var (
		down   int
		status bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return fmt.Errorf("database.dsn is required for migrate")
			}

			switch {
			case status:
				version, dirty, err := pg.MigrationStatus(cfg.Database.DSN)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			case down > 0:
				if err := pg.RollbackMigration(cfg.Database.DSN, down); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", down)
				return nil
			default:
				if err := pg.RunMigrations(cfg.Database.DSN); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "roll back N migrations instead of applying")
	cmd.Flags().BoolVar(&status, "status", false, "print the applied version and exit")
	return cmd
}
