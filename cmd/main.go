// Command apexstats records match observations and reports statistics over
// them from the terminal or over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/apexstats/internal/adapters/repository"
	app "github.com/okian/apexstats/internal/app"
	"github.com/okian/apexstats/internal/config"
	"github.com/okian/apexstats/pkg/logger"
	"github.com/okian/apexstats/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs one command line and releases the store afterwards, whether
// or not the command succeeded.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c, root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// cli holds the state shared by every subcommand once the root command has
// bootstrapped configuration, logging and the store.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string

	cfg *config.Config
	log logger.Logger
	svc *app.Service
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) (*cli, *cobra.Command) {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "apexstats",
		Short: "Record match results and report statistics over them",
		Long: `apexstats keeps an append-only log of match observations
(kills, damage, placement, legend, squad makeup, notes) and answers
aggregate queries over it.

Examples:
  apexstats record
  apexstats stats --character wraith --squad solo --last-week
  apexstats list --limit 10
  apexstats serve`,
		SilenceUsage:      true,
		PersistentPreRunE: c.bootstrap,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (or set "+config.EnvConfigFile+")")

	root.AddCommand(c.recordCmd())
	root.AddCommand(c.statsCmd())
	root.AddCommand(c.listCmd())
	root.AddCommand(c.serveCmd())

	return c, root
}

// bootstrap loads configuration, initialises logging on stderr and opens
// the configured store.
func (c *cli) bootstrap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg

	if err := logger.Init(logger.WithWriter(c.stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.log = logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	)

	kind, err := repository.ParseKind(cfg.Backend)
	if err != nil {
		return err
	}
	if kind != repository.KindMemory {
		if err := cfg.EnsureDataDir(ctx); err != nil {
			return fmt.Errorf("could not create data directory: %w", err)
		}
	}

	store, err := repository.Open(ctx, kind, cfg.DataPath(), repository.WithLogger(c.log.Named("store")))
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", kind, err)
	}
	c.log.Debug(ctx, "store opened", logger.String("backend", string(kind)), logger.String("path", cfg.DataPath()))

	c.svc = app.New(app.WithStore(store), app.WithLogger(c.log))
	return nil
}

func (c *cli) close() error {
	if c.svc == nil {
		return nil
	}
	err := c.svc.Close()
	c.svc = nil
	return err
}
