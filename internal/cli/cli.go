// Package cli implements the pkggraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkggraph/pkg/buildinfo"
	"github.com/matzehuels/pkggraph/pkg/observability"
	"github.com/matzehuels/pkggraph/pkg/observability/promhooks"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for config files and display.
	appName = "pkggraph"

	// configFile is the file looked up in the working directory when
	// --config is not given.
	configFile = appName + ".toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	opts     options
	registry *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pkggraph answers questions about resolved package dependency graphs",
		Long: `pkggraph loads a resolved metadata snapshot and answers dependency questions:
transitive dependencies and dependents, cycles, why one package depends on
another, which packages a feature set activates, and a build order.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.writeMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.opts.register(root.PersistentFlags())

	root.AddCommand(c.depsCommand())
	root.AddCommand(c.rdepsCommand())
	root.AddCommand(c.whyCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup resolves the configuration and installs the observability hooks
// every command reports through.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := c.opts.load(cmd.Flags()); err != nil {
		return err
	}

	var graphHooks observability.GraphHooks = observability.NoopGraphHooks{}
	var queryHooks observability.QueryHooks = observability.NoopQueryHooks{}
	if c.opts.metricsFile != "" {
		c.registry = prometheus.NewRegistry()
		h := promhooks.New(c.registry)
		graphHooks, queryHooks = h, h
	}
	lh := &logHooks{logger: c.Logger, graph: graphHooks, query: queryHooks}
	observability.SetGraphHooks(lh)
	observability.SetQueryHooks(lh)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// writeMetrics dumps the metrics registry in the Prometheus text format
// when --metrics-file is set.
func (c *CLI) writeMetrics() error {
	if c.registry == nil || c.opts.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.opts.metricsFile, c.registry); err != nil {
		return err
	}
	c.Logger.Debug("Wrote metrics", "file", c.opts.metricsFile)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// cancellable runs fn on its own goroutine and returns early with ctx.Err()
// when ctx is done first. Graph queries are synchronous and ignore contexts,
// so this is where a signal interrupts a long query.
func cancellable[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
