// Package cli implements the pkggraph command-line interface.
//
// Every command loads a metadata snapshot written by a resolver (see
// [github.com/matzehuels/pkggraph/pkg/io]) and runs one query against the
// resulting package graph. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - deps, rdeps: Transitive dependencies and dependents of packages
//   - why: How one package comes to depend on another
//   - cycles: Dependency cycles, with dev-only cycles reported separately
//   - features: Packages and features activated by a feature set
//   - order: A build order with dependencies first
//
// # Configuration
//
// Persistent flags (--platform, --target-features, --cfg, --no-dev,
// --include-unknown, --metrics-file) may also be set in a pkggraph.toml
// file. Flags given on the command line win.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and graph and query events are logged at
// debug level through the observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkggraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 42 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks logs graph and query events at debug level and forwards them to
// the wrapped hooks.
type logHooks struct {
	logger *log.Logger
	graph  observability.GraphHooks
	query  observability.QueryHooks
}

func (h *logHooks) OnBuild(packages, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Graph build failed", "err", err, "took", d)
	} else {
		h.logger.Debug("Built graph", "packages", packages, "edges", edges, "took", d)
	}
	h.graph.OnBuild(packages, edges, d, err)
}

func (h *logHooks) OnFeatureGraph(nodes, edges int, d time.Duration) {
	h.logger.Debug("Derived feature graph", "nodes", nodes, "edges", edges, "took", d)
	h.graph.OnFeatureGraph(nodes, edges, d)
}

func (h *logHooks) OnClosure(direction string, roots, reached int, d time.Duration) {
	h.logger.Debug("Computed closure", "direction", direction, "roots", roots, "reached", reached, "took", d)
	h.query.OnClosure(direction, roots, reached, d)
}

func (h *logHooks) OnCycles(found int, d time.Duration) {
	h.logger.Debug("Searched cycles", "found", found, "took", d)
	h.query.OnCycles(found, d)
}

func (h *logHooks) OnActivate(requested, activated int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Activation failed", "requested", requested, "err", err, "took", d)
	} else {
		h.logger.Debug("Activated features", "requested", requested, "packages", activated, "took", d)
	}
	h.query.OnActivate(requested, activated, d, err)
}
