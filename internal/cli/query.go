package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/graph/query"
	pkgio "github.com/matzehuels/pkggraph/pkg/io"
)

// closureOpts holds the flags shared by deps and rdeps.
type closureOpts struct {
	export string
}

func (c *CLI) depsCommand() *cobra.Command {
	return c.closureCommand(query.Forward, &cobra.Command{
		Use:   "deps <snapshot> <package>...",
		Short: "List the transitive dependencies of packages",
		Long: `List every package reachable from the given packages by following
dependency edges. Packages are named by id, by name, or by name@constraint
(e.g. serde@^1).`,
		Example: `  pkggraph deps metadata.json app
  pkggraph deps metadata.json app --no-dev --platform x86_64-pc-windows-msvc
  pkggraph deps metadata.json app --export app-deps.json`,
	})
}

func (c *CLI) rdepsCommand() *cobra.Command {
	return c.closureCommand(query.Reverse, &cobra.Command{
		Use:     "rdeps <snapshot> <package>...",
		Short:   "List the packages that transitively depend on packages",
		Example: `  pkggraph rdeps metadata.json log@0.4`,
	})
}

func (c *CLI) closureCommand(dir query.Direction, cmd *cobra.Command) *cobra.Command {
	var opts closureOpts
	cmd.Args = cobra.MinimumNArgs(2)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return c.runClosure(cmd, dir, args[0], args[1:], opts)
	}
	cmd.Flags().StringVar(&opts.export, "export", "", "write the closure as a snapshot to this file")
	return cmd
}

func (c *CLI) runClosure(cmd *cobra.Command, dir query.Direction, path string, names []string, opts closureOpts) error {
	ctx := cmd.Context()
	g, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	roots, err := resolvePackages(g, names)
	if err != nil {
		return err
	}

	res, err := cancellable(ctx, func() (*query.Result, error) {
		return query.Closure(g, roots, dir, c.opts.filter)
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	label := "dependencies"
	if dir == query.Reverse {
		label = "dependents"
	}
	isRoot := make(map[graph.PackageID]bool, len(roots))
	for _, id := range roots {
		isRoot[id] = true
	}
	printSuccess(w, "%d %s of %s", res.Len()-len(isRoot), label, strings.Join(names, ", "))
	for _, id := range res.IDs() {
		if !isRoot[id] {
			printPackage(w, g, id)
		}
	}

	if opts.export != "" {
		sub := res.Subgraph()
		if err := pkgio.ExportJSON(sub, opts.export); err != nil {
			return err
		}
		printInfo(w, "Wrote %s", opts.export)
		printStats(w, sub.Len(), sub.EdgeCount())
	}
	return nil
}

func (c *CLI) whyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "why <snapshot> <package> <dependency>",
		Short: "Explain how a package depends on another",
		Long: `Show the direct dependency edges between two packages. When there are
none, report whether the dependency is reached transitively and through
which direct dependencies.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWhy(cmd, args[0], args[1], args[2])
		},
	}
}

func (c *CLI) runWhy(cmd *cobra.Command, path, fromName, toName string) error {
	ctx := cmd.Context()
	g, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	from, err := resolvePackage(g, fromName)
	if err != nil {
		return err
	}
	to, err := resolvePackage(g, toName)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	var direct []*graph.DependencyEdge
	for _, e := range g.LinksBetween(from, to) {
		if c.opts.filter.Allows(e) {
			direct = append(direct, e)
		}
	}
	if len(direct) > 0 {
		printSuccess(w, "%s depends directly on %s", from, to)
		for _, e := range direct {
			printEdge(w, e)
		}
		return nil
	}

	ok, err := cancellable(ctx, func() (bool, error) {
		return query.DependsOn(g, from, to, c.opts.filter)
	})
	if err != nil {
		return err
	}
	if !ok {
		printInfo(w, "%s does not depend on %s", from, to)
		return nil
	}

	// Direct dependencies whose own closure reaches the target.
	printSuccess(w, "%s depends on %s transitively via", from, to)
	seen := make(map[graph.PackageID]bool)
	for _, e := range g.Outgoing(from) {
		if !c.opts.filter.Allows(e) || seen[e.To()] {
			continue
		}
		seen[e.To()] = true
		via, err := query.DependsOn(g, e.To(), to, c.opts.filter)
		if err != nil {
			return err
		}
		if via {
			printEdge(w, e)
		}
	}
	return nil
}

func (c *CLI) orderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order <snapshot>",
		Short: "Print a build order with dependencies first",
		Long: `Print every package so that each one follows all of its dependencies.
Dependency cycles make this impossible; use --no-dev to drop the dev-only
cycles that are common in real workspaces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.loadGraph(ctx, args[0])
			if err != nil {
				return err
			}
			order, err := cancellable(ctx, func() ([]graph.PackageID, error) {
				return query.TopoSort(g, c.opts.filter)
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, id := range order {
				fmt.Fprintf(w, "%4d  %s\n", i+1, StyleValue.Render(string(id)))
			}
			return nil
		},
	}
}

// =============================================================================
// Shared helpers
// =============================================================================

// loadGraph imports the snapshot at path and logs its size.
func (c *CLI) loadGraph(ctx context.Context, path string) (*graph.PackageGraph, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	g, err := cancellable(ctx, func() (*graph.PackageGraph, error) {
		return pkgio.ImportJSON(path)
	})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d packages, %d edges", g.Len(), g.EdgeCount()))
	if c.opts.target != nil {
		logger.Debug("Evaluating platform conditions", "platform", c.opts.target, "target_features", c.opts.target.Features().Names())
	}
	return g, nil
}

// resolvePackage maps a command-line package reference to a package id.
// A reference is an exact id, a package name, or name@constraint; names must
// identify exactly one package.
func resolvePackage(g *graph.PackageGraph, ref string) (graph.PackageID, error) {
	if id := graph.PackageID(ref); g.Contains(id) {
		return id, nil
	}

	var matches []*graph.PackageMetadata
	if name, constraint, ok := strings.Cut(ref, "@"); ok {
		var err error
		if matches, err = g.PackagesMatching(name, constraint); err != nil {
			return "", err
		}
	} else {
		matches = g.PackagesNamed(ref)
	}

	switch len(matches) {
	case 0:
		return "", pkgerrors.New(pkgerrors.ErrCodeUnknownPackage, "no package matches %q", ref)
	case 1:
		return matches[0].ID(), nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = string(m.ID())
	}
	return "", pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "%q is ambiguous: %s", ref, strings.Join(ids, ", "))
}

func resolvePackages(g *graph.PackageGraph, refs []string) ([]graph.PackageID, error) {
	ids := make([]graph.PackageID, 0, len(refs))
	for _, ref := range refs {
		id, err := resolvePackage(g, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
