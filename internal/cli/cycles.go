package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/graph/query"
)

type cyclesOpts struct {
	strict bool
}

func (c *CLI) cyclesCommand() *cobra.Command {
	var opts cyclesOpts

	cmd := &cobra.Command{
		Use:   "cycles <snapshot>",
		Short: "Find dependency cycles",
		Long: `Find every dependency cycle in the graph. Cycles that close only through
dev dependencies are normal in real workspaces and are listed separately.`,
		Example: `  pkggraph cycles metadata.json
  pkggraph cycles metadata.json --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCycles(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a cycle does not involve dev dependencies")
	return cmd
}

func (c *CLI) runCycles(cmd *cobra.Command, path string, opts cyclesOpts) error {
	ctx := cmd.Context()
	g, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	cycles, err := cancellable(ctx, func() ([]query.Cycle, error) {
		return query.Cycles(g, c.opts.filter), nil
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(cycles) == 0 {
		printSuccess(w, "No dependency cycles")
		return nil
	}

	var hard []query.Cycle
	for _, cy := range cycles {
		if cy.HasKind(graph.KindDevelopment) {
			printInfo(w, "%s", cy)
		} else {
			hard = append(hard, cy)
			printWarning(w, "%s", cy)
		}
		printDetail(w, "%d packages, kinds: %s", len(cy.Members), kindList(cy.Kinds()))
	}
	printKeyValue(w, "cycles", strconv.Itoa(len(cycles)))
	printKeyValue(w, "without dev", strconv.Itoa(len(hard)))

	if opts.strict && len(hard) > 0 {
		return pkgerrors.New(pkgerrors.ErrCodeCycle, "%d cycles do not involve dev dependencies", len(hard))
	}
	return nil
}

func kindList(kinds []graph.DependencyKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
