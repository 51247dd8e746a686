package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkggraph/pkg/graph"
)

type featuresOpts struct {
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	showFeatures      bool
}

func (c *CLI) featuresCommand() *cobra.Command {
	var opts featuresOpts

	cmd := &cobra.Command{
		Use:   "features <snapshot> <package>",
		Short: "Show the packages activated by a feature set",
		Long: `Enable features on a package and list every package and feature that
becomes active. The package's default feature is enabled unless
--no-default-features is given.`,
		Example: `  pkggraph features metadata.json app
  pkggraph features metadata.json app --features json,tls --no-default-features
  pkggraph features metadata.json app --all-features --show-features`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeatures(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.features, "features", "F", nil, "features to enable")
	cmd.Flags().BoolVar(&opts.allFeatures, "all-features", false, "enable every feature of the package")
	cmd.Flags().BoolVar(&opts.noDefaultFeatures, "no-default-features", false, "do not enable the default feature")
	cmd.Flags().BoolVar(&opts.showFeatures, "show-features", false, "list the enabled features of each package")
	return cmd
}

func (c *CLI) runFeatures(cmd *cobra.Command, path, ref string, opts featuresOpts) error {
	ctx := cmd.Context()
	g, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	id, err := resolvePackage(g, ref)
	if err != nil {
		return err
	}
	m, _ := g.Package(id)

	requested := requestedFeatures(m, opts)
	act, err := cancellable(ctx, func() (*graph.Activation, error) {
		return g.FeatureGraph().Activate(id, requested, c.opts.filter)
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "%d packages activated by %s", len(act.Packages())-1, describeFeatures(requested))
	for _, pkg := range act.Packages() {
		if pkg == id {
			continue
		}
		printPackage(w, g, pkg)
		if opts.showFeatures {
			if feats := act.EnabledFeatures(pkg); len(feats) > 0 {
				printDetail(w, "%s", strings.Join(feats, ", "))
			}
		}
	}
	if opts.showFeatures {
		printKeyValue(w, string(id), strings.Join(act.EnabledFeatures(id), ", "))
	}
	return nil
}

// requestedFeatures returns the features to enable on m: the explicit list,
// every feature with --all-features, plus "default" unless disabled.
func requestedFeatures(m *graph.PackageMetadata, opts featuresOpts) []string {
	var features []string
	if opts.allFeatures {
		features = m.FeatureNames()
	} else {
		features = slices.Clone(opts.features)
	}
	if !opts.noDefaultFeatures && m.HasFeature("default") && !slices.Contains(features, "default") {
		features = append(features, "default")
	}
	return features
}

func describeFeatures(features []string) string {
	if len(features) == 0 {
		return "no features"
	}
	return "features " + strings.Join(features, ", ")
}
