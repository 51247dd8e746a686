package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/platform"
)

// options holds the persistent flags shared by every query command, merged
// with the config file. Flags set on the command line win over the file.
type options struct {
	configPath     string
	platform       string
	targetFeatures []string
	cfgFlags       []string
	noDev          bool
	includeUnknown bool
	metricsFile    string

	// featuresKnown is false until target features are given by a flag or
	// the config file, in which case target_feature predicates are Unknown.
	featuresKnown bool

	target *platform.Platform
	filter graph.EdgeFilter
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "config file (default ./"+configFile+" if present)")
	fs.StringVar(&o.platform, "platform", "", "target triple used to evaluate platform-specific dependencies")
	fs.StringSliceVar(&o.targetFeatures, "target-features", nil, "target features enabled on --platform (unknown when unset)")
	fs.StringSliceVar(&o.cfgFlags, "cfg", nil, "extra bare cfg flags set on --platform")
	fs.BoolVar(&o.noDev, "no-dev", false, "ignore dev dependencies")
	fs.BoolVar(&o.includeUnknown, "include-unknown", true, "keep dependencies whose platform condition cannot be decided")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when the command finishes")
}

// load merges the config file into unset flags and derives the edge filter.
func (o *options) load(fs *pflag.FlagSet) error {
	path := o.configPath
	if path == "" && fileExists(configFile) {
		path = configFile
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		o.merge(cfg, fs)
	}
	if fs.Changed("target-features") {
		o.featuresKnown = true
	}
	return o.buildFilter()
}

func (o *options) merge(cfg Config, fs *pflag.FlagSet) {
	if !fs.Changed("platform") && cfg.Platform != "" {
		o.platform = cfg.Platform
	}
	if !fs.Changed("target-features") && cfg.featuresSet {
		o.targetFeatures = cfg.TargetFeatures
		o.featuresKnown = true
	}
	if !fs.Changed("cfg") && len(cfg.CfgFlags) > 0 {
		o.cfgFlags = cfg.CfgFlags
	}
	if !fs.Changed("no-dev") && cfg.NoDev {
		o.noDev = true
	}
	if !fs.Changed("include-unknown") && cfg.IncludeUnknown != nil {
		o.includeUnknown = *cfg.IncludeUnknown
	}
	if !fs.Changed("metrics-file") && cfg.MetricsFile != "" {
		o.metricsFile = cfg.MetricsFile
	}
}

func (o *options) buildFilter() error {
	var filters []graph.EdgeFilter
	if o.noDev {
		filters = append(filters, graph.NoDev())
	}
	o.target = nil
	if o.platform != "" {
		features := platform.UnknownFeatures()
		if o.featuresKnown {
			features = platform.Features(o.targetFeatures...)
		}
		p, err := platform.New(o.platform, features)
		if err != nil {
			return err
		}
		if len(o.cfgFlags) > 0 {
			p = p.WithFlags(o.cfgFlags...)
		}
		o.target = p
		filters = append(filters, graph.OnPlatform(p, o.includeUnknown))
	}
	o.filter = graph.And(filters...)
	return nil
}
