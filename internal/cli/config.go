package cli

import (
	"strings"

	"github.com/BurntSushi/toml"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
)

// Config is the layout of a pkggraph.toml file:
//
//	platform = "x86_64-unknown-linux-gnu"
//	target_features = ["sse2", "avx2"]
//	cfg = ["tokio_unstable"]
//	no_dev = true
//	include_unknown = false
//	metrics_file = "pkggraph.prom"
type Config struct {
	Platform       string   `toml:"platform"`
	TargetFeatures []string `toml:"target_features"`
	CfgFlags       []string `toml:"cfg"`
	NoDev          bool     `toml:"no_dev"`
	IncludeUnknown *bool    `toml:"include_unknown"`
	MetricsFile    string   `toml:"metrics_file"`

	// featuresSet distinguishes an explicit empty target_features from an
	// absent key.
	featuresSet bool
}

// loadConfig decodes the config file at path. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.featuresSet = md.IsDefined("target_features")
	return cfg, nil
}
