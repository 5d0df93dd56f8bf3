// Package config holds the engine's tunable options: resource bounds,
// maintenance scheduling, and the weighting/strategy choices that feed
// scoring and joinability. A Config can be loaded from YAML and
// overlaid with cobra flags by the CLI.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CriticalPairWeights are the score function's weights, smaller total
// score meaning a more promising overlap.
type CriticalPairWeights struct {
	Size  int `yaml:"size"`
	Depth int `yaml:"depth"`
}

// JoinStrategies selects which joinability strategies are attempted,
// beyond always-on plain normalisation.
type JoinStrategies struct {
	Subconnectedness  bool `yaml:"subconnectedness"`
	GroundJoinability bool `yaml:"ground_joinability"`
}

// Config mirrors the options table of the external-interfaces section
// exactly: every field here has one documented effect on the loop.
type Config struct {
	MaxTermSize        int                 `yaml:"max_term_size"`
	MaxCriticalPairs   int                 `yaml:"max_critical_pairs"`
	MaxCPDepth         int                 `yaml:"max_cp_depth"`
	Simplify           bool                `yaml:"simplify"`
	RenormalisePercent float64             `yaml:"renormalise_percent"`
	CriticalPairs      CriticalPairWeights `yaml:"critical_pairs"`
	Join               JoinStrategies      `yaml:"join"`
}

// Default returns the configuration the engine runs with absent any
// overrides: generous resource bounds, periodic interreduction enabled,
// and the plain join strategy only.
func Default() Config {
	return Config{
		MaxTermSize:        1000,
		MaxCriticalPairs:   1 << 20,
		MaxCPDepth:         0, // 0 means unbounded
		Simplify:           true,
		RenormalisePercent: 0.1,
		CriticalPairs:      CriticalPairWeights{Size: 1, Depth: 1},
		Join:               JoinStrategies{},
	}
}

// Load reads path as YAML and overlays it onto Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
