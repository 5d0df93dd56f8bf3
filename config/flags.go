package config

import "github.com/spf13/cobra"

// BindFlags registers one cobra flag per Config field on cmd, matching
// the effects table exactly. Each flag writes straight into its cfg
// field when cmd parses its arguments.
func BindFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().IntVar(&cfg.MaxTermSize, "max-term-size", cfg.MaxTermSize, "drop critical pairs whose either side exceeds this symbol count")
	cmd.Flags().IntVar(&cfg.MaxCriticalPairs, "max-critical-pairs", cfg.MaxCriticalPairs, "stop once this many critical pairs have been considered")
	cmd.Flags().IntVar(&cfg.MaxCPDepth, "max-cp-depth", cfg.MaxCPDepth, "drop overlaps whose depth exceeds this (0 means unbounded)")
	cmd.Flags().BoolVar(&cfg.Simplify, "simplify", cfg.Simplify, "enable periodic interreduction")
	cmd.Flags().Float64Var(&cfg.RenormalisePercent, "renormalise-percent", cfg.RenormalisePercent, "fraction of work-units between queue-simplification passes")
	cmd.Flags().IntVar(&cfg.CriticalPairs.Size, "cp-size-weight", cfg.CriticalPairs.Size, "score function's term-size weight")
	cmd.Flags().IntVar(&cfg.CriticalPairs.Depth, "cp-depth-weight", cfg.CriticalPairs.Depth, "score function's derivation-depth weight")
	cmd.Flags().BoolVar(&cfg.Join.Subconnectedness, "join-subconnectedness", cfg.Join.Subconnectedness, "attempt subconnectedness joinability")
	cmd.Flags().BoolVar(&cfg.Join.GroundJoinability, "join-ground-joinability", cfg.Join.GroundJoinability, "attempt ground-joinability")
}
