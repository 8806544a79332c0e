package cmd

import (
	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/outwriter"
	"github.com/spf13/cobra"
)

// damageCmd evaluates a single build at a single strength.
var damageCmd = &cobra.Command{
	Use:   "damage [query]",
	Short: "Compute the damage of one build at one strength value.",
	Long: `Evaluate the damage formula once for the selected build.

Use --explain to print the value after every stage of the formula, which is
the quickest way to see where a build loses damage.

Examples:
  # Normal hit of build 1 at 1000 strength
  dmgcalc damage --strength 1000

  # Critical hit of build 2 with every stage shown
  dmgcalc damage "b2_criticalDamageMultiplier=1.8" --strength 1500 --build b2 --crit --explain`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		req, err := damageRequestFromFlags(cmd)
		if err != nil {
			contract.LogFatal("Invalid damage flags", err)
		}
		if err := core.ExecuteDamage(rootCtx, cfg, outwriter.NewOutWriter(), req); err != nil {
			contract.LogFatal("Cannot compute damage", err)
		}
	},
}

// damageRequestFromFlags reads the damage command flags.
func damageRequestFromFlags(cmd *cobra.Command) (core.DamageRequest, error) {
	var req core.DamageRequest
	var err error
	if req.Strength, err = cmd.Flags().GetFloat64("strength"); err != nil {
		return req, err
	}
	build, err := cmd.Flags().GetString("build")
	if err != nil {
		return req, err
	}
	if req.Build, err = core.ParseBuild(build); err != nil {
		return req, err
	}
	if req.Crit, err = cmd.Flags().GetBool("crit"); err != nil {
		return req, err
	}
	if req.Explain, err = cmd.Flags().GetBool("explain"); err != nil {
		return req, err
	}
	return req, nil
}
