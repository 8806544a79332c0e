package cmd

import (
	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/outwriter"
	"github.com/spf13/cobra"
)

// paramsCmd lists the build parameters.
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the build parameters and the damage formula.",
	Long: `List every build parameter with its query key, label, group and default value,
followed by the damage formula and the chart series.

Examples:
  # Show the parameter reference
  dmgcalc params

  # Export the parameter table as CSV
  dmgcalc params --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteParams(rootCtx, cfg, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot list parameters", err)
		}
	},
}
