package cmd

import (
	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/outwriter"
	"github.com/spf13/cobra"
)

// compareCmd sweeps both builds and prints the comparison.
var compareCmd = &cobra.Command{
	Use:   "compare [query]",
	Short: "Compare two builds across a strength sweep.",
	Long: `Compare the normal and critical damage of two builds at eleven strength samples,
from 0.5x to 1.5x of each build's base strength.

Build parameters are resolved in this order, later sources winning:
  defaults, build1/build2 in the config file, --build1-preset/--build2-preset,
  the query argument, then every --set flag in order.

The query uses the same b1_<field>/b2_<field> keys as the web page, so a
comparison can be shared as a single string.

Examples:
  # Compare the default builds
  dmgcalc compare

  # Double the strength of build 2
  dmgcalc compare "b2_baseStrength=2000"

  # Adjust one field and export the sweep to CSV
  dmgcalc compare --set b2_pierce=0.4 --output csv --output-file sweep.csv

  # Record the run in a local history database
  dmgcalc compare --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, historyManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
