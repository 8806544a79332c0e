package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/preset"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/spf13/cobra"
)

// presetCmd groups the preset file commands.
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save and inspect builds as YAML presets",
	Long: `Presets store one build as a YAML file so it can be reused with
--build1-preset and --build2-preset.

A preset only needs to list the fields it changes; missing fields keep the
value from the defaults and the config file.

Subcommands:
  export - Write a resolved build as a preset
  show   - Print a preset with every field filled in

Examples:
  # Save build 2 of a shared query
  dmgcalc preset export "b2_pierce=0.4" --build b2 --output-file glass-cannon.yaml

  # Compare the saved build against the defaults
  dmgcalc compare --build2-preset glass-cannon.yaml`,
}

// presetExportCmd writes a resolved build as a preset.
var presetExportCmd = &cobra.Command{
	Use:     "export [query]",
	Short:   "Write a resolved build as a YAML preset",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		buildStr, _ := cmd.Flags().GetString("build")
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		build, err := core.ParseBuild(buildStr)
		if err != nil {
			contract.LogFatal("Invalid preset flags", err)
		}
		p, err := core.PresetFromConfig(cfg, build, name, description)
		if err != nil {
			contract.LogFatal("Failed to resolve build", err)
		}

		if cfg.OutputFile != "" {
			if err := preset.Save(cfg.OutputFile, p); err != nil {
				contract.LogFatal("Failed to write preset", err)
			}
			fmt.Printf("Wrote %s preset to %s\n", build.Title(), cfg.OutputFile)
			return
		}
		data, err := preset.Marshal(p)
		if err != nil {
			contract.LogFatal("Failed to encode preset", err)
		}
		_, _ = os.Stdout.Write(data)
	},
}

// presetShowCmd prints a preset with every field filled in from the defaults.
var presetShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a preset with defaults filled in",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		p, err := preset.Load(args[0], schema.DefaultParameters())
		if err != nil {
			contract.LogFatal("Failed to load preset", err)
		}
		data, err := preset.Marshal(p)
		if err != nil {
			contract.LogFatal("Failed to encode preset", err)
		}
		_, _ = os.Stdout.Write(data)
	},
}
