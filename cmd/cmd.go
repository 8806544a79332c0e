// Package cmd defines the command-line interface for dmgcalc.
package cmd

import (
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(damageCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the preset subcommands to the parent preset command
	presetCmd.AddCommand(presetExportCmd)
	presetCmd.AddCommand(presetShowCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns (0-4)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql, or a file path for sqlite")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level for serve and mcp: debug or info or warn or error")
	rootCmd.PersistentFlags().StringArray("set", nil, "Set one build field, e.g. --set b2_pierce=0.4 (repeatable)")
	rootCmd.PersistentFlags().String("build1-preset", "", "YAML preset file applied to build 1")
	rootCmd.PersistentFlags().String("build2-preset", "", "YAML preset file applied to build 2")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags local to a single command are read from cobra, since damage and
	// preset export both define --build.
	damageCmd.Flags().Float64("strength", 0, "Strength value to evaluate")
	damageCmd.Flags().String("build", string(schema.Build1), "Build to evaluate: b1 or b2")
	damageCmd.Flags().Bool("crit", false, "Force a critical hit")
	damageCmd.Flags().Bool("explain", false, "Print every stage of the damage formula")
	if err := damageCmd.MarkFlagRequired("strength"); err != nil {
		contract.LogFatal("Error marking damage flags", err)
	}

	presetExportCmd.Flags().String("build", string(schema.Build1), "Build to export: b1 or b2")
	presetExportCmd.Flags().String("name", "", "Preset name (defaults to the build title)")
	presetExportCmd.Flags().String("description", "", "Optional preset description")

	serveCmd.Flags().String("addr", "", "Listen address override (default from DMGCALC_HTTP_ADDR)")

	// Bind all flags of the history subcommands to Viper
	historyListCmd.Flags().Int("limit", 20, "Number of most recent runs to list (0 = all)")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
