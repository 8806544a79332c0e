package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/dmgcalc/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultLogLevel  = "info"
)

// Mutation is one input change addressed at a build field, as given by --set.
type Mutation struct {
	Build schema.BuildID
	Field string
	Raw   string
}

// Config holds the runtime configuration for a comparison.
// This struct remains the "final, validated" config.
type Config struct {
	Query      string // Seed query string, with or without a leading '?'
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	// Overrides maps each build to field values read from the config file.
	Overrides map[schema.BuildID]map[string]float64

	// Presets maps each build to a YAML preset path.
	Presets map[schema.BuildID]string

	// Mutations are applied after every other source, in flag order.
	Mutations []Mutation

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	QueryStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile       string   `mapstructure:"output-file"`
	Precision        int      `mapstructure:"precision"`
	Output           string   `mapstructure:"output"`
	Width            int      `mapstructure:"width"`
	HistoryBackend   string   `mapstructure:"history-backend"`
	HistoryDBConnect string   `mapstructure:"history-db-connect"`
	LogLevel         string   `mapstructure:"log-level"`
	Emoji            string   `mapstructure:"emoji"`
	Color            string   `mapstructure:"color"`
	Set              []string `mapstructure:"set"`
	Build1Preset     string   `mapstructure:"build1-preset"`
	Build2Preset     string   `mapstructure:"build2-preset"`

	// --- Build overrides from config file ---
	Build1 map[string]any `mapstructure:"build1"`
	Build2 map[string]any `mapstructure:"build2"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processBuildOverrides(cfg, input); err != nil {
		return err
	}
	if err := processMutations(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Query = strings.TrimPrefix(strings.TrimSpace(input.QueryStr), "?")
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.Presets = make(map[schema.BuildID]string)
	if p := strings.TrimSpace(input.Build1Preset); p != "" {
		cfg.Presets[schema.Build1] = p
	}
	if p := strings.TrimSpace(input.Build2Preset); p != "" {
		cfg.Presets[schema.Build2] = p
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
// An empty backend disables history tracking.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processBuildOverrides converts the build1/build2 config maps into field values.
// Field names are matched case-insensitively because viper lowercases map keys.
func processBuildOverrides(cfg *Config, input *ConfigRawInput) error {
	cfg.Overrides = make(map[schema.BuildID]map[string]float64)
	raw := map[schema.BuildID]map[string]any{
		schema.Build1: input.Build1,
		schema.Build2: input.Build2,
	}
	for _, build := range schema.AllBuilds {
		if len(raw[build]) == 0 {
			continue
		}
		values := make(map[string]float64, len(raw[build]))
		for key, v := range raw[build] {
			f, ok := schema.LookupFieldFold(key)
			if !ok {
				return fmt.Errorf("unknown field '%s' in %s config", key, build)
			}
			num, err := toFloat(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s in %s config: %w", f.Key, build, err)
			}
			if math.IsNaN(num) || math.IsInf(num, 0) {
				return fmt.Errorf("invalid value for %s in %s config: not a finite number", f.Key, build)
			}
			values[f.Key] = num
		}
		cfg.Overrides[build] = values
	}
	return nil
}

// processMutations parses the repeatable --set flag. Values are kept raw so
// they follow the same parsing rules as typed input.
func processMutations(cfg *Config, input *ConfigRawInput) error {
	cfg.Mutations = nil
	for _, entry := range input.Set {
		m, err := ParseMutation(entry)
		if err != nil {
			return err
		}
		cfg.Mutations = append(cfg.Mutations, m)
	}
	return nil
}

// ParseMutation parses one "b1_field=value" entry.
func ParseMutation(entry string) (Mutation, error) {
	name, raw, found := strings.Cut(strings.TrimSpace(entry), "=")
	if !found {
		return Mutation{}, fmt.Errorf("invalid --set entry '%s', expected 'b1_field=value'", entry)
	}
	build, f, ok := schema.ParseQueryKey(strings.TrimSpace(name))
	if !ok {
		return Mutation{}, fmt.Errorf("invalid --set key '%s', expected b1_<field> or b2_<field>", name)
	}
	return Mutation{Build: build, Field: f.Key, Raw: raw}, nil
}

// toFloat converts a decoded YAML/env value to a float.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, ok := schema.ParseFinite(n)
		if !ok {
			return 0, fmt.Errorf("not a finite number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dmgcalc_history.db"
	}
	return filepath.Join(homeDir, ".dmgcalc_history.db")
}
