package contract

import (
	"testing"

	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Precision: DefaultPrecision,
		Output:    "text",
		Emoji:     "no",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"precision too high", func(in *ConfigRawInput) { in.Precision = 5 }, true},
		{"precision negative", func(in *ConfigRawInput) { in.Precision = -1 }, true},
		{"precision zero", func(in *ConfigRawInput) { in.Precision = 0 }, false},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "yaml" }, true},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"xlsx with file", func(in *ConfigRawInput) { in.Output = "xlsx"; in.OutputFile = "out.xlsx" }, false},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"invalid emoji", func(in *ConfigRawInput) { in.Emoji = "maybe" }, true},
		{"invalid log level", func(in *ConfigRawInput) { in.LogLevel = "trace" }, true},
		{"invalid backend", func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }, true},
		{"mysql without connect", func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, true},
		{"sqlite backend", func(in *ConfigRawInput) { in.HistoryBackend = "SQLite" }, false},
		{"unknown build field", func(in *ConfigRawInput) { in.Build1 = map[string]any{"power": 1} }, true},
		{"bad build value", func(in *ConfigRawInput) { in.Build2 = map[string]any{"block": []int{1}} }, true},
		{"bad set entry", func(in *ConfigRawInput) { in.Set = []string{"b1_block"} }, true},
		{"bad set key", func(in *ConfigRawInput) { in.Set = []string{"b3_block=1"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateValues(t *testing.T) {
	input := validInput()
	input.QueryStr = " ?b1_block=120 "
	input.Output = "JSON"
	input.HistoryBackend = ""
	input.Build1 = map[string]any{"basestrength": 1200, "block": "80"}
	input.Build2 = map[string]any{"criticalDamageMultiplier": 2.0}
	input.Set = []string{"b2_pierce=0.3", "b1_tenacity=abc"}
	input.Build2Preset = " tank.yaml "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "b1_block=120", cfg.Query)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)

	assert.Equal(t, map[string]float64{"baseStrength": 1200, "block": 80}, cfg.Overrides[schema.Build1])
	assert.Equal(t, map[string]float64{"criticalDamageMultiplier": 2}, cfg.Overrides[schema.Build2])

	require.Len(t, cfg.Mutations, 2)
	assert.Equal(t, Mutation{Build: schema.Build2, Field: "pierce", Raw: "0.3"}, cfg.Mutations[0])
	assert.Equal(t, Mutation{Build: schema.Build1, Field: "tenacity", Raw: "abc"}, cfg.Mutations[1])

	assert.Equal(t, map[schema.BuildID]string{schema.Build2: "tank.yaml"}, cfg.Presets)
}

func TestParseMutation(t *testing.T) {
	m, err := ParseMutation("b1_block = 150")
	require.NoError(t, err)
	assert.Equal(t, schema.Build1, m.Build)
	assert.Equal(t, "block", m.Field)
	assert.Equal(t, " 150", m.Raw)

	m, err = ParseMutation("b2_baseStrength=")
	require.NoError(t, err)
	assert.Equal(t, "", m.Raw)

	_, err = ParseMutation("b1_nope=1")
	assert.Error(t, err)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/dmgcalc", false},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/dmgcalc", true},
		{"mysql no db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=dmgcalc", false},
		{"postgres no host", schema.PostgreSQLBackend, "dbname=dmgcalc", true},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{2.5, float32(2.5), "2.5", " 2.5 "} {
		got, err := toFloat(v)
		require.NoError(t, err)
		assert.Equal(t, 2.5, got)
	}
	got, err := toFloat(int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = toFloat("abc")
	assert.Error(t, err)
	_, err = toFloat("0x1p3")
	assert.Error(t, err)
	_, err = toFloat(true)
	assert.Error(t, err)
}
