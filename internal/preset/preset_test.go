package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_PartialKeepsBase(t *testing.T) {
	path := writeFile(t, `
name: glass-cannon
description: high crit, low block
build:
  baseStrength: 1500
  criticalDamageMultiplier: 2.25
`)
	p, err := Load(path, schema.DefaultParameters())
	require.NoError(t, err)

	assert.Equal(t, "glass-cannon", p.Name)
	assert.Equal(t, "high crit, low block", p.Description)
	assert.Equal(t, 1500.0, p.Build.BaseStrength)
	assert.Equal(t, 2.25, p.Build.CriticalDamageMultiplier)
	assert.Equal(t, 100.0, p.Build.Block)
	assert.Equal(t, 0.1, p.Build.Brutal)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "unknown field", content: "build:\n  strenght: 10\n", errMsg: "parsing preset"},
		{name: "not a number", content: "build:\n  block: lots\n", errMsg: "parsing preset"},
		{name: "infinite", content: "build:\n  block: .inf\n", errMsg: "block is not a finite number"},
		{name: "unknown top level", content: "builds: {}\n", errMsg: "parsing preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content), schema.DefaultParameters())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), schema.DefaultParameters())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	p, err := Load(writeFile(t, ""), schema.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultParameters(), p.Build)
}

func TestSaveAndLoad(t *testing.T) {
	build := schema.DefaultParameters()
	build.BaseStrength = 2000
	build.Pierce = 0.35

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, Preset{Name: "b2", Build: build}))

	loaded, err := Load(path, schema.ParameterSet{})
	require.NoError(t, err)
	assert.Equal(t, "b2", loaded.Name)
	assert.Equal(t, build, loaded.Build)
}

func TestMarshal_SchemaOrder(t *testing.T) {
	data, err := Marshal(Preset{Name: "x", Build: schema.DefaultParameters()})
	require.NoError(t, err)

	text := string(data)
	assert.NotContains(t, text, "description")
	last := -1
	for _, f := range schema.Fields {
		idx := strings.Index(text, "  "+f.Key+":")
		require.GreaterOrEqual(t, idx, 0, f.Key)
		assert.Greater(t, idx, last, f.Key)
		last = idx
	}
}
