package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/iocache"
	"github.com/huangsam/dmgcalc/internal/outwriter"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestExecuteCompare tests the main comparison entry point without history.
func TestExecuteCompare(t *testing.T) {
	ctx := context.Background()

	mockMgr := &iocache.MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(nil) // No history tracking for test

	cfg := &contract.Config{
		Query:     "b2_baseStrength=2000",
		Output:    schema.TextOut,
		Mutations: []contract.Mutation{{Build: schema.Build1, Field: "block", Raw: "120"}},
	}

	ow := &outwriter.MockOutputWriter{}
	ow.On("WriteSeries", mock.MatchedBy(func(r schema.SeriesResult) bool {
		return r.Build2.BaseStrength == 2000 && r.Build1.Block == 120 && len(r.Points) == schema.SampleCount
	}), cfg, mock.Anything).Return(nil)

	require.NoError(t, ExecuteCompare(ctx, cfg, mockMgr, ow))

	mockMgr.AssertExpectations(t)
	ow.AssertExpectations(t)
}

// TestExecuteCompare_RecordsHistory checks that the run is stored under the context source.
func TestExecuteCompare_RecordsHistory(t *testing.T) {
	ctx := WithHistorySource(context.Background(), SourceWeb)

	store := &iocache.MockHistoryStore{}
	store.On("RecordRun", mock.MatchedBy(func(e schema.HistoryEntry) bool {
		return e.Source == SourceWeb && e.Result.Query != "" && !e.RunTime.IsZero()
	})).Return(int64(1), nil)
	mockMgr := &iocache.MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(store)

	ow := &outwriter.MockOutputWriter{}
	ow.On("WriteSeries", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, ExecuteCompare(ctx, &contract.Config{}, mockMgr, ow))
	store.AssertExpectations(t)
}

// TestExecuteCompare_HistoryFailureIsNotFatal keeps the output even when recording fails.
func TestExecuteCompare_HistoryFailureIsNotFatal(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("RecordRun", mock.Anything).Return(int64(0), errors.New("disk full"))
	mockMgr := &iocache.MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(store)

	ow := &outwriter.MockOutputWriter{}
	ow.On("WriteSeries", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, ExecuteCompare(context.Background(), &contract.Config{}, mockMgr, ow))
	ow.AssertExpectations(t)
}

// TestExecuteCompare_BadMutation surfaces unknown fields from --set.
func TestExecuteCompare_BadMutation(t *testing.T) {
	cfg := &contract.Config{
		Mutations: []contract.Mutation{{Build: schema.Build1, Field: "mana", Raw: "1"}},
	}
	ow := &outwriter.MockOutputWriter{}

	err := ExecuteCompare(context.Background(), cfg, nil, ow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
	ow.AssertNotCalled(t, "WriteSeries", mock.Anything, mock.Anything, mock.Anything)
}

// TestExecuteDamage tests the single evaluation entry point.
func TestExecuteDamage(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}

	ow := &outwriter.MockOutputWriter{}
	ow.On("WriteDamage", mock.MatchedBy(func(r schema.DamageResult) bool {
		return r.Build == schema.Build1 && r.Strength == 1000 && !r.ForceCrit
	}), cfg, true).Return(nil)

	err := ExecuteDamage(context.Background(), cfg, ow, DamageRequest{Strength: 1000, Explain: true})
	require.NoError(t, err)
	ow.AssertExpectations(t)
}

func TestExecuteDamage_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteDamage(ctx, &contract.Config{}, &outwriter.MockOutputWriter{}, DamageRequest{Strength: 1000})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteParams(t *testing.T) {
	cfg := &contract.Config{}
	ow := &outwriter.MockOutputWriter{}
	ow.On("WriteParams", mock.AnythingOfType("schema.ParamsRenderModel"), cfg).Return(nil)

	require.NoError(t, ExecuteParams(context.Background(), cfg, ow))
	ow.AssertExpectations(t)
}

func TestEvaluateDamage(t *testing.T) {
	store, err := NewStoreFromConfig(&contract.Config{Query: "b2_brutal=0.3"})
	require.NoError(t, err)

	normal, err := EvaluateDamage(store, DamageRequest{Strength: 1000})
	require.NoError(t, err)
	assert.Equal(t, schema.Build1, normal.Build)
	assert.InDelta(t, 2551.12, normal.Damage, 1e-9)
	assert.Equal(t, normal.Breakdown.Normal, normal.Damage)
	assert.Equal(t, store.Query(), normal.Query)

	crit, err := EvaluateDamage(store, DamageRequest{Strength: 1000, Crit: true})
	require.NoError(t, err)
	assert.InDelta(t, 5867.576, crit.Damage, 1e-9)

	b2, err := EvaluateDamage(store, DamageRequest{Strength: 1000, Build: schema.Build2})
	require.NoError(t, err)
	assert.Greater(t, b2.Damage, normal.Damage)

	_, err = EvaluateDamage(store, DamageRequest{Strength: 1000, Build: "b3"})
	assert.ErrorIs(t, err, ErrUnknownBuild)
}

// TestNewStoreFromConfig_Precedence checks defaults, config, preset, query and --set in that order.
func TestNewStoreFromConfig_Precedence(t *testing.T) {
	presetPath := filepath.Join(t.TempDir(), "tank.yaml")
	require.NoError(t, os.WriteFile(presetPath, []byte("name: tank\nbuild:\n  block: 300\n  pierce: 0.4\n"), 0o644))

	cfg := &contract.Config{
		Overrides: map[schema.BuildID]map[string]float64{
			schema.Build1: {"block": 200, "fortitude": 80, "pierce": 0.1},
		},
		Presets: map[schema.BuildID]string{schema.Build1: presetPath},
		Query:   "b1_pierce=0.5&b1_tenacity=0.2",
		Mutations: []contract.Mutation{
			{Build: schema.Build1, Field: "tenacity", Raw: "0.3"},
		},
	}

	store, err := NewStoreFromConfig(cfg)
	require.NoError(t, err)
	p1, p2 := store.Builds()

	assert.Equal(t, 80.0, p1.Fortitude, "config override")
	assert.Equal(t, 300.0, p1.Block, "preset wins over config")
	assert.Equal(t, 0.5, p1.Pierce, "query wins over preset")
	assert.Equal(t, 0.3, p1.Tenacity, "--set wins over query")
	assert.Equal(t, schema.DefaultParameters(), p2)
}

func TestNewStoreFromConfig_MalformedMutationBecomesZero(t *testing.T) {
	cfg := &contract.Config{
		Mutations: []contract.Mutation{{Build: schema.Build2, Field: "block", Raw: "lots"}},
	}
	store, err := NewStoreFromConfig(cfg)
	require.NoError(t, err)
	p2, err := store.Params(schema.Build2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p2.Block)
}

func TestNewStoreFromConfig_MissingPreset(t *testing.T) {
	cfg := &contract.Config{
		Presets: map[schema.BuildID]string{schema.Build2: filepath.Join(t.TempDir(), "missing.yaml")},
	}
	_, err := NewStoreFromConfig(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPresetFromConfig(t *testing.T) {
	cfg := &contract.Config{Query: "b2_baseStrength=1800"}

	p, err := PresetFromConfig(cfg, schema.Build2, "", "late game")
	require.NoError(t, err)
	assert.Equal(t, "Build 2", p.Name)
	assert.Equal(t, "late game", p.Description)
	assert.Equal(t, 1800.0, p.Build.BaseStrength)

	_, err = PresetFromConfig(cfg, "b9", "x", "")
	assert.ErrorIs(t, err, ErrUnknownBuild)
}

func TestRecordRun_NilManager(t *testing.T) {
	assert.Equal(t, int64(0), RecordRun(context.Background(), nil, schema.SeriesResult{}))
}

func TestBuildParamsRenderModel(t *testing.T) {
	model := BuildParamsRenderModel()

	require.Len(t, model.Groups, len(schema.AllGroups))
	total := 0
	for _, g := range model.Groups {
		assert.NotEmpty(t, g.Purpose)
		for _, f := range g.Fields {
			assert.Equal(t, g.Group, f.Group)
		}
		total += len(g.Fields)
	}
	assert.Equal(t, len(schema.Fields), total)
	assert.Equal(t, "baseStrength", model.Groups[0].Fields[0].Key)

	require.NotEmpty(t, model.Formula)
	assert.Contains(t, model.Formula[0], "brutal + guildBuff")
	assert.Equal(t, []string{"criticalRate", "enemyCriticalEvadeRate"}, model.Unused)
	assert.Equal(t, schema.SeriesStyles, model.Series)
}

func TestParseBuild(t *testing.T) {
	tests := []struct {
		in   string
		want schema.BuildID
	}{
		{"", schema.Build1},
		{"b1", schema.Build1},
		{"1", schema.Build1},
		{" B2 ", schema.Build2},
		{"2", schema.Build2},
	}
	for _, tt := range tests {
		got, err := ParseBuild(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseBuild("b3")
	assert.ErrorIs(t, err, ErrUnknownBuild)
}
