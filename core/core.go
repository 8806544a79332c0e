// Package core has core logic for damage evaluation, strength sweeps and build state.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/preset"
	"github.com/huangsam/dmgcalc/internal/statesink"
	"github.com/huangsam/dmgcalc/schema"
)

// DamageRequest selects a single damage evaluation.
type DamageRequest struct {
	Strength float64
	Build    schema.BuildID
	Crit     bool
	Explain  bool
}

// ExecuteCompare seeds a store from cfg, writes the strength sweep and
// records the run when history tracking is enabled.
// It serves as the main entry point for the 'compare' mode.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, ow contract.OutputWriter) error {
	start := time.Now()
	store, err := NewStoreFromConfig(cfg)
	if err != nil {
		return err
	}
	result := store.Result()
	RecordRun(ctx, mgr, result)
	duration := time.Since(start)
	return ow.WriteSeries(result, cfg, duration)
}

// ExecuteDamage evaluates one build at one strength and writes the result.
func ExecuteDamage(ctx context.Context, cfg *contract.Config, ow contract.OutputWriter, req DamageRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store, err := NewStoreFromConfig(cfg)
	if err != nil {
		return err
	}
	result, err := EvaluateDamage(store, req)
	if err != nil {
		return err
	}
	return ow.WriteDamage(result, cfg, req.Explain)
}

// ExecuteParams writes the parameter schema.
func ExecuteParams(ctx context.Context, cfg *contract.Config, ow contract.OutputWriter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ow.WriteParams(BuildParamsRenderModel(), cfg)
}

// EvaluateDamage computes the damage of one build in store at req.Strength.
// An empty build means Build 1.
func EvaluateDamage(store *BuildStore, req DamageRequest) (schema.DamageResult, error) {
	build := req.Build
	if build == "" {
		build = schema.Build1
	}
	p, err := store.Params(build)
	if err != nil {
		return schema.DamageResult{}, err
	}
	breakdown := BreakdownDamage(req.Strength, p, req.Crit)
	return schema.DamageResult{
		Build:     build,
		Strength:  req.Strength,
		ForceCrit: req.Crit,
		Damage:    breakdown.Final(),
		Query:     store.Query(),
		Breakdown: breakdown,
	}, nil
}

// NewStoreFromConfig builds a store seeded in order from the defaults, the
// config file overrides, the presets, the query string and the --set mutations.
func NewStoreFromConfig(cfg *contract.Config) (*BuildStore, error) {
	store, err := NewStoreWithSink(cfg, statesink.NewMemorySinkFromQuery(cfg.Query))
	if err != nil {
		return nil, err
	}
	for _, m := range cfg.Mutations {
		if err := store.SetInput(m.Build, m.Field, m.Raw); err != nil {
			return nil, fmt.Errorf("applying --set %s=%s: %w", schema.QueryKey(m.Build, m.Field), m.Raw, err)
		}
	}
	return store, nil
}

// NewStoreWithSink seeds a store from sink on top of the defaults, the config
// file overrides and the presets. cfg.Query and cfg.Mutations are not used.
func NewStoreWithSink(cfg *contract.Config, sink contract.StateSink) (*BuildStore, error) {
	opts := make([]StoreOption, 0, len(schema.AllBuilds))
	for _, build := range schema.AllBuilds {
		base, err := baseParameters(cfg, build)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBase(build, base))
	}
	return NewBuildStore(sink, opts...), nil
}

// baseParameters resolves the values a build starts from before the query is read.
func baseParameters(cfg *contract.Config, build schema.BuildID) (schema.ParameterSet, error) {
	p := schema.DefaultParameters()
	for key, v := range cfg.Overrides[build] {
		f, ok := schema.LookupField(key)
		if !ok {
			return p, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		f.Set(&p, v)
	}
	if path := cfg.Presets[build]; path != "" {
		pr, err := preset.Load(path, p)
		if err != nil {
			return p, err
		}
		p = pr.Build
	}
	return p, nil
}

// PresetFromConfig captures the resolved parameters of one build as a preset.
func PresetFromConfig(cfg *contract.Config, build schema.BuildID, name, description string) (preset.Preset, error) {
	store, err := NewStoreFromConfig(cfg)
	if err != nil {
		return preset.Preset{}, err
	}
	p, err := store.Params(build)
	if err != nil {
		return preset.Preset{}, err
	}
	if name == "" {
		name = build.Title()
	}
	return preset.Preset{Name: name, Description: description, Build: p}, nil
}

// RecordRun stores the sweep in the history store. Failures are reported as
// warnings since history is never required for a result.
func RecordRun(ctx context.Context, mgr contract.HistoryManager, result schema.SeriesResult) int64 {
	if mgr == nil {
		return 0
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return 0
	}
	id, err := store.RecordRun(schema.HistoryEntry{
		RunTime: time.Now(),
		Source:  historySource(ctx),
		Result:  result,
	})
	if err != nil {
		contract.LogWarn("Failed to record comparison history", err)
		return 0
	}
	return id
}

// unusedFields are carried in the query and the form but never read by the formula.
var unusedFields = []string{"criticalRate", "enemyCriticalEvadeRate"}

// BuildParamsRenderModel describes the parameter schema, the formula and the chart series.
func BuildParamsRenderModel() schema.ParamsRenderModel {
	groups := make([]schema.ParamsGroup, 0, len(schema.AllGroups))
	var bonusKeys []string
	for _, g := range schema.AllGroups {
		group := schema.ParamsGroup{Group: g, Purpose: schema.GroupPurposes[g]}
		for _, f := range schema.Fields {
			if f.Group != g {
				continue
			}
			group.Fields = append(group.Fields, f)
			if g == schema.GroupBonus {
				bonusKeys = append(bonusKeys, f.Key)
			}
		}
		groups = append(groups, group)
	}

	return schema.ParamsRenderModel{
		Title:       "Damage Calculator Parameters",
		Description: fmt.Sprintf("%d fields per build, %d query keys in total. Sweep factors run from 0.5x to 1.5x base strength.", len(schema.Fields), len(schema.Fields)*len(schema.AllBuilds)),
		Groups:      groups,
		Formula: []string{
			"bonusSum = " + strings.Join(bonusKeys, " + "),
			"bonus = strength * (1 + bonusSum)",
			"aggressive = bonus * (1 + aggressive)",
			"resist = aggressive * (1 - strResist)",
			"block = resist - block",
			"skill = block * skillMultiplier - fortitude",
			"pierce = skill * (1 + pierce - tenacity)",
			"normal = pierce * (1 + dmgIncrease) * (1 - dmgReduction)",
			"critical = normal * (1 + criticalDamageMultiplier - enemyCriticalDamageReduction)",
			"percentDiff = round2((normal2 - normal1) / normal1 * 100)",
		},
		Unused: unusedFields,
		Series: schema.SeriesStyles,
	}
}

// ParseBuild accepts b1/b2 as well as 1/2.
func ParseBuild(s string) (schema.BuildID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "b1", "1":
		return schema.Build1, nil
	case "b2", "2":
		return schema.Build2, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBuild, s)
	}
}
