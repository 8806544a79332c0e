// Package schema has the parameter schema, models and constants for all parts of dmgcalc.
package schema

import (
	"math"
	"strconv"
	"strings"
)

// ParameterSet holds one numeric value per schema field for a single build.
// Rates are fractional (0.1 == 10%), block and fortitude are flat values.
type ParameterSet struct {
	BaseStrength float64 `json:"baseStrength" yaml:"baseStrength"`

	// Additive strength bonuses, summed before any modifier applies.
	Brutal            float64 `json:"brutal" yaml:"brutal"`
	GuildBuff         float64 `json:"guildBuff" yaml:"guildBuff"`
	GuildConquestBuff float64 `json:"guildConquestBuff" yaml:"guildConquestBuff"`
	BlessingBuffs     float64 `json:"blessingBuffs" yaml:"blessingBuffs"`
	CelestialBonds    float64 `json:"celestialBonds" yaml:"celestialBonds"`
	GuardianStone     float64 `json:"guardianStone" yaml:"guardianStone"`
	MaskBuff          float64 `json:"maskBuff" yaml:"maskBuff"`
	OtherStrTraits    float64 `json:"otherStrTraits" yaml:"otherStrTraits"`

	// Post-bonus modifiers, applied in order.
	Aggressive      float64 `json:"aggressive" yaml:"aggressive"`
	StrResist       float64 `json:"strResist" yaml:"strResist"`
	Block           float64 `json:"block" yaml:"block"`
	SkillMultiplier float64 `json:"skillMultiplier" yaml:"skillMultiplier"`
	Fortitude       float64 `json:"fortitude" yaml:"fortitude"`
	Pierce          float64 `json:"pierce" yaml:"pierce"`
	Tenacity        float64 `json:"tenacity" yaml:"tenacity"`
	DmgIncrease     float64 `json:"dmgIncrease" yaml:"dmgIncrease"`
	DmgReduction    float64 `json:"dmgReduction" yaml:"dmgReduction"`

	// Critical modifiers. CriticalRate and EnemyCriticalEvadeRate are carried
	// for sharing and display only; the damage formula does not read them.
	CriticalRate                 float64 `json:"criticalRate" yaml:"criticalRate"`
	EnemyCriticalEvadeRate       float64 `json:"enemyCriticalEvadeRate" yaml:"enemyCriticalEvadeRate"`
	CriticalDamageMultiplier     float64 `json:"criticalDamageMultiplier" yaml:"criticalDamageMultiplier"`
	EnemyCriticalDamageReduction float64 `json:"enemyCriticalDamageReduction" yaml:"enemyCriticalDamageReduction"`
}

// Field describes one entry of the parameter schema.
type Field struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Group   FieldGroup `json:"group"`
	Default float64    `json:"default"`

	ref func(p *ParameterSet) *float64
}

// Fields is the ordered parameter schema. The order is the query order,
// the form order and the preset order.
var Fields = []Field{
	{Key: "baseStrength", Label: "Base Strength", Group: GroupBase, Default: 1000, ref: func(p *ParameterSet) *float64 { return &p.BaseStrength }},
	{Key: "brutal", Label: "Brutal", Group: GroupBonus, Default: 0.1, ref: func(p *ParameterSet) *float64 { return &p.Brutal }},
	{Key: "guildBuff", Label: "Guild Buff", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.GuildBuff }},
	{Key: "guildConquestBuff", Label: "Guild Conquest", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.GuildConquestBuff }},
	{Key: "blessingBuffs", Label: "Blessing Buffs", Group: GroupBonus, Default: 0.1, ref: func(p *ParameterSet) *float64 { return &p.BlessingBuffs }},
	{Key: "celestialBonds", Label: "Celestial Bonds", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.CelestialBonds }},
	{Key: "guardianStone", Label: "Guardian Stone", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.GuardianStone }},
	{Key: "maskBuff", Label: "Mask Buff", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.MaskBuff }},
	{Key: "otherStrTraits", Label: "Other Str Traits", Group: GroupBonus, Default: 0.05, ref: func(p *ParameterSet) *float64 { return &p.OtherStrTraits }},
	{Key: "aggressive", Label: "Aggressive", Group: GroupModifier, Default: 0.2, ref: func(p *ParameterSet) *float64 { return &p.Aggressive }},
	{Key: "strResist", Label: "Str Resist", Group: GroupModifier, Default: 0.1, ref: func(p *ParameterSet) *float64 { return &p.StrResist }},
	{Key: "block", Label: "Block", Group: GroupModifier, Default: 100, ref: func(p *ParameterSet) *float64 { return &p.Block }},
	{Key: "skillMultiplier", Label: "Skill Multiplier", Group: GroupModifier, Default: 1.5, ref: func(p *ParameterSet) *float64 { return &p.SkillMultiplier }},
	{Key: "fortitude", Label: "Fortitude", Group: GroupModifier, Default: 50, ref: func(p *ParameterSet) *float64 { return &p.Fortitude }},
	{Key: "pierce", Label: "Pierce", Group: GroupModifier, Default: 0.2, ref: func(p *ParameterSet) *float64 { return &p.Pierce }},
	{Key: "tenacity", Label: "Tenacity", Group: GroupModifier, Default: 0.1, ref: func(p *ParameterSet) *float64 { return &p.Tenacity }},
	{Key: "dmgIncrease", Label: "Damage Increase", Group: GroupModifier, Default: 0.3, ref: func(p *ParameterSet) *float64 { return &p.DmgIncrease }},
	{Key: "dmgReduction", Label: "Damage Reduction", Group: GroupModifier, Default: 0.2, ref: func(p *ParameterSet) *float64 { return &p.DmgReduction }},
	{Key: "criticalRate", Label: "Critical Rate", Group: GroupCritical, Default: 0.5, ref: func(p *ParameterSet) *float64 { return &p.CriticalRate }},
	{Key: "enemyCriticalEvadeRate", Label: "Enemy Crit Evade", Group: GroupCritical, Default: 0.1, ref: func(p *ParameterSet) *float64 { return &p.EnemyCriticalEvadeRate }},
	{Key: "criticalDamageMultiplier", Label: "Crit Damage Multi", Group: GroupCritical, Default: 1.5, ref: func(p *ParameterSet) *float64 { return &p.CriticalDamageMultiplier }},
	{Key: "enemyCriticalDamageReduction", Label: "Enemy Crit Dmg Red", Group: GroupCritical, Default: 0.2, ref: func(p *ParameterSet) *float64 { return &p.EnemyCriticalDamageReduction }},
}

// fieldIndex maps field keys to their position in Fields.
var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Key] = i
	}
	return idx
}()

// DefaultParameters returns a parameter set with every field at its default.
func DefaultParameters() ParameterSet {
	var p ParameterSet
	for _, f := range Fields {
		*f.ref(&p) = f.Default
	}
	return p
}

// LookupField returns the schema field for an exact key.
func LookupField(key string) (Field, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// LookupFieldFold returns the schema field for a key compared case-insensitively.
// Viper lowercases map keys read from config files, so overrides coming from
// there need this form.
func LookupFieldFold(key string) (Field, bool) {
	if f, ok := LookupField(key); ok {
		return f, true
	}
	for _, f := range Fields {
		if strings.EqualFold(f.Key, key) {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the value of the field in p.
func (f Field) Get(p ParameterSet) float64 {
	return *f.ref(&p)
}

// Set assigns v to the field in p.
func (f Field) Set(p *ParameterSet, v float64) {
	*f.ref(p) = v
}

// ParseSeed parses a query value for seeding. It reports false when the value
// is not a finite decimal number, in which case the caller keeps the default.
func (f Field) ParseSeed(raw string) (float64, bool) {
	return ParseFinite(raw)
}

// ParseFinite parses a finite decimal number. Hex floats are rejected since
// browsers read them differently.
func ParseFinite(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseInput parses text typed into an input field. Anything that is not a
// finite number becomes 0.
func (f Field) ParseInput(raw string) float64 {
	v, ok := f.ParseSeed(raw)
	if !ok {
		return 0
	}
	return v
}

// Get returns the value stored under key, reporting false for unknown keys.
func (p ParameterSet) Get(key string) (float64, bool) {
	f, ok := LookupField(key)
	if !ok {
		return 0, false
	}
	return f.Get(p), true
}

// Values returns the parameter values keyed by field key.
func (p ParameterSet) Values() map[string]float64 {
	out := make(map[string]float64, len(Fields))
	for _, f := range Fields {
		out[f.Key] = f.Get(p)
	}
	return out
}

// StrengthBonusSum returns the sum of all additive strength bonuses.
func (p ParameterSet) StrengthBonusSum() float64 {
	return p.Brutal +
		p.GuildBuff +
		p.GuildConquestBuff +
		p.BlessingBuffs +
		p.CelestialBonds +
		p.GuardianStone +
		p.MaskBuff +
		p.OtherStrTraits
}
