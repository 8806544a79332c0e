package schema

import "encoding/json"

// Breakdown stage keys, in evaluation order.
const (
	StageBonus      = "bonus"      // s1: strength with additive bonuses
	StageAggressive = "aggressive" // s2
	StageResist     = "resist"     // s3
	StageBlock      = "block"      // s4
	StageSkill      = "skill"      // s5: skill multiplier minus fortitude
	StagePierce     = "pierce"     // s6
	StageDamageMod  = "damage_mod" // s7: normal damage
	StageCritical   = "critical"   // crit damage
)

// BreakdownStages lists the stage keys in evaluation order.
var BreakdownStages = []string{
	StageBonus,
	StageAggressive,
	StageResist,
	StageBlock,
	StageSkill,
	StagePierce,
	StageDamageMod,
	StageCritical,
}

// DamageBreakdown holds every intermediate stage of a single damage evaluation.
type DamageBreakdown struct {
	Strength  float64 `json:"strength"`
	BonusSum  float64 `json:"bonus_sum"`
	Bonus     float64 `json:"bonus"`
	Aggr      float64 `json:"aggressive"`
	Resist    float64 `json:"resist"`
	Block     float64 `json:"block"`
	Skill     float64 `json:"skill"`
	Pierce    float64 `json:"pierce"`
	Normal    float64 `json:"normal"`
	Critical  float64 `json:"critical"`
	ForceCrit bool    `json:"force_crit"`
}

// Final returns the damage the evaluation resolves to.
func (b DamageBreakdown) Final() float64 {
	if b.ForceCrit {
		return b.Critical
	}
	return b.Normal
}

// Stages returns the stage values keyed like BreakdownStages.
func (b DamageBreakdown) Stages() map[string]float64 {
	return map[string]float64{
		StageBonus:      b.Bonus,
		StageAggressive: b.Aggr,
		StageResist:     b.Resist,
		StageBlock:      b.Block,
		StageSkill:      b.Skill,
		StagePierce:     b.Pierce,
		StageDamageMod:  b.Normal,
		StageCritical:   b.Critical,
	}
}

// DamageResult is a single evaluation of one build at one strength.
type DamageResult struct {
	Build     BuildID         `json:"build"`
	Strength  float64         `json:"strength"`
	ForceCrit bool            `json:"force_crit"`
	Damage    float64         `json:"damage"`
	Query     string          `json:"query"`
	Breakdown DamageBreakdown `json:"breakdown"`
}

// MarshalJSON encodes the breakdown with non-finite stages as strings.
func (b DamageBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Strength  JSONFloat `json:"strength"`
		BonusSum  JSONFloat `json:"bonus_sum"`
		Bonus     JSONFloat `json:"bonus"`
		Aggr      JSONFloat `json:"aggressive"`
		Resist    JSONFloat `json:"resist"`
		Block     JSONFloat `json:"block"`
		Skill     JSONFloat `json:"skill"`
		Pierce    JSONFloat `json:"pierce"`
		Normal    JSONFloat `json:"normal"`
		Critical  JSONFloat `json:"critical"`
		ForceCrit bool      `json:"force_crit"`
	}{
		JSONFloat(b.Strength), JSONFloat(b.BonusSum), JSONFloat(b.Bonus), JSONFloat(b.Aggr),
		JSONFloat(b.Resist), JSONFloat(b.Block), JSONFloat(b.Skill), JSONFloat(b.Pierce),
		JSONFloat(b.Normal), JSONFloat(b.Critical), b.ForceCrit,
	})
}

// MarshalJSON encodes the result with non-finite numbers as strings.
func (r DamageResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Build     BuildID         `json:"build"`
		Strength  JSONFloat       `json:"strength"`
		ForceCrit bool            `json:"force_crit"`
		Damage    JSONFloat       `json:"damage"`
		Query     string          `json:"query"`
		Breakdown DamageBreakdown `json:"breakdown"`
	}{r.Build, JSONFloat(r.Strength), r.ForceCrit, JSONFloat(r.Damage), r.Query, r.Breakdown})
}
