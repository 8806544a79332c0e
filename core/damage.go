package core

import "github.com/huangsam/dmgcalc/schema"

// ComputeDamage evaluates the damage formula for one strength value.
// Every stage is applied in order with no clamping, so negative results and
// NaN inputs propagate unchanged.
func ComputeDamage(strength float64, p schema.ParameterSet, forceCrit bool) float64 {
	return BreakdownDamage(strength, p, forceCrit).Final()
}

// BreakdownDamage evaluates the damage formula and keeps every intermediate stage.
func BreakdownDamage(strength float64, p schema.ParameterSet, forceCrit bool) schema.DamageBreakdown {
	b := schema.DamageBreakdown{Strength: strength, ForceCrit: forceCrit}

	b.BonusSum = p.StrengthBonusSum()
	b.Bonus = strength * (1 + b.BonusSum)
	b.Aggr = b.Bonus * (1 + p.Aggressive)
	b.Resist = b.Aggr * (1 - p.StrResist)
	b.Block = b.Resist - p.Block
	b.Skill = b.Block*p.SkillMultiplier - p.Fortitude
	b.Pierce = b.Skill * (1 + p.Pierce - p.Tenacity)
	b.Normal = b.Pierce * (1 + p.DmgIncrease) * (1 - p.DmgReduction)
	b.Critical = b.Normal * critFactor(p)

	return b
}

// critFactor is the multiplier a forced critical hit applies to normal damage.
func critFactor(p schema.ParameterSet) float64 {
	return 1 + p.CriticalDamageMultiplier - p.EnemyCriticalDamageReduction
}
