package core

import (
	"math"
	"strconv"

	"github.com/huangsam/dmgcalc/schema"
)

// GenerateSeries sweeps each build's strength from 50% to 150% of its base
// strength in 10% steps. Point 5 is evaluated at exactly the base strength.
func GenerateSeries(p1, p2 schema.ParameterSet) []schema.SamplePoint {
	points := make([]schema.SamplePoint, schema.SampleCount)
	for i := range schema.SampleCount {
		factor := schema.SampleFactor(i)
		s1 := p1.BaseStrength * factor
		s2 := p2.BaseStrength * factor

		d1n := ComputeDamage(s1, p1, false)
		d2n := ComputeDamage(s2, p2, false)

		points[i] = schema.SamplePoint{
			Strength1:     s1,
			Strength2:     s2,
			Damage1Normal: d1n,
			Damage1Crit:   ComputeDamage(s1, p1, true),
			Damage2Normal: d2n,
			Damage2Crit:   ComputeDamage(s2, p2, true),
			PercentDiff:   percentDiff(d1n, d2n),
		}
	}
	return points
}

// percentDiff returns how much larger d2 is than d1 in percent, rounded to
// two decimals. A zero d1 yields ±Inf or NaN.
func percentDiff(d1, d2 float64) float64 {
	return round2((d2 - d1) / d1 * 100)
}

// round2 rounds the exact binary value to two decimals, so 2.675 (stored as
// 2.67499...) becomes 2.67. Non-finite values are left untouched.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// SummarizeSeries computes statistics over the finite percent differences.
func SummarizeSeries(points []schema.SamplePoint) schema.SeriesSummary {
	var summary schema.SeriesSummary
	var total float64
	for _, p := range points {
		v := p.PercentDiff
		if math.IsNaN(v) || math.IsInf(v, 0) {
			summary.UndefinedPoints++
			continue
		}
		if summary.FiniteSamples == 0 || v < summary.MinPercentDiff {
			summary.MinPercentDiff = v
		}
		if summary.FiniteSamples == 0 || v > summary.MaxPercentDiff {
			summary.MaxPercentDiff = v
		}
		total += v
		summary.FiniteSamples++
	}
	if summary.FiniteSamples > 0 {
		summary.MeanPercentDiff = round2(total / float64(summary.FiniteSamples))
	}
	return summary
}
