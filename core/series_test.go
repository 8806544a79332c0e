package core

import (
	"math"
	"testing"

	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeries_Shape(t *testing.T) {
	p1 := schema.DefaultParameters()
	p2 := schema.DefaultParameters()
	p1.BaseStrength = 1234.5
	p2.BaseStrength = 777

	points := GenerateSeries(p1, p2)
	require.Len(t, points, schema.SampleCount)

	assert.Equal(t, p1.BaseStrength, points[5].Strength1)
	assert.Equal(t, p2.BaseStrength, points[5].Strength2)
	assert.InDelta(t, p1.BaseStrength*0.5, points[0].Strength1, 1e-9)
	assert.InDelta(t, p2.BaseStrength*1.5, points[10].Strength2, 1e-9)

	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Strength1, points[i-1].Strength1, "points are ordered by strength")
	}
}

func TestGenerateSeries_IdenticalBuilds(t *testing.T) {
	p := schema.DefaultParameters()
	for _, point := range GenerateSeries(p, p) {
		assert.Equal(t, point.Damage1Normal, point.Damage2Normal)
		assert.Equal(t, point.Damage1Crit, point.Damage2Crit)
		assert.Equal(t, 0.0, point.PercentDiff)
	}
}

func TestGenerateSeries_DoubleStrength(t *testing.T) {
	p1 := schema.DefaultParameters()
	p2 := schema.DefaultParameters()
	p2.BaseStrength = 2000

	points := GenerateSeries(p1, p2)
	mid := points[5]
	assert.Equal(t, 1000.0, mid.Strength1)
	assert.Equal(t, 2000.0, mid.Strength2)
	assert.InDelta(t, 2551.12, mid.Damage1Normal, 1e-9)
	assert.InDelta(t, 5331.04, mid.Damage2Normal, 1e-9)
	assert.Equal(t, 108.97, mid.PercentDiff)

	// Flat block and fortitude weigh more on the weaker build, so doubling
	// strength more than doubles damage. The gap narrows as strength grows.
	for i, point := range points {
		assert.Greater(t, point.PercentDiff, 100.0, "point %d", i)
		if i > 0 {
			assert.Less(t, point.PercentDiff, points[i-1].PercentDiff, "point %d", i)
		}
	}
	assert.Equal(t, 119.7, points[0].PercentDiff)
	assert.Equal(t, 105.81, points[10].PercentDiff)
}

func TestGenerateSeries_ZeroDamageBaseline(t *testing.T) {
	p1 := schema.DefaultParameters()
	p1.BaseStrength = 0
	p1.Block = 0
	p1.Fortitude = 0
	p2 := schema.DefaultParameters()

	points := GenerateSeries(p1, p2)
	require.Len(t, points, schema.SampleCount)
	for i, point := range points {
		assert.Equal(t, 0.0, point.Damage1Normal, "point %d", i)
		assert.True(t, math.IsInf(point.PercentDiff, 1), "point %d is %v", i, point.PercentDiff)
	}

	assert.NotPanics(t, func() {
		points = GenerateSeries(p1, p1)
	})
	for _, point := range points {
		assert.True(t, math.IsNaN(point.PercentDiff))
	}
}

func TestGenerateSeries_ZeroBaseStrengthWithFlatTerms(t *testing.T) {
	p1 := schema.DefaultParameters()
	p1.BaseStrength = 0
	p2 := schema.DefaultParameters()

	points := GenerateSeries(p1, p2)
	for _, point := range points {
		// Flat subtractions leave a constant negative damage, so the ratio stays finite.
		assert.InDelta(t, -228.8, point.Damage1Normal, 1e-9)
		assert.False(t, math.IsInf(point.PercentDiff, 0))
		assert.Less(t, point.PercentDiff, -100.0)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.235000001))
	assert.Equal(t, -1.5, round2(-1.499999))
	assert.True(t, math.IsInf(round2(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(round2(math.NaN())))
}

func TestRound2_BelowHalfCent(t *testing.T) {
	// Both literals sit just under the half cent in binary.
	assert.Equal(t, 2.67, round2(2.675))
	assert.Equal(t, 0.15, round2(0.155))
	assert.Equal(t, -2.67, round2(-2.675))
	assert.Equal(t, 1.01, round2(1.005000001))
}

func TestSummarizeSeries(t *testing.T) {
	points := []schema.SamplePoint{
		{PercentDiff: 10},
		{PercentDiff: -4},
		{PercentDiff: math.Inf(1)},
		{PercentDiff: 3},
		{PercentDiff: math.NaN()},
	}
	summary := SummarizeSeries(points)
	assert.Equal(t, -4.0, summary.MinPercentDiff)
	assert.Equal(t, 10.0, summary.MaxPercentDiff)
	assert.Equal(t, 3.0, summary.MeanPercentDiff)
	assert.Equal(t, 3, summary.FiniteSamples)
	assert.Equal(t, 2, summary.UndefinedPoints)

	empty := SummarizeSeries(nil)
	assert.Equal(t, schema.SeriesSummary{}, empty)

	allUndefined := SummarizeSeries([]schema.SamplePoint{{PercentDiff: math.NaN()}})
	assert.Equal(t, 0, allUndefined.FiniteSamples)
	assert.Equal(t, 1, allUndefined.UndefinedPoints)
	assert.Equal(t, 0.0, allUndefined.MeanPercentDiff)
}
