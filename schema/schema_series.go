package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// SamplePoint is one row of the strength sweep.
type SamplePoint struct {
	Strength1     float64 `json:"strength1"`
	Strength2     float64 `json:"strength2"`
	Damage1Normal float64 `json:"damage1Normal"`
	Damage1Crit   float64 `json:"damage1Crit"`
	Damage2Normal float64 `json:"damage2Normal"`
	Damage2Crit   float64 `json:"damage2Crit"`
	PercentDiff   float64 `json:"percentDiff"` // may be ±Inf or NaN when damage1Normal is 0
}

// SeriesSummary has high-level statistics over a sweep.
type SeriesSummary struct {
	MinPercentDiff  float64 `json:"min_percent_diff"`
	MaxPercentDiff  float64 `json:"max_percent_diff"`
	MeanPercentDiff float64 `json:"mean_percent_diff"`
	FiniteSamples   int     `json:"finite_samples"`
	UndefinedPoints int     `json:"undefined_points"`
}

// SeriesResult holds the sweep together with the inputs that produced it.
type SeriesResult struct {
	Build1  ParameterSet  `json:"build1"`
	Build2  ParameterSet  `json:"build2"`
	Query   string        `json:"query"`
	Points  []SamplePoint `json:"points"`
	Summary SeriesSummary `json:"summary"`
}

// SeriesStyle maps a sample field to its chart label and color.
type SeriesStyle struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Dashed bool   `json:"dashed"`
	Axis   string `json:"axis"`
}

// SeriesStyles lists the plotted series in legend order.
var SeriesStyles = []SeriesStyle{
	{Key: "damage1Normal", Label: "Build 1 Normal", Color: "#8884d8", Axis: "damage"},
	{Key: "damage1Crit", Label: "Build 1 Critical", Color: "#a280d8", Dashed: true, Axis: "damage"},
	{Key: "damage2Normal", Label: "Build 2 Normal", Color: "#82ca9d", Axis: "damage"},
	{Key: "damage2Crit", Label: "Build 2 Critical", Color: "#50a86d", Dashed: true, Axis: "damage"},
	{Key: "percentDiff", Label: "% Difference (Normal)", Color: "#ff7300", Axis: "percent"},
}

// MarshalJSON encodes the point, writing non-finite numbers as the strings
// "Infinity", "-Infinity" and "NaN" since JSON has no literal for them.
func (p SamplePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Strength1     JSONFloat `json:"strength1"`
		Strength2     JSONFloat `json:"strength2"`
		Damage1Normal JSONFloat `json:"damage1Normal"`
		Damage1Crit   JSONFloat `json:"damage1Crit"`
		Damage2Normal JSONFloat `json:"damage2Normal"`
		Damage2Crit   JSONFloat `json:"damage2Crit"`
		PercentDiff   JSONFloat `json:"percentDiff"`
	}{
		JSONFloat(p.Strength1),
		JSONFloat(p.Strength2),
		JSONFloat(p.Damage1Normal),
		JSONFloat(p.Damage1Crit),
		JSONFloat(p.Damage2Normal),
		JSONFloat(p.Damage2Crit),
		JSONFloat(p.PercentDiff),
	})
}

// UnmarshalJSON decodes a point written by MarshalJSON.
func (p *SamplePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Strength1     JSONFloat `json:"strength1"`
		Strength2     JSONFloat `json:"strength2"`
		Damage1Normal JSONFloat `json:"damage1Normal"`
		Damage1Crit   JSONFloat `json:"damage1Crit"`
		Damage2Normal JSONFloat `json:"damage2Normal"`
		Damage2Crit   JSONFloat `json:"damage2Crit"`
		PercentDiff   JSONFloat `json:"percentDiff"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = SamplePoint{
		Strength1:     float64(raw.Strength1),
		Strength2:     float64(raw.Strength2),
		Damage1Normal: float64(raw.Damage1Normal),
		Damage1Crit:   float64(raw.Damage1Crit),
		Damage2Normal: float64(raw.Damage2Normal),
		Damage2Crit:   float64(raw.Damage2Crit),
		PercentDiff:   float64(raw.PercentDiff),
	}
	return nil
}

// JSONFloat is a float64 that survives JSON encoding when it is not finite.
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "NaN":
			*f = JSONFloat(math.NaN())
		case "Infinity":
			*f = JSONFloat(math.Inf(1))
		case "-Infinity":
			*f = JSONFloat(math.Inf(-1))
		default:
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

// FormatNonFinite returns the sentinel text for a non-finite value, or "" when v is finite.
func FormatNonFinite(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return ""
}

// ParseNonFinite is the inverse of FormatNonFinite.
func ParseNonFinite(s string) (float64, bool) {
	switch s {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	return 0, false
}
