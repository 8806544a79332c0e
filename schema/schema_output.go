package schema

import "math"

// EnrichedSamplePoint adds presentation data to a SamplePoint.
type EnrichedSamplePoint struct {
	Index  int       `json:"index"`
	Factor float64   `json:"factor"`
	Label  DiffLabel `json:"label"`
	SamplePoint
}

// GetDiffLabel returns a plain text label describing how build 2 compares
// to build 1 at a sample, given the percent difference of normal damage.
func GetDiffLabel(percentDiff float64) DiffLabel {
	switch {
	case math.IsNaN(percentDiff) || math.IsInf(percentDiff, 0):
		return UndefinedLabel
	case percentDiff >= 1:
		return StrongerLabel
	case percentDiff <= -1:
		return WeakerLabel
	default:
		return EvenLabel
	}
}

// SampleFactor returns the strength multiplier of the i-th sample.
func SampleFactor(i int) float64 {
	return 0.5 + float64(i)*0.1
}

// EnrichPoints adds index, factor and label to a list of sample points.
func EnrichPoints(points []SamplePoint) []EnrichedSamplePoint {
	output := make([]EnrichedSamplePoint, len(points))
	for i, p := range points {
		output[i] = EnrichedSamplePoint{
			Index:       i,
			Factor:      SampleFactor(i),
			Label:       GetDiffLabel(p.PercentDiff),
			SamplePoint: p,
		}
	}
	return output
}
