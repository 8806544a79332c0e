package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
)

// Errors returned by BuildStore mutations.
var (
	ErrUnknownBuild = errors.New("unknown build")
	ErrUnknownField = errors.New("unknown field")
)

// BuildStore owns the two parameter sets and keeps the sink and the series in
// step with them. Every mutation re-encodes both builds, writes them to the
// sink unless the encoding is unchanged, and regenerates the series.
type BuildStore struct {
	sink      contract.StateSink
	builds    map[schema.BuildID]*schema.ParameterSet
	series    []schema.SamplePoint
	lastQuery string
}

// StoreOption customizes a BuildStore before it is seeded.
type StoreOption func(*storeOptions)

type storeOptions struct {
	base map[schema.BuildID]schema.ParameterSet
}

// WithBase seeds a build from p instead of the defaults. Query values in the
// sink still take precedence.
func WithBase(build schema.BuildID, p schema.ParameterSet) StoreOption {
	return func(o *storeOptions) {
		o.base[build] = p
	}
}

// NewBuildStore seeds both builds from the sink on top of their base values.
func NewBuildStore(sink contract.StateSink, opts ...StoreOption) *BuildStore {
	o := &storeOptions{base: map[schema.BuildID]schema.ParameterSet{
		schema.Build1: schema.DefaultParameters(),
		schema.Build2: schema.DefaultParameters(),
	}}
	for _, opt := range opts {
		opt(o)
	}

	values := sink.ReadAll()
	s := &BuildStore{
		sink:      sink,
		builds:    make(map[schema.BuildID]*schema.ParameterSet, len(schema.AllBuilds)),
		lastQuery: schema.EncodeOrdered(values),
	}
	for _, b := range schema.AllBuilds {
		p := DecodeBuild(values, b, o.base[b])
		s.builds[b] = &p
	}
	s.recompute()
	return s
}

// Params returns a copy of a build's parameters.
func (s *BuildStore) Params(build schema.BuildID) (schema.ParameterSet, error) {
	p, ok := s.builds[build]
	if !ok {
		return schema.ParameterSet{}, fmt.Errorf("%w: %s", ErrUnknownBuild, build)
	}
	return *p, nil
}

// Builds returns copies of both parameter sets.
func (s *BuildStore) Builds() (schema.ParameterSet, schema.ParameterSet) {
	return *s.builds[schema.Build1], *s.builds[schema.Build2]
}

// Series returns the sample points for the current state.
func (s *BuildStore) Series() []schema.SamplePoint {
	return slices.Clone(s.series)
}

// Query returns the shareable query string for the current state.
func (s *BuildStore) Query() string {
	p1, p2 := s.Builds()
	return EncodeQuery(p1, p2)
}

// Result bundles the state, its query and its series.
func (s *BuildStore) Result() schema.SeriesResult {
	p1, p2 := s.Builds()
	points := s.Series()
	return schema.SeriesResult{
		Build1:  p1,
		Build2:  p2,
		Query:   EncodeQuery(p1, p2),
		Points:  points,
		Summary: SummarizeSeries(points),
	}
}

// Set assigns a value to one field of one build.
func (s *BuildStore) Set(build schema.BuildID, key string, value float64) error {
	p, f, err := s.lookup(build, key)
	if err != nil {
		return err
	}
	f.Set(p, value)
	return s.commit()
}

// SetInput assigns typed text to one field. Text that is not a finite number becomes 0.
func (s *BuildStore) SetInput(build schema.BuildID, key string, raw string) error {
	p, f, err := s.lookup(build, key)
	if err != nil {
		return err
	}
	f.Set(p, f.ParseInput(raw))
	return s.commit()
}

// Apply assigns several fields of one build in a single mutation. Nothing is
// changed when any key is unknown.
func (s *BuildStore) Apply(build schema.BuildID, overrides map[string]float64) error {
	p, ok := s.builds[build]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBuild, build)
	}
	fields := make([]schema.Field, 0, len(overrides))
	for key := range overrides {
		f, ok := schema.LookupField(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		fields = append(fields, f)
	}
	for _, f := range fields {
		f.Set(p, overrides[f.Key])
	}
	return s.commit()
}

// Reset restores a build to the defaults.
func (s *BuildStore) Reset(build schema.BuildID) error {
	p, ok := s.builds[build]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBuild, build)
	}
	*p = schema.DefaultParameters()
	return s.commit()
}

func (s *BuildStore) lookup(build schema.BuildID, key string) (*schema.ParameterSet, schema.Field, error) {
	p, ok := s.builds[build]
	if !ok {
		return nil, schema.Field{}, fmt.Errorf("%w: %s", ErrUnknownBuild, build)
	}
	f, ok := schema.LookupField(key)
	if !ok {
		return nil, schema.Field{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return p, f, nil
}

// commit writes the state to the sink and regenerates the series.
func (s *BuildStore) commit() error {
	s.recompute()
	p1, p2 := s.Builds()
	values := EncodeBuilds(p1, p2)
	query := schema.EncodeOrdered(values)
	if query == s.lastQuery {
		return nil
	}
	if err := s.sink.WriteAll(values); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	s.lastQuery = query
	return nil
}

func (s *BuildStore) recompute() {
	p1, p2 := s.Builds()
	s.series = GenerateSeries(p1, p2)
}
