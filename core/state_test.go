package core

import (
	"errors"
	"net/url"
	"testing"

	"github.com/huangsam/dmgcalc/internal/statesink"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewBuildStore_Seeding(t *testing.T) {
	sink := statesink.NewMemorySinkFromQuery("b1_baseStrength=1500&b2_block=abc&b2_fortitude=10&junk=1")
	store := NewBuildStore(sink)

	p1, p2 := store.Builds()
	assert.Equal(t, 1500.0, p1.BaseStrength)
	assert.Equal(t, 100.0, p2.Block, "malformed seed keeps the default")
	assert.Equal(t, 10.0, p2.Fortitude)

	assert.Len(t, store.Series(), schema.SampleCount)
	assert.Equal(t, 1500.0, store.Series()[5].Strength1)
	assert.Equal(t, 0, sink.Writes(), "seeding never writes")
}

func TestNewBuildStore_WithBase(t *testing.T) {
	base := schema.DefaultParameters()
	base.Block = 250
	base.Pierce = 0.4

	sink := statesink.NewMemorySinkFromQuery("b2_pierce=0.3")
	store := NewBuildStore(sink, WithBase(schema.Build2, base))

	p1, p2 := store.Builds()
	assert.Equal(t, schema.DefaultParameters(), p1)
	assert.Equal(t, 250.0, p2.Block)
	assert.Equal(t, 0.3, p2.Pierce, "query values win over the base")
}

func TestBuildStore_SetWritesFullState(t *testing.T) {
	sink := statesink.NewMemorySink(nil)
	store := NewBuildStore(sink)

	require.NoError(t, store.Set(schema.Build2, "baseStrength", 2000))
	assert.Equal(t, 1, sink.Writes())

	values := sink.ReadAll()
	assert.Len(t, values, 2*len(schema.Fields))
	assert.Equal(t, "2000", values.Get("b2_baseStrength"))
	assert.Equal(t, "1000", values.Get("b1_baseStrength"))
	assert.Equal(t, store.Query(), sink.Query())

	assert.Equal(t, 2000.0, store.Series()[5].Strength2)
	assert.Equal(t, 108.97, store.Series()[5].PercentDiff)
}

func TestBuildStore_IdenticalStateIsNoop(t *testing.T) {
	sink := statesink.NewMemorySink(nil)
	store := NewBuildStore(sink)

	require.NoError(t, store.Set(schema.Build1, "block", 120))
	require.NoError(t, store.Set(schema.Build1, "block", 120))
	assert.Equal(t, 1, sink.Writes())

	require.NoError(t, store.Set(schema.Build1, "block", 130))
	assert.Equal(t, 2, sink.Writes())
}

func TestBuildStore_FullQuerySeedIsNoop(t *testing.T) {
	query := EncodeQuery(schema.DefaultParameters(), schema.DefaultParameters())
	sink := statesink.NewMemorySinkFromQuery(query)
	store := NewBuildStore(sink)

	require.NoError(t, store.Set(schema.Build1, "block", 100))
	assert.Equal(t, 0, sink.Writes())
}

func TestBuildStore_SetInput(t *testing.T) {
	sink := statesink.NewMemorySink(nil)
	store := NewBuildStore(sink)

	require.NoError(t, store.SetInput(schema.Build1, "pierce", "0.35"))
	p1, _ := store.Builds()
	assert.Equal(t, 0.35, p1.Pierce)

	require.NoError(t, store.SetInput(schema.Build1, "pierce", "not a number"))
	p1, _ = store.Builds()
	assert.Equal(t, 0.0, p1.Pierce)
	assert.Equal(t, "0", sink.ReadAll().Get("b1_pierce"))

	require.NoError(t, store.SetInput(schema.Build1, "block", ""))
	p1, _ = store.Builds()
	assert.Equal(t, 0.0, p1.Block)
}

func TestBuildStore_Errors(t *testing.T) {
	sink := statesink.NewMemorySink(nil)
	store := NewBuildStore(sink)

	err := store.Set(schema.Build1, "power", 1)
	assert.ErrorIs(t, err, ErrUnknownField)

	err = store.SetInput("b9", "block", "1")
	assert.ErrorIs(t, err, ErrUnknownBuild)

	err = store.Apply(schema.Build2, map[string]float64{"block": 1, "power": 2})
	assert.ErrorIs(t, err, ErrUnknownField)
	_, p2 := store.Builds()
	assert.Equal(t, 100.0, p2.Block, "failed apply changes nothing")

	assert.ErrorIs(t, store.Reset("b0"), ErrUnknownBuild)
	_, err = store.Params("b0")
	assert.ErrorIs(t, err, ErrUnknownBuild)

	assert.Equal(t, 0, sink.Writes())
}

func TestBuildStore_ApplyAndReset(t *testing.T) {
	sink := statesink.NewMemorySink(nil)
	store := NewBuildStore(sink)

	require.NoError(t, store.Apply(schema.Build2, map[string]float64{"block": 0, "fortitude": 0, "baseStrength": 800}))
	assert.Equal(t, 1, sink.Writes())
	p2, err := store.Params(schema.Build2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p2.Block)
	assert.Equal(t, 800.0, p2.BaseStrength)

	require.NoError(t, store.Reset(schema.Build2))
	p2, _ = store.Params(schema.Build2)
	assert.Equal(t, schema.DefaultParameters(), p2)
	assert.Equal(t, 2, sink.Writes())
}

func TestBuildStore_BuildsAreIndependent(t *testing.T) {
	store := NewBuildStore(statesink.NewMemorySink(nil))
	require.NoError(t, store.Set(schema.Build1, "brutal", 0.9))

	p1, p2 := store.Builds()
	assert.Equal(t, 0.9, p1.Brutal)
	assert.Equal(t, 0.1, p2.Brutal)

	// Copies handed out do not alias store state.
	p1.Brutal = 5
	again, _ := store.Params(schema.Build1)
	assert.Equal(t, 0.9, again.Brutal)
}

func TestBuildStore_Result(t *testing.T) {
	store := NewBuildStore(statesink.NewMemorySinkFromQuery("b2_baseStrength=2000"))
	result := store.Result()

	assert.Equal(t, 2000.0, result.Build2.BaseStrength)
	assert.Equal(t, store.Query(), result.Query)
	assert.Len(t, result.Points, schema.SampleCount)
	assert.Equal(t, schema.SampleCount, result.Summary.FiniteSamples)
	assert.Equal(t, 119.7, result.Summary.MaxPercentDiff)
	assert.Equal(t, 105.81, result.Summary.MinPercentDiff)
}

func TestBuildStore_SinkError(t *testing.T) {
	sink := &statesink.MockStateSink{}
	sink.On("ReadAll").Return(url.Values{})
	sink.On("WriteAll", mock.Anything).Return(errors.New("quota exceeded"))

	store := NewBuildStore(sink)
	err := store.Set(schema.Build1, "block", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	// The series still reflects the mutation.
	p1, _ := store.Builds()
	assert.Equal(t, 1.0, p1.Block)
	sink.AssertExpectations(t)
}

func TestBuildStore_SinkReceivesEncodedState(t *testing.T) {
	sink := &statesink.MockStateSink{}
	sink.On("ReadAll").Return(url.Values{})
	sink.On("WriteAll", mock.MatchedBy(func(v url.Values) bool {
		return v.Get("b1_block") == "42" && len(v) == 2*len(schema.Fields)
	})).Return(nil).Once()

	store := NewBuildStore(sink)
	require.NoError(t, store.Set(schema.Build1, "block", 42))
	sink.AssertExpectations(t)
}
