package outwriter

import (
	"time"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/mock"
)

// MockOutputWriter is a mock implementation of OutputWriter for testing.
type MockOutputWriter struct {
	mock.Mock
}

var _ contract.OutputWriter = &MockOutputWriter{} // Compile-time check

// WriteSeries implements the OutputWriter interface.
func (m *MockOutputWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	args := m.Called(result, cfg, duration)
	return args.Error(0)
}

// WriteDamage implements the OutputWriter interface.
func (m *MockOutputWriter) WriteDamage(result schema.DamageResult, cfg *contract.Config, explain bool) error {
	args := m.Called(result, cfg, explain)
	return args.Error(0)
}

// WriteParams implements the OutputWriter interface.
func (m *MockOutputWriter) WriteParams(model schema.ParamsRenderModel, cfg *contract.Config) error {
	args := m.Called(model, cfg)
	return args.Error(0)
}
