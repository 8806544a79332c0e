package statesink

import (
	"net/url"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockStateSink is a mock implementation of StateSink for testing.
type MockStateSink struct {
	mock.Mock
}

var _ contract.StateSink = &MockStateSink{} // Compile-time check

// ReadAll implements the StateSink interface.
func (m *MockStateSink) ReadAll() url.Values {
	ret := m.Called()
	values, _ := ret.Get(0).(url.Values)
	return values
}

// WriteAll implements the StateSink interface.
func (m *MockStateSink) WriteAll(values url.Values) error {
	args := m.Called(values)
	return args.Error(0)
}
