// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
)

// ErrStorageDown is returned by adapters built with NewFailingAdapter
var ErrStorageDown = errors.New("storage unavailable")

// MockAdapter is a mock implementation of persistence.Adapter for testing.
type MockAdapter struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockAdapter) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Bool(1), args.Error(2)
}

// Set mocks the Set method.
func (m *MockAdapter) Set(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}

// Remove mocks the Remove method.
func (m *MockAdapter) Remove(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Close mocks the Close method.
func (m *MockAdapter) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewMockAdapter creates a mock adapter that holds nothing and accepts every write.
func NewMockAdapter(t *testing.T) *MockAdapter {
	t.Helper()
	m := new(MockAdapter)

	// Default behavior: every key is absent
	m.On("Get", mock.Anything).Return(nil, false, nil).Maybe()

	// Default behavior: writes succeed
	m.On("Set", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Remove", mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()

	return m
}

// NewFailingAdapter creates a mock adapter whose writes always fail.
func NewFailingAdapter(t *testing.T) *MockAdapter {
	t.Helper()
	m := new(MockAdapter)

	m.On("Get", mock.Anything).Return(nil, false, nil).Maybe()
	m.On("Set", mock.Anything, mock.Anything).Return(ErrStorageDown).Maybe()
	m.On("Remove", mock.Anything).Return(ErrStorageDown).Maybe()
	m.On("Close").Return(nil).Maybe()

	return m
}

// NewSeededAdapter creates a mock adapter that returns data for key.
func NewSeededAdapter(t *testing.T, key string, data []byte) *MockAdapter {
	t.Helper()
	m := new(MockAdapter)

	m.On("Get", key).Return(data, true, nil).Maybe()
	m.On("Get", mock.Anything).Return(nil, false, nil).Maybe()
	m.On("Set", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Remove", mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()

	return m
}
