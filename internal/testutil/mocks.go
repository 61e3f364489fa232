package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockBackend is a scripted phonemizer backend. Texts found in Responses
// are answered from the table; other texts go through Transform, or fail
// when Transform is nil. Every call is recorded.
type MockBackend struct {
	BackendName string
	Responses   map[string]string
	Errors      map[string]error
	Transform   func(string) string
	Unavailable error

	mu    sync.Mutex
	calls [][]string
}

// NewMockBackend returns a mock answering from responses.
func NewMockBackend(responses map[string]string) *MockBackend {
	return &MockBackend{
		BackendName: "mock",
		Responses:   responses,
		Errors:      make(map[string]error),
	}
}

// Phonemize answers every text from the script.
func (m *MockBackend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		if err, ok := m.Errors[text]; ok {
			return nil, err
		}
		if ph, ok := m.Responses[text]; ok {
			out[i] = ph
			continue
		}
		if m.Transform != nil {
			out[i] = m.Transform(text)
			continue
		}
		return nil, fmt.Errorf("mock backend: no response scripted for %q", text)
	}
	return out, nil
}

// Name returns the mock's name.
func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

// IsAvailable returns Unavailable.
func (m *MockBackend) IsAvailable() error {
	return m.Unavailable
}

// Calls returns a copy of every batch passed to Phonemize.
func (m *MockBackend) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([][]string, len(m.calls))
	for i, c := range m.calls {
		calls[i] = append([]string(nil), c...)
	}
	return calls
}

// CallCount returns the number of Phonemize calls.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Upper is a Transform that upper-cases text, standing in for phonemization.
func Upper(s string) string {
	return strings.ToUpper(s)
}
