package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one queued reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replies from a FIFO queue and records every request.
// When the queue is empty it falls back to Offline if set, otherwise it
// fails with ErrProviderUnavailable.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Offline, when true, answers unqueued schema requests with a
	// placeholder document built from the schema.
	Offline bool
}

// NewMockProvider creates a MockProvider with the given queued replies.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// newOfflineProvider backs LEARNPATH_LLM_PROVIDER=mock.
func newOfflineProvider() *MockProvider {
	return &MockProvider{Offline: true}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Offline && req.Schema != nil:
		content, err := json.Marshal(placeholderFor(req.Schema.Definition))
		if err != nil {
			return nil, err
		}
		next = MockResponse{Content: content}
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if next.Err != nil {
		return nil, next.Err
	}
	return completion{
		text:  string(next.Content),
		usage: next.Usage,
		model: "mock",
		stop:  StopEnd,
	}.response(req.Schema)
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// placeholderFor builds the smallest document satisfying the common
// keywords of def: every property is filled, strings use the first enum
// value or a fixed sentence, arrays get minItems copies of their item.
func placeholderFor(def map[string]any) any {
	if enum, ok := def["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	switch def["type"] {
	case "object":
		out := map[string]any{}
		props, _ := def["properties"].(map[string]any)
		for name, p := range props {
			if pd, ok := p.(map[string]any); ok {
				out[name] = placeholderFor(pd)
			}
		}
		return out
	case "array":
		items, _ := def["items"].(map[string]any)
		n := 0
		if b := intBound(def["minItems"]); b != nil {
			n = int(*b)
		}
		out := make([]any, 0, n)
		for range n {
			out = append(out, placeholderFor(items))
		}
		return out
	case "integer", "number":
		if b := intBound(def["minimum"]); b != nil {
			return *b
		}
		return 0
	case "boolean":
		return false
	default:
		return "This is an offline placeholder; configure an LLM provider for real answers."
	}
}
