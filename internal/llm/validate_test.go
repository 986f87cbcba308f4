package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-object",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"level": map[string]any{"type": "string", "enum": []any{"beginner", "advanced"}},
				"links": map[string]any{
					"type":     "array",
					"maxItems": 2,
					"items":    map[string]any{"type": "string"},
				},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"all fields", `{"name":"Ada","age":36,"level":"advanced","links":["a"]}`, true},
		{"required only", `{"name":"Ada","age":36}`, true},
		{"missing required", `{"name":"Ada"}`, false},
		{"wrong type", `{"name":"Ada","age":"old"}`, false},
		{"below minimum", `{"name":"Ada","age":-1}`, false},
		{"bad enum", `{"name":"Ada","age":36,"level":"expert"}`, false},
		{"too many items", `{"name":"Ada","age":36,"links":["a","b","c"]}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("content not preserved: %s", inv.Content)
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestValidateResponseBrokenSchema(t *testing.T) {
	schema := &Schema{
		Name:       "test-broken",
		Definition: map[string]any{"type": 42},
	}
	err := validateResponse(schema, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
