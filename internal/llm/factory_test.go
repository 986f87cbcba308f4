package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/learnpath/internal/store"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEARNPATH_LLM_PROVIDER", "LEARNPATH_LLM_TIMEOUT",
		"LEARNPATH_ANTHROPIC_API_KEY", "LEARNPATH_ANTHROPIC_MODEL",
		"LEARNPATH_OPENAI_API_KEY", "LEARNPATH_OPENAI_MODEL", "LEARNPATH_OPENAI_BASE_URL",
		"LEARNPATH_GEMINI_API_KEY", "LEARNPATH_GEMINI_MODEL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LEARNPATH_LLM_PROVIDER", "openai")
	t.Setenv("LEARNPATH_OPENAI_API_KEY", "sk-test")
	t.Setenv("LEARNPATH_OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("LEARNPATH_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.BaseURL != "http://localhost:1234/v1" {
		t.Fatalf("openai config = %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
}

func TestDiscoverConfigPriority(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
}

func TestNewProviderFromEnvNotConfigured(t *testing.T) {
	clearLLMEnv(t)
	_, _, err := NewProviderFromEnv(context.Background(), nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewProviderFromEnvMock(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LEARNPATH_LLM_PROVIDER", "mock")

	p, cfg, err := NewProviderFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderMock || p.ModelID() != "mock" {
		t.Fatalf("unexpected provider %q / %q", cfg.Provider, p.ModelID())
	}

	// The offline mock answers schema requests without a queue.
	resp, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: testSchema()})
	if err != nil {
		t.Fatalf("offline generate: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(resp.Content, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["level"] != "beginner" {
		t.Fatalf("expected first enum value, got %v", doc["level"])
	}
}

func TestNewProviderRejectsMissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderGemini}, nil)
	if err == nil {
		t.Fatal("expected error for gemini without key")
	}
}

func TestLoggingProviderRecordsEvent(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"tip":"x"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithLogging(mock, ProviderMock, st.EventRepo())

	ctx := WithPurpose(context.Background(), "study-tip")
	if _, err := p.Generate(ctx, Request{System: "sys", Prompt: "hi"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Provider != "mock" || ev.Purpose != "study-tip" || ev.InputTokens != 12 || !ev.Success {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 0); got < 0.1499 || got > 0.1501 {
		t.Fatalf("cost = %v", got)
	}
	if LookupCost("unknown-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
