// Package coach asks an LLM provider for short study tips on roadmap items.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/llm"
)

// ErrNoItem is returned when the input does not name a checklist item.
var ErrNoItem = errors.New("no checklist item selected")

// Config tunes study-tip generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the default coach configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.4,
		Timeout:     20 * time.Second,
	}
}

// TipInput identifies the checklist item a tip is requested for.
type TipInput struct {
	Skill catalog.Skill
	Step  catalog.Step
	Item  string
	Done  bool
}

// Tip is a generated study tip.
type Tip struct {
	Text      string
	Resources []string
}

// String renders the tip as plain text.
func (t Tip) String() string {
	if len(t.Resources) == 0 {
		return t.Text
	}
	return t.Text + "\nSee: " + strings.Join(t.Resources, ", ")
}

// Coach generates study tips.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Coach backed by provider.
func New(provider llm.Provider, cfg Config) *Coach {
	return &Coach{provider: provider, cfg: cfg}
}

type tipOutput struct {
	Tip       string   `json:"tip"`
	Resources []string `json:"resources"`
}

// Tip asks the provider for a study tip on input.Item.
func (c *Coach) Tip(ctx context.Context, input TipInput) (*Tip, error) {
	if strings.TrimSpace(input.Item) == "" {
		return nil, ErrNoItem
	}

	ctx = llm.WithPurpose(ctx, "study-tip")
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System:      tipSystemPrompt,
		Prompt:      buildTipUserMessage(input),
		Schema:      TipSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("study tip: %w", err)
	}

	var out tipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse study tip response: %w", err)
	}

	return &Tip{
		Text:      strings.TrimSpace(out.Tip),
		Resources: out.Resources,
	}, nil
}
