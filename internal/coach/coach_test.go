package coach

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/llm"
)

func testInput(t *testing.T) TipInput {
	t.Helper()
	skill, ok := catalog.Default().Lookup("frontend")
	require.True(t, ok)
	require.NotEmpty(t, skill.Roadmap.Steps)
	step := skill.Roadmap.Steps[0]
	require.NotEmpty(t, step.Checklist)
	return TipInput{Skill: skill, Step: step, Item: step.Checklist[0]}
}

func TestTip(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"tip":"  Build a small page from scratch.  ","resources":["MDN Web Docs"]}`),
	})
	c := New(mock, DefaultConfig())

	input := testInput(t)
	tip, err := c.Tip(t.Context(), input)
	require.NoError(t, err)

	assert.Equal(t, "Build a small page from scratch.", tip.Text)
	assert.Equal(t, []string{"MDN Web Docs"}, tip.Resources)
	assert.Equal(t, "Build a small page from scratch.\nSee: MDN Web Docs", tip.String())

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "study-tip", req.Schema.Name)
	assert.Contains(t, req.Prompt, input.Item)
	assert.Contains(t, req.Prompt, input.Skill.Name)
}

func TestTipRejectsInvalidResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"tip":"missing resources"}`),
	})
	c := New(mock, DefaultConfig())

	_, err := c.Tip(t.Context(), testInput(t))
	require.Error(t, err)

	var invalid *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid))
}

func TestTipProviderError(t *testing.T) {
	mock := llm.NewMockProvider()
	c := New(mock, DefaultConfig())

	_, err := c.Tip(t.Context(), testInput(t))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "study tip:"))
}

func TestTipRequiresItem(t *testing.T) {
	mock := llm.NewMockProvider()
	c := New(mock, DefaultConfig())

	_, err := c.Tip(t.Context(), TipInput{})
	assert.ErrorIs(t, err, ErrNoItem)
	assert.Zero(t, mock.CallCount())
}

func TestTipStringWithoutResources(t *testing.T) {
	assert.Equal(t, "Just practice.", Tip{Text: "Just practice."}.String())
}
