package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatar(t *testing.T) {
	assert.Equal(t, "[A]", Avatar("ada"))
	assert.Equal(t, "[É]", Avatar("élodie"))
	assert.Equal(t, "[?]", Avatar(""))
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Skills", nil, 100)
	assert.Contains(t, out, "LearnPath")
	assert.Contains(t, out, "Not signed in")

	out = RenderHeader("Skills", &HeaderUser{Name: "Ada Lovelace", Streak: 3}, 100)
	assert.Contains(t, out, "[A] Ada Lovelace")
	assert.Contains(t, out, "3 day")
	assert.NotContains(t, out, "Not signed in")
}

func TestSizeThresholds(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
	assert.True(t, IsCompactWidth(CompactWidthThreshold-1))
	assert.False(t, IsCompactWidth(CompactWidthThreshold))
}

func TestRenderFooterListsHints(t *testing.T) {
	out := RenderFooter([]KeyHint{{Key: "esc", Description: "Back"}, {Key: "q", Description: "Quit"}}, 100)
	assert.Contains(t, out, "esc")
	assert.Contains(t, out, "Quit")
}
