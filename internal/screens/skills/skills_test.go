package skills

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/shell"
)

func TestCursorStartsOnSkill(t *testing.T) {
	s := New(catalog.Default())
	sk, ok := s.Selected()
	require.True(t, ok)
	assert.NotEmpty(t, sk.Key)
}

func TestCursorSkipsHeaders(t *testing.T) {
	s := New(catalog.Default())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		sk, ok := s.Selected()
		require.True(t, ok, "cursor must always rest on a skill")
		seen[sk.Key] = true
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Len(t, seen, catalog.Default().Len())
}

func TestEnterOpensRoadmap(t *testing.T) {
	s := New(catalog.Default())
	sk, _ := s.Selected()

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, shell.OpenRoadmap{SkillKey: sk.Key}, cmd())
}

func TestViewShowsCompletion(t *testing.T) {
	cat := catalog.Default()
	s := New(cat)
	sk, _ := s.Selected()

	st := shell.New()
	for j := range sk.Roadmap.Steps[0].Checklist {
		st = shell.Apply(st, shell.ItemToggled{SkillKey: sk.Key, StepIndex: 0, ItemIndex: j})
	}
	s.SetState(st)

	want := progress.Completion(cat, st.Progress, sk.Key)
	require.Greater(t, want, 0)
	assert.Contains(t, s.View(120, 60), sk.Name)
}
