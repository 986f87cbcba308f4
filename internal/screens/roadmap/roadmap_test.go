package roadmap

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/coach"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/shell"
)

func testSkill() catalog.Skill {
	return catalog.Skill{
		Key:         "go",
		Name:        "Go",
		Description: "Learn Go.",
		Roadmap: catalog.Roadmap{Steps: []catalog.Step{
			{Title: "Basics", Checklist: []string{"Install Go", "Write hello world"}},
			{Title: "Concurrency", Checklist: []string{"Goroutines"}},
		}},
	}
}

type fakeCoach struct {
	tip   *coach.Tip
	err   error
	input coach.TipInput
	calls int
}

func (f *fakeCoach) Tip(_ context.Context, input coach.TipInput) (*coach.Tip, error) {
	f.calls++
	f.input = input
	return f.tip, f.err
}

func press(r *RoadmapScreen, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := r.Update(msg)
	return cmd
}

var (
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyTip   = tea.KeyPressMsg{Code: 't', Text: "t"}
)

// expand runs cmd and any batched or sequenced commands it returns, in order.
func expand(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for i := 0; i < v.Len(); i++ {
		out = append(out, expand(v.Index(i).Interface().(tea.Cmd))...)
	}
	return out
}

func TestToggleEmitsItemToggled(t *testing.T) {
	r := New(testSkill(), nil)
	r.SetState(shell.New())

	cmd := press(r, keySpace)
	require.NotNil(t, cmd)
	assert.Equal(t, shell.ItemToggled{SkillKey: "go", StepIndex: 0, ItemIndex: 0}, cmd())
}

func TestToggleUnchecksDoneItem(t *testing.T) {
	r := New(testSkill(), nil)
	st := shell.New()
	st.Progress = progress.Toggle(st.Progress, "go", 0, 1, true)
	r.SetState(st)

	press(r, keyDown)
	cmd := press(r, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, shell.ItemToggled{SkillKey: "go", StepIndex: 0, ItemIndex: 1}, cmd())
}

func TestToggleCompletingStepShowsNotice(t *testing.T) {
	r := New(testSkill(), nil)
	st := shell.New()
	st.Progress = progress.Toggle(st.Progress, "go", 0, 0, true)
	r.SetState(st)

	press(r, keyDown)
	cmd := press(r, keySpace)
	require.NotNil(t, cmd)

	assert.Equal(t, []tea.Msg{
		shell.ItemToggled{SkillKey: "go", StepIndex: 0, ItemIndex: 1},
		shell.ShowNotice{Text: StepCompleteNotice},
	}, expand(cmd))
}

func TestRepeatedToggleBeforeSync(t *testing.T) {
	r := New(testSkill(), nil)
	st := shell.New()
	st.Progress = progress.Toggle(st.Progress, "go", 0, 0, true)
	r.SetState(st)
	press(r, keyDown)

	first := press(r, keySpace)
	second := press(r, keySpace)

	// The second press sees the first one's result: it unchecks the item
	// and so no longer completes the step.
	require.Len(t, expand(first), 2)
	assert.Equal(t, []tea.Msg{shell.ItemToggled{SkillKey: "go", StepIndex: 0, ItemIndex: 1}}, expand(second))

	for _, msg := range append(expand(first)[:1], expand(second)...) {
		st = shell.Apply(st, msg.(shell.Event))
	}
	assert.False(t, st.Progress.IsDone("go", 0, 1))
}

func TestCursorCrossesSteps(t *testing.T) {
	r := New(testSkill(), nil)
	r.SetState(shell.New())

	press(r, keyDown)
	press(r, keyDown)
	press(r, keyDown)
	cmd := press(r, keySpace)
	require.NotNil(t, cmd)
	ev := cmd().(shell.ItemToggled)
	assert.Equal(t, 1, ev.StepIndex)
	assert.Equal(t, 0, ev.ItemIndex)
}

func TestTipHiddenWithoutCoach(t *testing.T) {
	r := New(testSkill(), nil)
	assert.Nil(t, press(r, keyTip))
	for _, h := range r.KeyHints() {
		assert.NotEqual(t, "t", h.Key)
	}
}

func TestTipRequest(t *testing.T) {
	fc := &fakeCoach{tip: &coach.Tip{Text: "Use the tour.", Resources: []string{"A Tour of Go"}}}
	r := New(testSkill(), fc)
	r.SetState(shell.New())

	cmd := press(r, keyTip)
	require.NotNil(t, cmd)
	assert.Contains(t, r.View(80, 30), "Asking your study coach")
	assert.Nil(t, press(r, keyTip), "second request while loading is ignored")

	r.Update(cmd())
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, "Install Go", fc.input.Item)
	assert.Equal(t, "Basics", fc.input.Step.Title)
	assert.Contains(t, r.View(80, 30), "Use the tour.")
}

func TestTipError(t *testing.T) {
	r := New(testSkill(), &fakeCoach{err: errors.New("down")})
	cmd := press(r, keyTip)
	r.Update(cmd())
	assert.Contains(t, r.View(80, 30), "Couldn't get a tip")
}

func TestViewMarksDoneItems(t *testing.T) {
	r := New(testSkill(), nil)
	st := shell.New()
	st.Progress = progress.Toggle(st.Progress, "go", 1, 0, true)
	r.SetState(st)

	view := r.View(80, 30)
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "Concurrency ✓")
	assert.Contains(t, view, "Sign in to save your progress.")
	assert.Equal(t, "Go", r.Title())
}

func TestViewKeepsCursorVisible(t *testing.T) {
	skill := testSkill()
	var items []string
	for i := 0; i < 40; i++ {
		items = append(items, "item "+strings.Repeat("x", i%3+1))
	}
	skill.Roadmap.Steps[0].Checklist = items
	r := New(skill, nil)
	r.SetState(shell.New())

	for i := 0; i < 39; i++ {
		press(r, keyDown)
	}
	view := r.View(80, 20)
	assert.Contains(t, view, "▸")
}
