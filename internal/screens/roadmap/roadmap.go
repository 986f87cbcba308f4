// Package roadmap shows one skill's steps and lets the user check off
// items.
package roadmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/coach"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/layout"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

// TipSource produces study tips. *coach.Coach implements it.
type TipSource interface {
	Tip(ctx context.Context, input coach.TipInput) (*coach.Tip, error)
}

type item struct {
	step  int
	index int
}

// RoadmapScreen renders a skill roadmap as steps with checklists.
type RoadmapScreen struct {
	skill    catalog.Skill
	coach    TipSource
	items    []item
	cursor   int
	scroll   int
	progress progress.Progress
	signedIn bool

	tipLoading bool
	tipFor     item
	tip        *coach.Tip
	tipErr     error
}

var _ screen.Screen = (*RoadmapScreen)(nil)
var _ screen.KeyHintProvider = (*RoadmapScreen)(nil)

// New creates a roadmap for skill. coach may be nil, in which case study
// tips are not offered.
func New(skill catalog.Skill, coach TipSource) *RoadmapScreen {
	r := &RoadmapScreen{skill: skill, coach: coach, progress: progress.Progress{}}
	for si, step := range skill.Roadmap.Steps {
		for ii := range step.Checklist {
			r.items = append(r.items, item{step: si, index: ii})
		}
	}
	return r
}

// SetState refreshes check marks.
func (r *RoadmapScreen) SetState(st shell.State) {
	r.progress = st.Progress
	r.signedIn = st.SignedIn()
}

// Skill returns the skill shown.
func (r *RoadmapScreen) Skill() catalog.Skill {
	return r.skill
}

func (r *RoadmapScreen) Init() tea.Cmd {
	return nil
}

func (r *RoadmapScreen) Title() string {
	return r.skill.Name
}

func (r *RoadmapScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle"},
	}
	if r.coach != nil {
		hints = append(hints, layout.KeyHint{Key: "t", Description: "Study tip"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Skills"})
}

func (r *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tipReadyMsg:
		if msg.step == r.tipFor.step && msg.item == r.tipFor.index {
			r.tipLoading = false
			r.tip = msg.tip
			r.tipErr = msg.err
		}
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			r.moveCursor(-1)
		case "down", "j":
			r.moveCursor(1)
		case "space", " ", "enter", "x":
			return r, r.toggle()
		case "t":
			return r, r.requestTip()
		}
	}
	return r, nil
}

func (r *RoadmapScreen) moveCursor(delta int) {
	next := r.cursor + delta
	if next < 0 || next >= len(r.items) {
		return
	}
	r.cursor = next
}

// toggle flips the item under the cursor. The flip is applied to the
// screen's copy at once and to the shell through ItemToggled; the app
// decides whether to sync it.
func (r *RoadmapScreen) toggle() tea.Cmd {
	if len(r.items) == 0 {
		return nil
	}
	it := r.items[r.cursor]
	completed := !r.progress.IsDone(r.skill.Key, it.step, it.index)
	ev := shell.ItemToggled{SkillKey: r.skill.Key, StepIndex: it.step, ItemIndex: it.index}

	wasComplete := progress.StepComplete(r.skill, r.progress, it.step)
	r.progress = progress.Toggle(r.progress, r.skill.Key, it.step, it.index, completed)
	if !wasComplete && progress.StepComplete(r.skill, r.progress, it.step) {
		return tea.Sequence(screen.Emit(ev), screen.Emit(shell.ShowNotice{Text: StepCompleteNotice}))
	}
	return screen.Emit(ev)
}

func (r *RoadmapScreen) requestTip() tea.Cmd {
	if r.coach == nil || len(r.items) == 0 || r.tipLoading {
		return nil
	}
	it := r.items[r.cursor]
	step := r.skill.Roadmap.Steps[it.step]
	input := coach.TipInput{
		Skill: r.skill,
		Step:  step,
		Item:  step.Checklist[it.index],
		Done:  r.progress.IsDone(r.skill.Key, it.step, it.index),
	}

	r.tipLoading = true
	r.tipFor = it
	r.tip = nil
	r.tipErr = nil

	src := r.coach
	return func() tea.Msg {
		tip, err := src.Tip(context.Background(), input)
		return tipReadyMsg{step: it.step, item: it.index, tip: tip, err: err}
	}
}

func (r *RoadmapScreen) View(width, height int) string {
	if len(r.skill.Roadmap.Steps) == 0 {
		return theme.Hint.Render("  This roadmap has no steps yet.")
	}

	cw := components.ContentWidth(width)
	header := r.renderHeader(cw)
	tip := r.renderTip(cw)

	listHeight := height - lipgloss.Height(header) - 1
	if tip != "" {
		listHeight -= lipgloss.Height(tip) + 1
	}
	list := r.renderList(cw, listHeight)

	parts := []string{header, list}
	if tip != "" {
		parts = append(parts, tip)
	}
	return lipgloss.NewStyle().MaxHeight(height).Render(strings.Join(parts, "\n\n"))
}

func (r *RoadmapScreen) renderHeader(cw int) string {
	pct := progress.SkillCompletion(r.skill, r.progress)
	bar := components.NewProgressBar("Overall", pct, cw).View()
	desc := theme.Subtitle.Width(cw).Render(r.skill.Description)
	if !r.signedIn {
		desc += "\n" + theme.Hint.Render("Sign in to save your progress.")
	}
	return desc + "\n" + bar
}

// renderList draws steps and items, keeping the cursor row visible.
func (r *RoadmapScreen) renderList(cw, height int) string {
	type line struct {
		text   string
		title  bool
		cursor bool
	}
	var lines []line
	ii := 0
	for si, step := range r.skill.Roadmap.Steps {
		title := fmt.Sprintf("%d. %s", si+1, step.Title)
		style := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		if progress.StepComplete(r.skill, r.progress, si) {
			style = theme.Done.Bold(true)
			title += " ✓"
		}
		lines = append(lines, line{text: style.Render(title), title: true})

		for idx, text := range step.Checklist {
			selected := ii == r.cursor
			done := r.progress.IsDone(r.skill.Key, si, idx)

			box := "[ ]"
			textStyle := theme.Unselected
			if done {
				box = "[x]"
				textStyle = theme.Done
			}
			if selected {
				textStyle = theme.Selected
			}
			prefix := "   "
			if selected {
				prefix = " ▸ "
			}
			lines = append(lines, line{
				text:   prefix + box + " " + textStyle.MaxWidth(cw-8).Render(text),
				cursor: selected,
			})
			ii++
		}
	}

	if height < 1 {
		height = 1
	}
	cursorLine := 0
	for i, l := range lines {
		if l.cursor {
			cursorLine = i
			break
		}
	}
	if cursorLine < r.scroll {
		r.scroll = cursorLine
	}
	if cursorLine >= r.scroll+height {
		r.scroll = cursorLine - height + 1
	}
	// Keep the step title above the first visible item when possible.
	if r.scroll > 0 && r.scroll == cursorLine && lines[r.scroll-1].title && height > 1 {
		r.scroll--
	}

	end := r.scroll + height
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, 0, end-r.scroll)
	for _, l := range lines[r.scroll:end] {
		out = append(out, l.text)
	}
	return strings.Join(out, "\n")
}

func (r *RoadmapScreen) renderTip(cw int) string {
	switch {
	case r.tipLoading:
		return theme.Hint.Render("Asking your study coach...")
	case r.tipErr != nil:
		return theme.ErrorText.Render("Couldn't get a tip right now.")
	case r.tip != nil:
		return components.Card(theme.Body.Render(r.tip.String()), cw)
	}
	return ""
}
