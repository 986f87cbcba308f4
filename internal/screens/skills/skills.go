package skills

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/layout"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

type rowKind int

const (
	rowCategoryHeader rowKind = iota
	rowSkill
)

type row struct {
	kind     rowKind
	category string
	skill    catalog.Skill
}

// SkillsScreen lists the catalog grouped by category with completion bars.
type SkillsScreen struct {
	rows         []row
	cursor       int
	scrollOffset int
	progress     progress.Progress
	signedIn     bool
}

var _ screen.Screen = (*SkillsScreen)(nil)

// New creates a new SkillsScreen.
func New(cat *catalog.Catalog) *SkillsScreen {
	var rows []row
	for _, category := range cat.Categories() {
		rows = append(rows, row{kind: rowCategoryHeader, category: category})
		for _, sk := range cat.ByCategory(category) {
			rows = append(rows, row{kind: rowSkill, category: category, skill: sk})
		}
	}

	s := &SkillsScreen{rows: rows, progress: progress.Progress{}}

	// Set cursor to first skill row
	for i, r := range s.rows {
		if r.kind == rowSkill {
			s.cursor = i
			break
		}
	}
	return s
}

// SetState refreshes completion figures.
func (s *SkillsScreen) SetState(st shell.State) {
	s.progress = st.Progress
	s.signedIn = st.SignedIn()
}

func (s *SkillsScreen) Init() tea.Cmd {
	return nil
}

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "enter":
			if sk, ok := s.Selected(); ok {
				return s, screen.Emit(shell.OpenRoadmap{SkillKey: sk.Key})
			}
		case "d":
			return s, screen.Emit(shell.Navigate{Section: shell.SectionDashboard})
		}
	}
	return s, nil
}

// Selected returns the skill under the cursor.
func (s *SkillsScreen) Selected() (catalog.Skill, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowSkill {
		return catalog.Skill{}, false
	}
	return s.rows[s.cursor].skill, true
}

func (s *SkillsScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return theme.Hint.Render("  No skills available.")
	}

	// Each skill takes two lines (bar + description); headers take two.
	s.adjustScroll(height / 2)

	var lines []string
	if !s.signedIn {
		lines = append(lines, theme.Hint.Render("  Progress is kept locally until you sign in."))
	}
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		switch r.kind {
		case rowCategoryHeader:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true).
				Padding(1, 0, 0, 2).
				Render(strings.ToUpper(r.category)))
		case rowSkill:
			lines = append(lines, s.renderSkillRow(r, i == s.cursor, width))
		}
	}

	out := strings.Join(lines, "\n")
	return lipgloss.NewStyle().MaxHeight(height).Render(out)
}

func (s *SkillsScreen) renderSkillRow(r row, selected bool, width int) string {
	prefix := "    "
	nameStyle := theme.Unselected
	if selected {
		prefix = "  ▸ "
		nameStyle = theme.Selected
	}

	barWidth := width - 8
	if barWidth > 90 {
		barWidth = 90
	}
	bar := components.ProgressBar{
		Label:      nameStyle.Render(r.skill.Name),
		LabelWidth: 26,
		Percent:    progress.SkillCompletion(r.skill, s.progress),
		Width:      barWidth,
	}

	desc := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		PaddingLeft(6).
		MaxWidth(width).
		Render(r.skill.Description)

	return prefix + bar.View() + "\n" + desc
}

func (s *SkillsScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowSkill {
			s.cursor = next
			return
		}
		next += delta
	}
}

func (s *SkillsScreen) adjustScroll(visibleRows int) {
	if visibleRows <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowCategoryHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+visibleRows {
		s.scrollOffset = s.cursor - visibleRows + 1
	}
}

func (s *SkillsScreen) Title() string {
	return "Skills"
}

// KeyHints returns the key binding hints for the footer.
func (s *SkillsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Roadmap"},
		{Key: "d", Description: "Dashboard"},
		{Key: "Esc", Description: "Home"},
	}
}
