package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/layout"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

// Stats summarizes a user's progress across the catalog.
type Stats struct {
	Started   int
	Completed int
	Items     int
	PerSkill  []SkillStat
}

// SkillStat is one skill's completion.
type SkillStat struct {
	Skill   catalog.Skill
	Percent int
}

// ComputeStats derives dashboard figures from progress.
func ComputeStats(cat *catalog.Catalog, p progress.Progress) Stats {
	var st Stats
	for _, sk := range cat.All() {
		pct := progress.SkillCompletion(sk, p)
		st.Items += progress.CompletedItems(sk, p)
		if pct > 0 {
			st.Started++
		}
		if pct == 100 {
			st.Completed++
		}
		st.PerSkill = append(st.PerSkill, SkillStat{Skill: sk, Percent: pct})
	}
	return st
}

// DashboardScreen shows the signed-in user's streak and per-skill progress.
type DashboardScreen struct {
	catalog *catalog.Catalog
	state   shell.State
	stats   Stats
	cursor  int
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a new DashboardScreen.
func New(cat *catalog.Catalog) *DashboardScreen {
	return &DashboardScreen{catalog: cat, state: shell.New()}
}

// SetState recomputes the statistics.
func (d *DashboardScreen) SetState(st shell.State) {
	d.state = st
	d.stats = ComputeStats(d.catalog, st.Progress)
	if d.cursor >= len(d.stats.PerSkill) {
		d.cursor = 0
	}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if !d.state.SignedIn() {
		switch kmsg.String() {
		case "enter", "l":
			return d, screen.Emit(shell.OpenAuth{Kind: auth.KindLogin})
		case "s":
			return d, screen.Emit(shell.OpenAuth{Kind: auth.KindSignup})
		}
		return d, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.stats.PerSkill)-1 {
			d.cursor++
		}
	case "enter":
		if d.cursor < len(d.stats.PerSkill) {
			return d, screen.Emit(shell.OpenRoadmap{SkillKey: d.stats.PerSkill[d.cursor].Skill.Key})
		}
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !d.state.SignedIn() {
		prompt := components.SectionTitle("Your dashboard", "Sign in to track your progress and streak.", cw) +
			"\n\n" +
			theme.Hint.Width(cw).Align(lipgloss.Center).Render("Enter/l to log in  ·  s to sign up")
		return components.Centered(prompt, width, height)
	}

	user := d.state.User
	var sections []string
	sections = append(sections, components.SectionTitle(
		fmt.Sprintf("%s's dashboard", user.DisplayName()),
		"Keep the streak going!", cw))

	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	stats := fmt.Sprintf("%s   %s   %s   %s",
		accent.Render(fmt.Sprintf("🔥 %d day streak", user.Streak)),
		accent.Render(fmt.Sprintf("%d started", d.stats.Started)),
		accent.Render(fmt.Sprintf("%d completed", d.stats.Completed)),
		accent.Render(fmt.Sprintf("%d items done", d.stats.Items)),
	)
	sections = append(sections, components.Card(lipgloss.NewStyle().Width(cw-6).Align(lipgloss.Center).Render(stats), cw))

	var bars []string
	for i, ss := range d.stats.PerSkill {
		prefix := "  "
		label := theme.Unselected.Render(ss.Skill.Name)
		if i == d.cursor {
			prefix = "▸ "
			label = theme.Selected.Render(ss.Skill.Name)
		}
		bar := components.ProgressBar{Label: label, LabelWidth: 24, Percent: ss.Percent, Width: cw - 4}
		bars = append(bars, prefix+bar.View())
	}
	sections = append(sections, strings.Join(bars, "\n"))

	if user.LastActive != "" {
		sections = append(sections, theme.Hint.Width(cw).Render("Last active "+user.LastActive))
	}

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

// KeyHints returns the key binding hints for the footer.
func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if !d.state.SignedIn() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Log in"},
			{Key: "s", Description: "Sign up"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Roadmap"},
		{Key: "Esc", Description: "Home"},
	}
}
