package home

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

const bannerFull = `  _                          ___      _   _
 | |   ___ __ _ _ _ _ _     | _ \__ _| |_| |_
 | |__/ -_) _' | '_| ' \    |  _/ _' |  _| ' \
 |____\___\__,_|_| |_||_|   |_| \__,_|\__|_||_|`

const bannerCompact = "L E A R N P A T H"

const tagline = "Master in-demand tech skills with guided roadmaps"

// HomeScreen is the landing screen with the main menu.
type HomeScreen struct {
	catalog  *catalog.Catalog
	menu     components.Menu
	signedIn bool
	name     string
	started  int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cat *catalog.Catalog) *HomeScreen {
	h := &HomeScreen{catalog: cat}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	items := []components.MenuItem{
		{Label: "Browse skills", Hint: fmt.Sprintf("%d roadmaps", h.catalog.Len()), Action: func() tea.Cmd {
			return screen.Emit(shell.Navigate{Section: shell.SectionSkills})
		}},
		{Label: "Dashboard", Action: func() tea.Cmd {
			return screen.Emit(shell.Navigate{Section: shell.SectionDashboard})
		}},
	}
	if h.signedIn {
		items = append(items, components.MenuItem{Label: "Log out", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.LogoutRequestMsg{} }
		}})
	} else {
		items = append(items,
			components.MenuItem{Label: "Log in", Action: func() tea.Cmd {
				return screen.Emit(shell.OpenAuth{Kind: auth.KindLogin})
			}},
			components.MenuItem{Label: "Sign up", Action: func() tea.Cmd {
				return screen.Emit(shell.OpenAuth{Kind: auth.KindSignup})
			}},
		)
	}
	items = append(items, components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
		return tea.Quit
	}})
	return items
}

// SetState rebuilds the menu when the session changes.
func (h *HomeScreen) SetState(st shell.State) {
	h.started = 0
	for _, s := range h.catalog.All() {
		if progress.SkillCompletion(s, st.Progress) > 0 {
			h.started++
		}
	}
	h.name = ""
	if st.User != nil {
		h.name = st.User.DisplayName()
	}
	if st.SignedIn() == h.signedIn {
		return
	}
	h.signedIn = st.SignedIn()
	h.menu = components.NewMenu(h.items())
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactWidth(width) || height < 20

	banner := bannerFull
	if compact {
		banner = bannerCompact
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(banner))
	sections = append(sections, theme.Subtitle.Width(cw).Render(tagline))

	greeting := "Sign in to save your progress across devices."
	if h.signedIn {
		greeting = fmt.Sprintf("Welcome, %s! You have started %d of %d skills.", h.name, h.started, h.catalog.Len())
	}
	sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render(greeting))
	sections = append(sections, components.Card(h.menu.View(), cw))

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// KeyHints returns the key binding hints for the footer.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
