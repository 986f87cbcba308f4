package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/router"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/screens/authmodal"
	"github.com/abhisek/learnpath/internal/screens/dashboard"
	"github.com/abhisek/learnpath/internal/screens/home"
	"github.com/abhisek/learnpath/internal/screens/placeholder"
	"github.com/abhisek/learnpath/internal/screens/roadmap"
	"github.com/abhisek/learnpath/internal/screens/skills"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/tracker"
	"github.com/abhisek/learnpath/internal/ui/layout"
)

// Client is the backend used by the application. *api.Client implements it.
type Client interface {
	auth.Authenticator
	tracker.Remote
	Logout(ctx context.Context) (*api.Ack, error)
}

// Options holds the dependencies of the application.
type Options struct {
	Client  Client
	Catalog *catalog.Catalog

	// Coach is optional; without it the roadmap offers no study tips.
	Coach roadmap.TipSource
}

// AppModel is the root Bubble Tea model. It owns the shell state and turns
// shell events coming from screens into state changes and commands.
type AppModel struct {
	opts    Options
	state   shell.State
	router  *router.Router
	tracker *tracker.Tracker
	modal   *authmodal.AuthModal
	width   int
	height  int

	// expire schedules the NoticeExpired event for a notice.
	expire func(id int) tea.Cmd
}

// newAppModel creates an AppModel on the home section.
func newAppModel(opts Options) AppModel {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	m := AppModel{
		opts:    opts,
		state:   shell.New(),
		tracker: tracker.New(opts.Client),
		expire:  expireNotice,
	}
	m.router = router.New(m.buildScreen, m.state)
	return m
}

func (m AppModel) buildScreen(section shell.Section, st shell.State) screen.Screen {
	switch section {
	case shell.SectionSkills:
		return skills.New(m.opts.Catalog)
	case shell.SectionDashboard:
		return dashboard.New(m.opts.Catalog)
	case shell.SectionRoadmap:
		sk, ok := m.opts.Catalog.Lookup(st.Skill)
		if !ok {
			return placeholder.New("Roadmap")
		}
		return roadmap.New(sk, m.opts.Coach)
	default:
		return home.New(m.opts.Catalog)
	}
}

// State returns the current application state.
func (m AppModel) State() shell.State {
	return m.state
}

func (m AppModel) Init() tea.Cmd {
	return restoreSession(m.opts.Client)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != nil {
			_, cmd := m.modal.Update(msg)
			return m, cmd
		}
		if msg.String() == "esc" {
			return m, m.back()
		}
		return m, m.router.Update(msg)

	case screen.LogoutRequestMsg:
		return m, logout(m.opts.Client)

	case shell.Navigate, shell.OpenRoadmap, shell.OpenAuth, shell.CloseAuth,
		shell.SessionRestored, shell.SessionCleared, shell.LoggedIn, shell.LoginFailed,
		shell.LoggedOut, shell.ItemToggled, shell.ProgressSynced, shell.ProfileRefreshed,
		shell.ShowNotice, shell.NoticeExpired:
		return m.dispatch(msg)
	}

	var cmds []tea.Cmd
	if m.modal != nil {
		_, cmd := m.modal.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.router.Update(msg))
	return m, tea.Batch(cmds...)
}

// back handles Esc outside the modal: roadmap returns to the skill list,
// other sections to home.
func (m AppModel) back() tea.Cmd {
	switch m.state.Section {
	case shell.SectionHome:
		return nil
	case shell.SectionRoadmap:
		return screen.Emit(shell.Navigate{Section: shell.SectionSkills})
	default:
		return screen.Emit(shell.Navigate{Section: shell.SectionHome})
	}
}

// dispatch applies ev and starts the commands that follow from the change.
func (m AppModel) dispatch(ev shell.Event) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = shell.Apply(m.state, ev)

	var cmds []tea.Cmd

	switch {
	case !m.state.AuthOpen:
		m.modal = nil
	case m.modal == nil || !prev.AuthOpen || prev.AuthKind != m.state.AuthKind:
		m.modal = authmodal.New(m.opts.Client, m.state.AuthKind)
		cmds = append(cmds, m.modal.Init())
	}

	cmds = append(cmds, m.router.Sync(m.state))

	if m.state.HasNotice() && m.state.Notice.ID != prev.Notice.ID {
		cmds = append(cmds, m.expire(m.state.Notice.ID))
	}

	if _, ok := ev.(shell.ItemToggled); ok && m.state.SignedIn() {
		cmds = append(cmds,
			reconcile(m.tracker, m.state.Progress, m.state.Epoch),
			refresh(m.tracker, m.state.Epoch),
		)
	}

	return m, tea.Batch(cmds...)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the full frame: header, active screen or auth modal, notice
// and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	var user *layout.HeaderUser
	if u := m.state.User; u != nil {
		user = &layout.HeaderUser{Name: u.DisplayName(), Streak: u.Streak}
	}
	header := layout.RenderHeader(title, user, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	var notice string
	if m.state.HasNotice() {
		notice = layout.RenderNotice(m.state.Notice.Text, m.width)
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if notice != "" {
		contentHeight -= lipgloss.Height(notice)
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.modal != nil {
		content = m.modal.View(m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	if notice != "" {
		content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content) + "\n" + notice
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints() []layout.KeyHint {
	if m.modal != nil {
		return m.modal.KeyHints()
	}
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.state.Section == shell.SectionHome {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
