package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/shell"
)

// Factory builds the screen for a section from the current state.
type Factory func(section shell.Section, st shell.State) screen.Screen

// Router shows one screen per section. Screens for home, skills and
// dashboard are built once and kept so they remember their cursor; the
// roadmap screen is rebuilt whenever the selected skill changes.
type Router struct {
	factory Factory
	screens map[shell.Section]screen.Screen
	section shell.Section
	skill   string
	active  screen.Screen
}

// New creates a Router showing the section of st.
func New(factory Factory, st shell.State) *Router {
	r := &Router{
		factory: factory,
		screens: make(map[shell.Section]screen.Screen),
		section: -1,
	}
	r.Sync(st)
	return r
}

// Sync switches to st.Section if needed and hands st to the active screen.
// It returns the Init command of a newly built screen.
func (r *Router) Sync(st shell.State) tea.Cmd {
	var cmd tea.Cmd
	if r.active == nil || st.Section != r.section || (st.Section == shell.SectionRoadmap && st.Skill != r.skill) {
		cmd = r.show(st)
	}
	if rcv, ok := r.active.(screen.StateReceiver); ok {
		rcv.SetState(st)
	}
	return cmd
}

func (r *Router) show(st shell.State) tea.Cmd {
	r.section = st.Section
	r.skill = st.Skill

	if st.Section != shell.SectionRoadmap {
		if s, ok := r.screens[st.Section]; ok {
			r.active = s
			return nil
		}
	}

	s := r.factory(st.Section, st)
	if st.Section != shell.SectionRoadmap {
		r.screens[st.Section] = s
	}
	r.active = s
	return s.Init()
}

// Active returns the screen currently shown.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Section returns the section currently shown.
func (r *Router) Section() shell.Section {
	return r.section
}

// Update forwards a message to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	if r.section != shell.SectionRoadmap {
		r.screens[r.section] = updated
	}
	r.active = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
