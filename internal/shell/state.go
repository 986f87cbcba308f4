// Package shell holds the application state and the pure reducer that
// updates it. Events are plain values so they can travel as Bubble Tea
// messages.
package shell

import (
	"time"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/progress"
)

// Section identifies a top-level view.
type Section int

const (
	SectionHome Section = iota
	SectionSkills
	SectionDashboard
	SectionRoadmap
)

func (s Section) String() string {
	switch s {
	case SectionSkills:
		return "skills"
	case SectionDashboard:
		return "dashboard"
	case SectionRoadmap:
		return "roadmap"
	default:
		return "home"
	}
}

// NoticeDuration is how long a notice stays visible.
const NoticeDuration = 3 * time.Second

// LogoutNotice is shown after signing out.
const LogoutNotice = "See you next time! 👋"

// Notice is a transient message. ID increases with every notice so an
// expiry for an older one never clears a newer one.
type Notice struct {
	ID   int
	Text string
}

// State is the whole application state.
type State struct {
	Section  Section
	User     *api.User
	Progress progress.Progress
	Skill    string

	AuthOpen bool
	AuthKind auth.Kind

	Notice    Notice
	NoticeSeq int

	// Epoch changes whenever the session changes. Background replies tagged
	// with an older epoch are discarded.
	Epoch int
}

// New returns the initial state: home section, no user, empty progress.
func New() State {
	return State{
		Section:  SectionHome,
		Progress: progress.Progress{},
	}
}

// SignedIn reports whether a user is present.
func (s State) SignedIn() bool {
	return s.User != nil
}

// HasNotice reports whether a notice is visible.
func (s State) HasNotice() bool {
	return s.Notice.Text != ""
}
