package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StateReceiver is implemented by screens that render application state.
// SetState is called with the latest state after every change.
type StateReceiver interface {
	SetState(st shell.State)
}

// Emit returns a command that delivers ev as a message.
func Emit(ev shell.Event) tea.Cmd {
	return func() tea.Msg { return ev }
}

// LogoutRequestMsg asks the application to end the session.
type LogoutRequestMsg struct{}
