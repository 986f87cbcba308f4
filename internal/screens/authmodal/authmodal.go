// Package authmodal implements the sign-in / sign-up overlay.
package authmodal

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/layout"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// AuthModal is the overlay form for logging in or creating an account.
// Esc discards the form.
type AuthModal struct {
	auth   auth.Authenticator
	flow   *auth.Flow
	fields []int
	inputs map[int]*components.TextInput
	focus  int
}

var _ screen.Screen = (*AuthModal)(nil)
var _ screen.KeyHintProvider = (*AuthModal)(nil)

// New creates an empty form for kind.
func New(a auth.Authenticator, kind auth.Kind) *AuthModal {
	m := &AuthModal{
		auth:   a,
		flow:   auth.NewFlow(kind),
		inputs: make(map[int]*components.TextInput),
	}
	if kind == auth.KindSignup {
		m.fields = append(m.fields, fieldName)
		name := components.NewTextInput("Full Name", "Jane Doe", false, 64)
		m.inputs[fieldName] = &name
	}
	m.fields = append(m.fields, fieldEmail, fieldPassword)
	email := components.NewTextInput("Email", "you@example.com", false, 128)
	password := components.NewTextInput("Password", "••••••", true, 128)
	m.inputs[fieldEmail] = &email
	m.inputs[fieldPassword] = &password
	return m
}

// Kind returns the kind of form shown.
func (m *AuthModal) Kind() auth.Kind {
	return m.flow.Kind
}

// Flow exposes the submission state.
func (m *AuthModal) Flow() *auth.Flow {
	return m.flow
}

// Form returns the current field values.
func (m *AuthModal) Form() auth.Form {
	f := auth.Form{
		Email:    m.inputs[fieldEmail].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
	if in, ok := m.inputs[fieldName]; ok {
		f.Name = in.Value()
	}
	return f
}

func (m *AuthModal) Init() tea.Cmd {
	return m.focusField(0)
}

func (m *AuthModal) Title() string {
	return m.flow.Kind.Title()
}

func (m *AuthModal) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (m *AuthModal) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		return m.handleResult(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, screen.Emit(shell.CloseAuth{})
		case "tab", "down":
			return m, m.focusField((m.focus + 1) % len(m.fields))
		case "shift+tab", "up":
			return m, m.focusField((m.focus - 1 + len(m.fields)) % len(m.fields))
		case "enter":
			return m, m.submit()
		}
	}

	if m.flow.Submitting() {
		return m, nil
	}
	in := m.inputs[m.fields[m.focus]]
	updated, cmd := in.Update(msg)
	*in = updated
	return m, cmd
}

func (m *AuthModal) focusField(i int) tea.Cmd {
	for _, f := range m.fields {
		m.inputs[f].Blur()
	}
	m.focus = i
	return m.inputs[m.fields[i]].Focus()
}

func (m *AuthModal) submit() tea.Cmd {
	form := m.Form()
	if !m.flow.Begin(form) {
		return nil
	}
	a, flow, kind := m.auth, m.flow, m.flow.Kind
	return func() tea.Msg {
		user, err := auth.Submit(context.Background(), a, kind, form)
		return submitResultMsg{flow: flow, User: user, Err: err}
	}
}

func (m *AuthModal) handleResult(msg submitResultMsg) (screen.Screen, tea.Cmd) {
	if msg.flow != m.flow {
		return m, nil
	}
	kind := m.flow.Kind
	if msg.Err != nil {
		m.flow.Fail(msg.Err)
		var resolveErr *auth.ResolveError
		if errors.As(msg.Err, &resolveErr) {
			return m, screen.Emit(shell.LoginFailed{Kind: kind})
		}
		return m, nil
	}
	m.flow.Succeed()
	return m, screen.Emit(shell.LoggedIn{User: msg.User, Kind: kind})
}

func (m *AuthModal) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 48 {
		cw = 48
	}

	var b strings.Builder
	b.WriteString(components.SectionTitle(m.flow.Kind.Title(), m.flow.Kind.Subtitle(), cw-6))
	b.WriteString("\n\n")

	for _, f := range m.fields {
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n\n")
	}

	if text := m.flow.ErrorText(); text != "" {
		b.WriteString(theme.ErrorText.Render(text))
		b.WriteString("\n\n")
	}

	label := "Sign In"
	if m.flow.Kind == auth.KindSignup {
		label = "Create Account"
	}
	if m.flow.Submitting() {
		label = "Please wait..."
	}
	b.WriteString(components.ButtonRow(
		components.NewButton("Cancel (esc)", false),
		components.NewButton(label, !m.flow.Submitting()),
	))

	modal := theme.Modal.Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
