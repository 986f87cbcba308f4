// Package auth implements sign-in, sign-up and session restore on top of
// the API client.
package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Kind selects between signing in to an existing account and creating one.
type Kind int

const (
	KindLogin Kind = iota
	KindSignup
)

func (k Kind) String() string {
	if k == KindSignup {
		return "signup"
	}
	return "login"
}

// Title is the modal heading for the kind.
func (k Kind) Title() string {
	if k == KindSignup {
		return "Join LearnPath"
	}
	return "Welcome Back"
}

// Subtitle is the modal tagline for the kind.
func (k Kind) Subtitle() string {
	if k == KindSignup {
		return "Start building your future today"
	}
	return "Sign in to continue your learning journey"
}

// FailureNotice is shown when a sign-in completes but no user can be
// resolved.
func (k Kind) FailureNotice() string {
	if k == KindSignup {
		return "Signup failed"
	}
	return "Login failed"
}

// WelcomeNotice is shown after a successful sign-in.
func (k Kind) WelcomeNotice() string {
	if k == KindSignup {
		return "Account created! Start your journey! 🚀"
	}
	return "Welcome back! Ready to learn? 🎉"
}

// Status is the state of an auth form submission.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
)

// Form holds the values typed into the auth modal.
type Form struct {
	Name     string
	Email    string
	Password string
}

// ErrValidation is wrapped by all form validation errors.
var ErrValidation = errors.New("invalid form")

// Validate checks the form for kind. Name is required only for signup.
func (f Form) Validate(kind Kind) error {
	if kind == KindSignup && strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: enter a valid email address", ErrValidation)
	}
	if f.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// Flow tracks one auth modal's submission state. A failure stores the error
// and returns the flow to idle so the user can retry.
type Flow struct {
	Kind   Kind
	Status Status
	Err    error
}

// NewFlow creates an idle flow.
func NewFlow(kind Kind) *Flow {
	return &Flow{Kind: kind}
}

// Begin validates form and moves to submitting. It reports false, leaving
// the validation error in Err, when the form is invalid or a submission is
// already in flight.
func (f *Flow) Begin(form Form) bool {
	if f.Status != StatusIdle {
		return false
	}
	f.Err = nil
	if err := form.Validate(f.Kind); err != nil {
		f.Err = err
		return false
	}
	f.Status = StatusSubmitting
	return true
}

// Fail records err and returns to idle.
func (f *Flow) Fail(err error) {
	f.Err = err
	f.Status = StatusIdle
}

// Succeed marks the submission complete.
func (f *Flow) Succeed() {
	f.Err = nil
	f.Status = StatusSucceeded
}

// Submitting reports whether a request is in flight.
func (f *Flow) Submitting() bool {
	return f.Status == StatusSubmitting
}

// ErrorText returns the message to show under the form, if any.
func (f *Flow) ErrorText() string {
	if f.Err == nil {
		return ""
	}
	msg := f.Err.Error()
	if errors.Is(f.Err, ErrValidation) {
		msg = strings.TrimPrefix(msg, ErrValidation.Error()+": ")
	}
	return msg
}
