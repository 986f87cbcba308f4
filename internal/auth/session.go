package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/learnpath/internal/api"
)

// ProfileFetcher fetches the signed-in user's profile.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*api.User, error)
}

// Authenticator is the subset of the API client used for signing in.
type Authenticator interface {
	ProfileFetcher
	Login(ctx context.Context, email, password string) (*api.User, error)
	Register(ctx context.Context, name, email, password string) (*api.User, error)
}

// ErrNoUser is returned when the backend answers without a user record.
var ErrNoUser = errors.New("no user in session")

// ResolveError reports that sign-in succeeded but the user could not be
// resolved afterwards. Its message is the kind's failure notice.
type ResolveError struct {
	Kind Kind
	Err  error
}

func (e *ResolveError) Error() string {
	return e.Kind.FailureNotice()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Submit signs in or registers according to kind and resolves the user.
// Errors from the sign-in call itself are returned as-is; failures while
// resolving are wrapped in *ResolveError.
func Submit(ctx context.Context, a Authenticator, kind Kind, form Form) (*api.User, error) {
	email := strings.TrimSpace(form.Email)
	var (
		user *api.User
		err  error
	)
	switch kind {
	case KindSignup:
		user, err = a.Register(ctx, strings.TrimSpace(form.Name), email, form.Password)
	default:
		user, err = a.Login(ctx, email, form.Password)
	}
	if err != nil {
		return nil, err
	}

	resolved, err := Resolve(ctx, a, user)
	if err != nil {
		return nil, &ResolveError{Kind: kind, Err: err}
	}
	return resolved, nil
}

// Resolve returns user when it carries an ID, otherwise the profile of the
// current session.
func Resolve(ctx context.Context, f ProfileFetcher, user *api.User) (*api.User, error) {
	if user != nil && user.ID != "" {
		return user, nil
	}
	profile, err := f.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.ID == "" {
		return nil, ErrNoUser
	}
	return profile, nil
}

// Restore fetches the profile once at startup. It returns nil when there is
// no usable session; the cause is not reported.
func Restore(ctx context.Context, f ProfileFetcher) *api.User {
	profile, err := f.Profile(ctx)
	if err != nil || profile == nil || profile.ID == "" {
		return nil
	}
	return profile
}
