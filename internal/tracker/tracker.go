// Package tracker persists checklist progress to the backend after it has
// been applied locally.
package tracker

import (
	"context"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/progress"
)

// Remote is the subset of the API client the tracker needs.
type Remote interface {
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*api.User, error)
	Profile(ctx context.Context) (*api.User, error)
}

// Tracker sends progress snapshots to the backend. Reconcile and Refresh
// are independent and may complete in either order; a Reconcile reply that
// lands after a newer Refresh still wins for progress.
type Tracker struct {
	remote Remote
}

// New creates a tracker for remote.
func New(remote Remote) *Tracker {
	return &Tracker{remote: remote}
}

// Reconcile uploads the full progress map. It returns the server's progress
// when the reply carries one, or nil when local state should be kept,
// including on failure.
func (t *Tracker) Reconcile(ctx context.Context, p progress.Progress) progress.Progress {
	if p == nil {
		p = progress.Progress{}
	}
	updated, err := t.remote.UpdateProfile(ctx, api.ProfileUpdate{Progress: p})
	if err != nil || updated == nil || updated.Progress == nil {
		return nil
	}
	return updated.Progress
}

// Refresh re-fetches the profile so server-maintained fields such as the
// streak stay current. It returns nil on failure.
func (t *Tracker) Refresh(ctx context.Context) *api.User {
	profile, err := t.remote.Profile(ctx)
	if err != nil {
		return nil
	}
	return profile
}
