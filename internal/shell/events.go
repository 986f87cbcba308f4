package shell

import (
	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/progress"
)

// Event is any value accepted by Apply.
type Event any

// Navigate switches to a section. Navigating to the roadmap keeps the
// current skill.
type Navigate struct {
	Section Section
}

// OpenRoadmap selects a skill and shows its roadmap.
type OpenRoadmap struct {
	SkillKey string
}

// OpenAuth shows the auth modal for kind.
type OpenAuth struct {
	Kind auth.Kind
}

// CloseAuth hides the auth modal, discarding the form.
type CloseAuth struct{}

// SessionRestored carries the profile found at startup.
type SessionRestored struct {
	User *api.User
}

// SessionCleared reports that no session could be restored.
type SessionCleared struct{}

// LoggedIn carries the resolved user after a successful sign-in.
type LoggedIn struct {
	User *api.User
	Kind auth.Kind
}

// LoginFailed reports that sign-in completed but no user was resolved.
type LoginFailed struct {
	Kind auth.Kind
}

// LoggedOut clears the session. It is applied whether or not the logout
// request succeeded.
type LoggedOut struct{}

// ItemToggled flips a checklist item in the local progress. The new value
// is taken from the state the event is applied to, so toggles queued before
// the screen sees the result still alternate.
type ItemToggled struct {
	SkillKey  string
	StepIndex int
	ItemIndex int
}

// ProgressSynced carries progress returned by the backend.
type ProgressSynced struct {
	Epoch    int
	Progress progress.Progress
}

// ProfileRefreshed carries a re-fetched profile.
type ProfileRefreshed struct {
	Epoch int
	User  *api.User
}

// ShowNotice displays text as a new notice.
type ShowNotice struct {
	Text string
}

// NoticeExpired clears the notice with the given ID if it is still shown.
type NoticeExpired struct {
	ID int
}
