package shell

import (
	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/progress"
)

// Apply returns the state after ev. It never mutates s and has no side
// effects; unknown events return s unchanged.
func Apply(s State, ev Event) State {
	switch ev := ev.(type) {
	case Navigate:
		s.Section = ev.Section

	case OpenRoadmap:
		s.Skill = ev.SkillKey
		s.Section = SectionRoadmap

	case OpenAuth:
		s.AuthOpen = true
		s.AuthKind = ev.Kind

	case CloseAuth:
		s.AuthOpen = false

	case SessionRestored:
		if ev.User == nil || ev.User.ID == "" {
			return clearSession(s)
		}
		s = setUser(s, ev.User)

	case SessionCleared:
		s = clearSession(s)

	case LoggedIn:
		if ev.User == nil {
			return Apply(s, LoginFailed{Kind: ev.Kind})
		}
		s = setUser(s, ev.User)
		s.AuthOpen = false
		s = notify(s, ev.Kind.WelcomeNotice())

	case LoginFailed:
		s.User = nil
		s = notify(s, ev.Kind.FailureNotice())

	case LoggedOut:
		s = clearSession(s)
		s = notify(s, LogoutNotice)

	case ItemToggled:
		done := s.Progress.IsDone(ev.SkillKey, ev.StepIndex, ev.ItemIndex)
		s.Progress = progress.Toggle(s.Progress, ev.SkillKey, ev.StepIndex, ev.ItemIndex, !done)

	case ProgressSynced:
		if ev.Epoch != s.Epoch || ev.Progress == nil {
			return s
		}
		s.Progress = ev.Progress
		if s.User != nil {
			u := *s.User
			u.Progress = ev.Progress
			s.User = &u
		}

	case ProfileRefreshed:
		if ev.Epoch != s.Epoch || ev.User == nil {
			return s
		}
		s.User = s.User.Merge(ev.User)

	case ShowNotice:
		s = notify(s, ev.Text)

	case NoticeExpired:
		if ev.ID == s.Notice.ID {
			s.Notice = Notice{ID: s.Notice.ID}
		}
	}
	return s
}

func setUser(s State, u *api.User) State {
	cp := *u
	s.User = &cp
	s.Epoch++
	if u.Progress != nil {
		s.Progress = u.Progress
	}
	return s
}

func clearSession(s State) State {
	s.User = nil
	s.Progress = progress.Progress{}
	s.Epoch++
	return s
}

func notify(s State, text string) State {
	s.NoticeSeq++
	s.Notice = Notice{ID: s.NoticeSeq, Text: text}
	return s
}
