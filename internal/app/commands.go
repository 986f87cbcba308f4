package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/shell"
	"github.com/abhisek/learnpath/internal/tracker"
)

// restoreSession fetches the profile once at startup.
func restoreSession(f auth.ProfileFetcher) tea.Cmd {
	return func() tea.Msg {
		if u := auth.Restore(context.Background(), f); u != nil {
			return shell.SessionRestored{User: u}
		}
		return shell.SessionCleared{}
	}
}

// logout ends the session on the backend. The local session is cleared
// regardless of the outcome.
func logout(c Client) tea.Cmd {
	return func() tea.Msg {
		_, _ = c.Logout(context.Background())
		return shell.LoggedOut{}
	}
}

func reconcile(t *tracker.Tracker, p progress.Progress, epoch int) tea.Cmd {
	return func() tea.Msg {
		return shell.ProgressSynced{Epoch: epoch, Progress: t.Reconcile(context.Background(), p)}
	}
}

func refresh(t *tracker.Tracker, epoch int) tea.Cmd {
	return func() tea.Msg {
		return shell.ProfileRefreshed{Epoch: epoch, User: t.Refresh(context.Background())}
	}
}

func expireNotice(id int) tea.Cmd {
	return tea.Tick(shell.NoticeDuration, func(time.Time) tea.Msg {
		return shell.NoticeExpired{ID: id}
	})
}
