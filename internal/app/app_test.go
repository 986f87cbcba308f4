package app

import (
	"context"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/auth"
	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/mockapi"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/abhisek/learnpath/internal/screen"
	"github.com/abhisek/learnpath/internal/screens/roadmap"
	"github.com/abhisek/learnpath/internal/shell"
)

type harness struct {
	t       *testing.T
	srv     *mockapi.Server
	client  *api.Client
	m       AppModel
	expired []int
}

// failingClient wraps the real client and fails selected calls with a
// server error.
type failingClient struct {
	*api.Client
	failLogout bool
	failUpdate bool
}

func (f failingClient) Logout(ctx context.Context) (*api.Ack, error) {
	if f.failLogout {
		return nil, &api.APIError{Status: 500, Message: "Server error"}
	}
	return f.Client.Logout(ctx)
}

func (f failingClient) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*api.User, error) {
	if f.failUpdate {
		return nil, &api.APIError{Status: 500, Message: "Server error"}
	}
	return f.Client.UpdateProfile(ctx, update)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, func(c *api.Client) Client { return c })
}

func newHarnessWith(t *testing.T, wrap func(*api.Client) Client) *harness {
	t.Helper()
	srv := mockapi.New()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	c, err := api.NewClient(ts.URL)
	require.NoError(t, err)
	require.NoError(t, srv.AddUser("Ada Lovelace", "ada@example.com", "secret1"))

	h := &harness{t: t, srv: srv, client: c}
	h.m = newAppModel(Options{Client: wrap(c), Catalog: catalog.Default()})
	h.m.expire = func(id int) tea.Cmd {
		h.expired = append(h.expired, id)
		return nil
	}
	return h
}

// runCmd executes c, giving up on commands that wait on timers.
func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(250 * time.Millisecond):
		return nil, false
	}
}

// drain runs cmd and every command it leads to, feeding messages back into
// the model.
func (h *harness) drain(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok || msg == nil {
			continue
		}
		if cmds, ok := subCmds(msg); ok {
			queue = append(queue, cmds...)
			continue
		}
		switch msg := msg.(type) {
		case tea.QuitMsg:
		default:
			next, nc := h.m.Update(msg)
			h.m = next.(AppModel)
			queue = append(queue, nc)
		}
	}
}

// subCmds unpacks batched and sequenced commands. Sequences keep their order
// because the queue runs first in, first out.
func subCmds(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(AppModel)
	h.drain(cmd)
}

// typeText feeds characters to the model. Cursor blink commands are
// dropped.
func (h *harness) typeText(s string) {
	for _, r := range s {
		next, _ := h.m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
		h.m = next.(AppModel)
	}
}

func (h *harness) key(code rune) {
	h.send(tea.KeyPressMsg{Code: code})
}

func (h *harness) login() {
	h.send(shell.OpenAuth{Kind: auth.KindLogin})
	h.typeText("ada@example.com")
	h.key(tea.KeyTab)
	h.typeText("secret1")
	h.key(tea.KeyEnter)
}

func TestStartupWithoutSession(t *testing.T) {
	h := newHarness(t)
	h.drain(h.m.Init())

	st := h.m.State()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Progress)
	assert.Equal(t, shell.SectionHome, st.Section)
}

func TestStartupRestoresSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.client.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	h.drain(h.m.Init())

	st := h.m.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "Ada Lovelace", st.User.Name)
}

func TestLoginThroughModal(t *testing.T) {
	h := newHarness(t)
	h.login()

	st := h.m.State()
	require.NotNil(t, st.User)
	assert.False(t, st.AuthOpen)
	assert.Nil(t, h.m.modal)
	assert.Equal(t, auth.KindLogin.WelcomeNotice(), st.Notice.Text)
	assert.Equal(t, []int{st.Notice.ID}, h.expired)
}

func TestLoginWrongPasswordKeepsModal(t *testing.T) {
	h := newHarness(t)
	h.send(shell.OpenAuth{Kind: auth.KindLogin})
	h.typeText("ada@example.com")
	h.key(tea.KeyTab)
	h.typeText("nope")
	h.key(tea.KeyEnter)

	st := h.m.State()
	assert.Nil(t, st.User)
	assert.True(t, st.AuthOpen)
	require.NotNil(t, h.m.modal)
	assert.Equal(t, "Invalid credentials", h.m.modal.Flow().ErrorText())
}

func TestEscClosesModal(t *testing.T) {
	h := newHarness(t)
	h.send(shell.OpenAuth{Kind: auth.KindSignup})
	require.NotNil(t, h.m.modal)
	assert.Equal(t, auth.KindSignup, h.m.modal.Kind())

	h.key(tea.KeyEscape)
	assert.False(t, h.m.State().AuthOpen)
	assert.Nil(t, h.m.modal)
}

func TestToggleSignedOutStaysLocal(t *testing.T) {
	h := newHarness(t)
	h.send(shell.OpenRoadmap{SkillKey: "frontend"})
	_, ok := h.m.router.Active().(*roadmap.RoadmapScreen)
	require.True(t, ok)

	h.send(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.True(t, h.m.State().Progress.IsDone("frontend", 0, 0))

	p, ok := h.srv.UserProgress("ada@example.com")
	require.True(t, ok)
	assert.Empty(t, p)
}

func TestToggleSignedInSyncs(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(shell.OpenRoadmap{SkillKey: "frontend"})
	h.send(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	st := h.m.State()
	assert.True(t, st.Progress.IsDone("frontend", 0, 0))
	require.NotNil(t, st.User)
	assert.True(t, st.User.Progress.IsDone("frontend", 0, 0))

	p, ok := h.srv.UserProgress("ada@example.com")
	require.True(t, ok)
	assert.True(t, p.IsDone("frontend", 0, 0))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(shell.ItemToggled{SkillKey: "frontend", StepIndex: 0, ItemIndex: 0})

	h.send(screen.LogoutRequestMsg{})
	st := h.m.State()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Progress)
	assert.Equal(t, shell.LogoutNotice, st.Notice.Text)

	_, err := h.client.Profile(context.Background())
	assert.Error(t, err)
}

func TestLogoutClearsSessionWhenRequestFails(t *testing.T) {
	h := newHarnessWith(t, func(c *api.Client) Client { return failingClient{Client: c, failLogout: true} })
	h.login()
	require.NotNil(t, h.m.State().User)
	h.send(shell.ItemToggled{SkillKey: "frontend", StepIndex: 0, ItemIndex: 0})

	h.send(screen.LogoutRequestMsg{})
	st := h.m.State()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Progress)
	assert.Equal(t, shell.LogoutNotice, st.Notice.Text)

	// The backend never saw the logout, so its session is still valid.
	_, err := h.client.Profile(context.Background())
	assert.NoError(t, err)
}

func TestFailedSyncKeepsLocalToggle(t *testing.T) {
	h := newHarnessWith(t, func(c *api.Client) Client { return failingClient{Client: c, failUpdate: true} })
	h.login()
	h.send(shell.OpenRoadmap{SkillKey: "frontend"})
	h.send(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	st := h.m.State()
	require.NotNil(t, st.User)
	assert.True(t, st.Progress.IsDone("frontend", 0, 0))

	p, _ := h.srv.UserProgress("ada@example.com")
	assert.False(t, p.IsDone("frontend", 0, 0))
}

func TestDoublePressBeforeDrainUnchecks(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(shell.OpenRoadmap{SkillKey: "frontend"})

	space := tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	next, first := h.m.Update(space)
	h.m = next.(AppModel)
	next, second := h.m.Update(space)
	h.m = next.(AppModel)
	h.drain(first)
	h.drain(second)

	assert.False(t, h.m.State().Progress.IsDone("frontend", 0, 0))
	p, ok := h.srv.UserProgress("ada@example.com")
	require.True(t, ok)
	assert.False(t, p.IsDone("frontend", 0, 0))
}

func TestStaleSyncDiscardedAfterLogout(t *testing.T) {
	h := newHarness(t)
	h.login()
	epoch := h.m.State().Epoch

	h.send(screen.LogoutRequestMsg{})
	h.send(shell.ProgressSynced{Epoch: epoch, Progress: progress.Toggle(progress.Progress{}, "frontend", 0, 0, true)})
	assert.Empty(t, h.m.State().Progress)
}

func TestEscNavigation(t *testing.T) {
	h := newHarness(t)
	h.send(shell.OpenRoadmap{SkillKey: "frontend"})
	h.key(tea.KeyEscape)
	assert.Equal(t, shell.SectionSkills, h.m.State().Section)
	h.key(tea.KeyEscape)
	assert.Equal(t, shell.SectionHome, h.m.State().Section)
}

func TestUnknownSkillShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.send(shell.OpenRoadmap{SkillKey: "nope"})
	assert.Contains(t, h.m.render(), "Loading...")
}

func TestViewShowsHeaderAndNotice(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, h.m.render(), "Not signed in")

	h.login()
	view := h.m.render()
	assert.Contains(t, view, "Ada Lovelace")
	assert.True(t, strings.Contains(view, "Welcome back!"))
}

func TestModalViewRendered(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.send(shell.OpenAuth{Kind: auth.KindLogin})
	assert.Contains(t, h.m.render(), auth.KindLogin.Title())
}
