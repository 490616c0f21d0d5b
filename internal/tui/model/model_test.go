package model

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// stubPane satisfies the Pane interface with a fixed view type, enough
// for exercising model-level plumbing without real pane content.
type stubPane struct {
	vt pane.ViewType
}

func (s stubPane) ViewType() pane.ViewType      { return s.vt }
func (s stubPane) View(_, _ int, _ bool) string { return "" }
func (s stubPane) Handle(Command) tea.Cmd       { return nil }
func (s stubPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }
func (s stubPane) OnFocusChange(pane.ViewType)  {}
func (s stubPane) Close()                       {}

func newModel(t *testing.T) *Model {
	t.Helper()
	return New(config.DefaultConfig(), &kube.Client{}, t.TempDir())
}

func TestPostEventDropsOnOverflow(t *testing.T) {
	m := newModel(t)
	for i := 0; i < 150; i++ {
		m.PostEvent(LogWakeMsg{PaneID: 1})
	}
	assert.Len(t, m.Events, 100, "overflow is dropped, not queued")
}

func TestWaitForEventDeliversPostedMessage(t *testing.T) {
	m := newModel(t)
	m.PostEvent(ToastMsg{Text: "hi", Type: StatusBarSuccess})

	msg := m.WaitForEvent()()
	assert.Equal(t, ToastMsg{Text: "hi", Type: StatusBarSuccess}, msg)
}

func TestSetStatusMessageCancelsPreviousClear(t *testing.T) {
	m := newModel(t)
	cmd := m.SetStatusMessage("first", StatusBarInfo, time.Second)
	require.NotNil(t, cmd)
	first := m.StatusBarClearCancel
	require.NotNil(t, first)

	m.SetStatusMessage("second", StatusBarSuccess, time.Second)
	select {
	case <-first:
	default:
		t.Fatal("the first message's pending clear was not cancelled")
	}
	assert.Equal(t, "second", m.StatusBarMessage)
	assert.Equal(t, StatusBarSuccess, m.StatusBarMessageType)
}

func TestClearStatusBar(t *testing.T) {
	m := newModel(t)
	m.SetStatusMessage("gone", StatusBarInfo, time.Second)
	pending := m.StatusBarClearCancel

	m.ClearStatusBar()
	assert.Empty(t, m.StatusBarMessage)
	assert.Nil(t, m.StatusBarClearCancel)
	select {
	case <-pending:
	default:
		t.Fatal("clearing did not cancel the scheduled clear")
	}
}

func TestSupportsInsert(t *testing.T) {
	m := newModel(t)
	tab := m.Tabs.AddTab("Tab 1", TabScope{})

	assert.False(t, m.SupportsInsert(), "no pane installed yet")

	m.Panes[tab.Focused] = stubPane{vt: pane.ListView(kube.KindPods)}
	assert.False(t, m.SupportsInsert())

	m.Panes[tab.Focused] = stubPane{vt: pane.ExecView("default", "db-0")}
	assert.True(t, m.SupportsInsert())

	m.Panes[tab.Focused] = stubPane{vt: pane.TerminalView()}
	assert.True(t, m.SupportsInsert())
}

func TestPaneByID(t *testing.T) {
	m := newModel(t)
	tab := m.Tabs.AddTab("Tab 1", TabScope{})
	m.Panes[tab.Focused] = stubPane{}

	p, err := m.PaneByID(tab.Focused)
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = m.PaneByID(999)
	assert.ErrorIs(t, err, ErrPaneNotFound)
}

func TestScopeRoundTrip(t *testing.T) {
	m := newModel(t)
	tab := m.Tabs.AddTab("Tab 1", TabScope{})

	client := &kube.Client{Context: "prod"}
	m.Client = client
	m.ContextName = "prod"
	m.Namespace = "payments"
	m.Contexts = []string{"minikube", "prod"}
	m.Namespaces = []string{"default", "payments"}
	m.SaveScopeToTab(tab)

	m.Client = &kube.Client{}
	m.ContextName = "minikube"
	m.Namespace = "default"

	m.SyncScopeFromTab(tab)
	assert.Same(t, client, m.Client)
	assert.Equal(t, "prod", m.ContextName)
	assert.Equal(t, "payments", m.Namespace)
	assert.Equal(t, []string{"default", "payments"}, m.Namespaces)
}

func TestSyncScopeKeepsFieldsForEmptyScope(t *testing.T) {
	m := newModel(t)
	tab := m.Tabs.AddTab("Tab 1", TabScope{})
	m.ContextName = "minikube"
	m.Namespace = "default"

	m.SyncScopeFromTab(tab)
	assert.Equal(t, "minikube", m.ContextName, "a zero scope overwrites nothing")
	assert.Equal(t, "default", m.Namespace)
}
