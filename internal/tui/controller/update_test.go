package controller

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
)

func snapshotMsg(id pane.ID, seq uint64, names ...string) model.ResourceSnapshotMsg {
	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = podRow(n)
	}
	return model.ResourceSnapshotMsg{
		PaneID:   id,
		Seq:      seq,
		Snapshot: kube.Snapshot{Headers: kube.Headers(kube.KindPods), Rows: rows},
	}
}

func TestWindowSizeGatesReady(t *testing.T) {
	m := newTestModel(t)

	Update(m, tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.False(t, m.Ready)

	Update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, m.Ready)
	assert.Equal(t, 80, m.Width)
	assert.Equal(t, 24, m.Height)
}

func TestSnapshotAppliesToItsPane(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()

	cmd := Update(m, snapshotMsg(id, 0, "alpha", "beta"))
	require.NotNil(t, cmd, "stream messages re-arm the channel reader")

	lp := m.FocusedPane().(*panes.ResourceListPane)
	row, ok := lp.Selected()
	require.True(t, ok)
	assert.Equal(t, "alpha", row[0])
}

func TestStaleSnapshotIsDropped(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	m.WatcherSeq[id] = 3

	Update(m, snapshotMsg(id, 3, "alpha"))
	lp := m.FocusedPane().(*panes.ResourceListPane)
	row, ok := lp.Selected()
	require.True(t, ok)
	require.Equal(t, "alpha", row[0])

	// A replaced watcher's snapshot arrives late and changes nothing.
	Update(m, snapshotMsg(id, 2, "ghost"))
	row, ok = lp.Selected()
	require.True(t, ok)
	assert.Equal(t, "alpha", row[0])

	Update(m, snapshotMsg(id, 4, "ghost"))
	row, _ = lp.Selected()
	assert.Equal(t, "alpha", row[0], "only the exact live generation applies")
}

func TestSnapshotForClosedPaneIsIgnored(t *testing.T) {
	m := newTestModel(t)
	assert.NotPanics(t, func() {
		Update(m, snapshotMsg(999, 0, "ghost"))
	})
}

func TestSnapshotErrorKeepsRows(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	lp := seedPods(t, m, "alpha")

	Update(m, model.ResourceSnapshotMsg{
		PaneID:   id,
		Snapshot: kube.Snapshot{Headers: kube.Headers(kube.KindPods), Err: errors.New("connection refused")},
	})
	row, ok := lp.Selected()
	require.True(t, ok, "rows survive a watch error")
	assert.Equal(t, "alpha", row[0])
}

func TestRebindWatcherAdvancesSequence(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	seedPods(t, m, "alpha")

	rebindWatcher(m, id)
	assert.Equal(t, uint64(1), m.WatcherSeq[id])
	rebindWatcher(m, id)
	assert.Equal(t, uint64(2), m.WatcherSeq[id])

	// Only the live generation delivers with the current number; wait
	// for its snapshot from the fake cluster and apply it.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-m.Events:
			s, ok := msg.(model.ResourceSnapshotMsg)
			if !ok || s.Seq != 2 {
				continue
			}
			require.Equal(t, id, s.PaneID)
			Update(m, s)
			lp := m.FocusedPane().(*panes.ResourceListPane)
			_, selected := lp.Selected()
			assert.False(t, selected, "the fake cluster has no pods, so the seed rows are gone")
			return
		case <-deadline:
			t.Fatal("no snapshot from the rebound watcher")
		}
	}
}

func TestWatcherStateTeardown(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	rebindWatcher(m, id)
	require.Contains(t, m.WatcherCancel, id)

	stopWatcher(m, id)
	assert.NotContains(t, m.WatcherCancel, id)
	assert.Equal(t, uint64(1), m.WatcherSeq[id], "the series survives a stop")

	releaseWatcher(m, id)
	assert.NotContains(t, m.WatcherSeq, id)
}

func TestPaneExitLeavesInsertMode(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	m.Panes[id].Close()
	m.Panes[id] = panes.NewExec(id, "default", "db-0", "postgres", 1000)
	m.Mode = model.ModeInsert

	Update(m, model.PaneExitedMsg{PaneID: id, Err: errors.New("exit status 1")})
	assert.Equal(t, model.ModeNormal, m.Mode)
}

func TestPaneOutputFeedsEmulator(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	m.Panes[id].Close()
	ep := panes.NewExec(id, "default", "db-0", "postgres", 1000)
	m.Panes[id] = ep
	ep.View(40, 10, false) // settle the emulator size

	Update(m, model.PaneOutputMsg{PaneID: id, Data: []byte("hello")})
	assert.Contains(t, ep.View(40, 10, false), "hello")
}

func TestExecStartFailureShowsError(t *testing.T) {
	m := newTestModel(t)
	id := m.FocusedID()
	m.Panes[id].Close()
	ep := panes.NewExec(id, "default", "db-0", "postgres", 1000)
	m.Panes[id] = ep
	m.Mode = model.ModeInsert

	Update(m, model.ExecStartedMsg{PaneID: id, Err: errors.New("container not found")})
	assert.Equal(t, model.ModeNormal, m.Mode)
	assert.Contains(t, ep.View(80, 10, false), "container not found")
}

func TestContextSwitchMovesEveryTab(t *testing.T) {
	m := newTestModel(t)
	first := m.FocusedID()
	rebindWatcher(m, first)

	Update(m, altKey("t"))
	bindList(m, kube.KindDeployments)
	second := m.FocusedID()
	require.Equal(t, uint64(1), m.WatcherSeq[second])

	next := &kube.Client{
		Dynamic:   dynamicfake.NewSimpleDynamicClient(kscheme.Scheme),
		Context:   "prod",
		Namespace: "default",
	}
	Update(m, model.ContextSwitchedMsg{Context: "prod", Client: next, Namespaces: []string{"default", "payments"}})

	assert.Same(t, next, m.Client)
	assert.Equal(t, "prod", m.ContextName)
	assert.Equal(t, []string{"default", "payments"}, m.Namespaces)
	for _, tab := range m.Tabs.Tabs() {
		assert.Same(t, next, tab.Scope.Client)
		assert.Equal(t, "prod", tab.Scope.Context)
	}
	assert.Equal(t, uint64(2), m.WatcherSeq[first], "every list pane rewatches on the new client")
	assert.Equal(t, uint64(2), m.WatcherSeq[second])
	assert.Contains(t, m.StatusBarMessage, "prod")
}

func TestContextSwitchErrorKeepsClient(t *testing.T) {
	m := newTestModel(t)
	prev := m.Client

	Update(m, model.ContextSwitchedMsg{Context: "prod", Err: errors.New("no such context")})
	assert.Same(t, prev, m.Client)
	assert.Equal(t, "minikube", m.ContextName)
	assert.Contains(t, m.StatusBarMessage, "no such context")
	assert.Equal(t, model.StatusBarError, m.StatusBarMessageType)
}

func TestConfigReloadRebindsKeys(t *testing.T) {
	m := newTestModel(t)
	cfg := config.DefaultConfig()
	cfg.Keybindings.Global["quit"] = "ctrl+x"

	Update(m, model.ConfigReloadedMsg{Config: cfg})
	assert.Equal(t, "ctrl+x", m.Dispatch.KeyFor(model.CmdQuit))
	assert.Contains(t, m.StatusBarMessage, "reloaded")

	cmd := Update(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Nil(t, cmd)
	assert.Equal(t, model.ModeConfirm, m.Mode)
}

func TestConfigReloadErrorKeepsOldBindings(t *testing.T) {
	m := newTestModel(t)

	Update(m, model.ConfigReloadedMsg{Err: errors.New("yaml: mapping values")})
	assert.Equal(t, "ctrl+c", m.Dispatch.KeyFor(model.CmdQuit))
	assert.Contains(t, m.StatusBarMessage, "yaml")
}

func TestNamespaceListLandsInOpenPicker(t *testing.T) {
	m := newTestModel(t)
	Update(m, keyRunes("n"))
	require.Equal(t, model.ModeNamespaceSelector, m.Mode)

	Update(m, model.NamespacesLoadedMsg{Namespaces: []string{"default", "payments"}})
	assert.Equal(t, []string{"default", "payments"}, m.Namespaces)
	require.NotNil(t, m.Picker)
	assert.Equal(t, []string{"default", "payments"}, m.Picker.Items)
}

func TestYAMLResultFillsTextPane(t *testing.T) {
	m := newTestModel(t)
	seedPods(t, m, "alpha")

	cmd := Update(m, keyRunes("y"))
	require.NotNil(t, cmd)
	tp, ok := m.FocusedPane().(*panes.TextPane)
	require.True(t, ok)
	id := m.FocusedID()

	Update(m, model.YAMLLoadedMsg{Origin: id, Body: "kind: Pod\nmetadata: {}"})
	assert.Contains(t, tp.Content(), "kind: Pod")

	// Results for panes closed in the meantime are dropped.
	assert.NotPanics(t, func() {
		Update(m, model.YAMLLoadedMsg{Origin: 999, Body: "late"})
	})
}

func TestToastAndClear(t *testing.T) {
	m := newTestModel(t)

	cmd := Update(m, model.ToastMsg{Text: "saved", Type: model.StatusBarSuccess})
	require.NotNil(t, cmd, "a toast schedules its own removal")
	assert.Equal(t, "saved", m.StatusBarMessage)
	assert.Equal(t, model.StatusBarSuccess, m.StatusBarMessageType)

	Update(m, model.ClearStatusBarMsg{})
	assert.Empty(t, m.StatusBarMessage)
}

func TestMutationResultToasts(t *testing.T) {
	m := newTestModel(t)

	Update(m, model.ResourceDeletedMsg{Kind: kube.KindPods, Namespace: "default", Name: "alpha"})
	assert.Contains(t, m.StatusBarMessage, `"alpha"`)
	assert.Equal(t, model.StatusBarSuccess, m.StatusBarMessageType)

	Update(m, model.ScaledMsg{Kind: kube.KindDeployments, Namespace: "default", Name: "web", Replicas: 3})
	assert.Contains(t, m.StatusBarMessage, `"web"`)
	assert.Contains(t, m.StatusBarMessage, "3 replicas")

	Update(m, model.ScaledMsg{Kind: kube.KindDeployments, Name: "web", Err: errors.New("not found")})
	assert.Contains(t, m.StatusBarMessage, "not found")
	assert.Equal(t, model.StatusBarError, m.StatusBarMessageType)
}

func TestTickReschedules(t *testing.T) {
	m := newTestModel(t)
	cmd := Update(m, model.TickMsg(time.Now()))
	assert.NotNil(t, cmd)
}
