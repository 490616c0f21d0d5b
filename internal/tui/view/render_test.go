package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
)

func newTestModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New(config.DefaultConfig(), &kube.Client{}, t.TempDir())
	m.Width, m.Height = 80, 24
	m.Ready = true
	m.ContextName = "minikube"
	m.Namespace = "default"
	tab := m.Tabs.AddTab(m.Tabs.NextName(), model.TabScope{})
	m.Panes[tab.Focused] = panes.NewResourceList(kube.KindPods)
	return m
}

// splitWithHelp puts a help pane beside the focused one and returns its id.
func splitWithHelp(t *testing.T, m *model.Model) pane.ID {
	t.Helper()
	tab := m.ActiveTab()
	id := m.Tabs.AllocPaneID()
	require.True(t, tab.Tree.SplitWithID(tab.Focused, pane.Vertical, id))
	m.Panes[id] = panes.NewHelp(m.Dispatch.KeyFor)
	return id
}

func TestBodyRect(t *testing.T) {
	r := BodyRect(120, 40)
	assert.Equal(t, pane.Rect{X: 0, Y: 1, Width: 120, Height: 38}, r)

	// The bars always get their rows; the body absorbs the squeeze.
	assert.Zero(t, BodyRect(80, 2).Height)
	assert.Zero(t, BodyRect(80, 1).Height)
}

func TestRenderWhileQuitting(t *testing.T) {
	m := newTestModel(t)
	m.Quitting = true
	assert.Empty(t, Render(m))
}

func TestRenderBeforeFirstSize(t *testing.T) {
	m := newTestModel(t)
	m.Ready = false
	assert.Contains(t, Render(m), "Starting ktile")
}

func TestRenderFrameShape(t *testing.T) {
	m := newTestModel(t)
	out := Render(m)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 24, "tab bar + body + status bar fill the terminal")
	for i, line := range lines {
		assert.Equal(t, 80, ansi.StringWidth(line), "line %d", i)
	}

	assert.Contains(t, out, "1:Tab 1")
	assert.Contains(t, out, "NORMAL")
	assert.Contains(t, out, "minikube/default")
	assert.Contains(t, out, "Pods")
}

func TestRenderSplitShowsBothPanes(t *testing.T) {
	m := newTestModel(t)
	splitWithHelp(t, m)

	out := Render(m)
	assert.Contains(t, out, "Pods")
	assert.Contains(t, out, "Help")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 24)
	for i, line := range lines {
		assert.Equal(t, 80, ansi.StringWidth(line), "line %d", i)
	}
}

func TestRenderFullscreenHidesSiblings(t *testing.T) {
	m := newTestModel(t)
	splitWithHelp(t, m)
	tab := m.ActiveTab()
	tab.Fullscreen = tab.Focused

	out := Render(m)
	assert.Contains(t, out, "Pods")
	assert.NotContains(t, out, "Help", "fullscreen covers the sibling pane")

	tab.Fullscreen = 0
	assert.Contains(t, Render(m), "Help")
}

func TestRenderStaleFullscreenFallsBack(t *testing.T) {
	m := newTestModel(t)
	splitWithHelp(t, m)
	m.ActiveTab().Fullscreen = 999 // pane closed while fullscreen

	out := Render(m)
	assert.Contains(t, out, "Pods")
	assert.Contains(t, out, "Help")
}

func TestRenderOverlayReplacesBody(t *testing.T) {
	m := newTestModel(t)
	m.Mode = model.ModeConfirm
	m.Confirm = &model.ConfirmDialog{Message: "Delete pod alpha?", Command: model.CmdDelete}

	out := Render(m)
	assert.Contains(t, out, "Delete pod alpha?")
	assert.Contains(t, out, "y/enter confirm")
	assert.NotContains(t, out, "Pods", "the dialog takes over the body")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 24)
}

func TestTabBarMarksEveryTab(t *testing.T) {
	m := newTestModel(t)
	m.Tabs.AddTab(m.Tabs.NextName(), model.TabScope{})

	bar := renderTabBar(m)
	assert.Contains(t, bar, "1:Tab 1")
	assert.Contains(t, bar, "2:Tab 2")
	assert.Equal(t, 80, ansi.StringWidth(bar))
}

func TestTabBarTruncatesWhenNarrow(t *testing.T) {
	m := newTestModel(t)
	m.Tabs.AddTab("a very long utility tab name", model.TabScope{})
	m.Width = 12

	bar := renderTabBar(m)
	assert.Equal(t, 12, ansi.StringWidth(bar))
}
