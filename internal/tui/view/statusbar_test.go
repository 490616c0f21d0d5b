package view

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/panes"
)

func TestStatusBarModeBadge(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, renderStatusBar(m), "NORMAL")

	m.Mode = model.ModeInsert
	assert.Contains(t, renderStatusBar(m), "INSERT")
}

func TestStatusBarScope(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, renderStatusBar(m), "minikube/default")

	m.Namespace = ""
	assert.Contains(t, renderStatusBar(m), "minikube/default", "an empty namespace reads as default")
}

func TestStatusBarScopeForClusterKinds(t *testing.T) {
	m := newTestModel(t)
	m.Panes[m.FocusedID()] = panes.NewResourceList(kube.KindNodes)

	assert.Contains(t, renderStatusBar(m), "minikube/cluster")
}

func TestStatusBarScopeAllNamespaces(t *testing.T) {
	m := newTestModel(t)
	lp, ok := m.FocusedPane().(*panes.ResourceListPane)
	require.True(t, ok)
	lp.ToggleAllNamespaces()

	assert.Contains(t, renderStatusBar(m), "minikube/all")
}

func TestStatusBarFilterEcho(t *testing.T) {
	m := newTestModel(t)
	m.Mode = model.ModeFilter
	m.FilterBuffer = "web"

	assert.Contains(t, renderStatusBar(m), "/web█")
}

func TestStatusBarTransientMessage(t *testing.T) {
	m := newTestModel(t)
	m.StatusBarMessage = "Deleted pod alpha"
	m.StatusBarMessageType = model.StatusBarSuccess

	bar := renderStatusBar(m)
	assert.Contains(t, bar, "Deleted pod alpha")
	assert.NotContains(t, bar, "describe", "the message displaces key hints")
}

func TestStatusBarHintsFollowFocus(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, renderStatusBar(m), "describe", "resource list hints")

	m.Panes[m.FocusedID()] = panes.NewHelp(m.Dispatch.KeyFor)
	assert.Contains(t, renderStatusBar(m), "split", "fallback hints")

	m.Mode = model.ModeConfirm
	assert.Contains(t, renderStatusBar(m), "y confirm · n cancel")
}

func TestStatusBarWidth(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 80, ansi.StringWidth(renderStatusBar(m)))

	m.Width = 20
	assert.Equal(t, 20, ansi.StringWidth(renderStatusBar(m)))
}
