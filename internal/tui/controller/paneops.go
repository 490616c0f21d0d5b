package controller

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/internal/tui/view"
	"github.com/gitavk/ktile/pkg/logging"
)

// setFocus moves focus and fires the focus-change hook on the newly
// focused pane, telling it which view the user came from.
func setFocus(m *model.Model, id pane.ID) {
	t := m.ActiveTab()
	if t.Focused == id {
		return
	}
	var prev pane.ViewType
	if p := m.Panes[t.Focused]; p != nil {
		prev = p.ViewType()
	}
	t.Focused = id
	if p := m.Panes[id]; p != nil {
		p.OnFocusChange(prev)
	}
	syncModeWithFocus(m)
}

// syncModeWithFocus aligns the input mode with the focused pane: query
// panes own their editor and browse modes, everything else sits in
// Normal. Insert never survives a focus change.
func syncModeWithFocus(m *model.Model) {
	if qp, ok := m.FocusedPane().(*panes.QueryPane); ok {
		m.Mode = qp.Mode()
		return
	}
	switch m.Mode {
	case model.ModeQueryEditor, model.ModeQueryBrowse, model.ModeQueryHistory,
		model.ModeSavedQueries, model.ModeInsert:
		m.Mode = model.ModeNormal
	}
}

// splitFocused splits the focused pane in the given orientation and
// focuses the fresh empty pane.
func splitFocused(m *model.Model, orient pane.Orientation) {
	t := m.ActiveTab()
	newID := m.Tabs.AllocPaneID()
	if !t.Tree.SplitWithID(t.Focused, orient, newID) {
		m.Tabs.RollbackPaneID(newID)
		return
	}
	m.Panes[newID] = panes.NewEmpty(m.Dispatch.KeyFor)
	setFocus(m, newID)
}

// splitForView opens a new leaf next to the focused pane for a derived
// view. Wide panes split side by side, tall ones stack.
func splitForView(m *model.Model) (pane.ID, bool) {
	t := m.ActiveTab()
	orient := pane.Horizontal
	for _, pr := range t.Tree.Layout(view.BodyRect(m.Width, m.Height)) {
		if pr.ID == t.Focused {
			if pr.Rect.Width >= 2*pr.Rect.Height {
				orient = pane.Vertical
			}
			break
		}
	}
	newID := m.Tabs.AllocPaneID()
	if !t.Tree.SplitWithID(t.Focused, orient, newID) {
		m.Tabs.RollbackPaneID(newID)
		return 0, false
	}
	return newID, true
}

// teardownPane releases everything a pane id owns: its subscription,
// its sequence entry and the pane implementation itself.
func teardownPane(m *model.Model, id pane.ID) {
	releaseWatcher(m, id)
	if p, ok := m.Panes[id]; ok {
		p.Close()
		delete(m.Panes, id)
	}
}

// teardownTab releases every pane in a tab.
func teardownTab(m *model.Model, t *model.Tab) {
	for _, id := range t.Tree.LeafIDs() {
		teardownPane(m, id)
	}
}

// closeFocusedPane closes the focused leaf and moves focus into the
// promoted sibling. When the tab holds its last leaf the tab itself
// closes; for the last tab that turns into the quit confirmation.
func closeFocusedPane(m *model.Model) tea.Cmd {
	t := m.ActiveTab()
	id := t.Focused

	focusTo, ok := t.Tree.Close(id)
	if !ok {
		return closeActiveTab(m)
	}

	if t.Fullscreen == id {
		t.Fullscreen = 0
	}
	var prev pane.ViewType
	if p := m.Panes[id]; p != nil {
		prev = p.ViewType()
	}
	teardownPane(m, id)
	t.Focused = focusTo
	if p := m.Panes[focusTo]; p != nil {
		p.OnFocusChange(prev)
	}
	syncModeWithFocus(m)
	return nil
}

// closeActiveTab tears the current tab down. The last tab cannot be
// removed; closing it asks to quit instead.
func closeActiveTab(m *model.Model) tea.Cmd {
	closed, err := m.Tabs.CloseActive()
	if errors.Is(err, model.ErrLastTab) {
		return requestQuit(m)
	}
	teardownTab(m, closed)
	m.SyncScopeFromTab(m.Tabs.Active())
	syncModeWithFocus(m)
	return nil
}

// currentScope snapshots the model's cluster scope for a new tab.
func currentScope(m *model.Model) model.TabScope {
	return model.TabScope{
		Client:     m.Client,
		Context:    m.ContextName,
		Namespace:  m.Namespace,
		Contexts:   m.Contexts,
		Namespaces: m.Namespaces,
	}
}

// newTab appends a fresh tab holding one empty pane and switches to it.
func newTab(m *model.Model) {
	m.SaveScopeToTab(m.ActiveTab())
	t := m.Tabs.AddTab(m.Tabs.NextName(), currentScope(m))
	m.Panes[t.Focused] = panes.NewEmpty(m.Dispatch.KeyFor)
	syncModeWithFocus(m)
}

// switchTab activates the tab at index i, saving and restoring scope.
func switchTab(m *model.Model, i int) {
	if i == m.Tabs.ActiveIndex() {
		return
	}
	m.SaveScopeToTab(m.ActiveTab())
	if !m.Tabs.SwitchTo(i) {
		return
	}
	m.SyncScopeFromTab(m.Tabs.Active())
	syncModeWithFocus(m)
}

// focusDirection moves focus to the neighbouring pane in a direction,
// judged by the layout rectangles of the active tab.
func focusDirection(m *model.Model, dir pane.Direction) {
	t := m.ActiveTab()
	rects := t.Tree.Layout(view.BodyRect(m.Width, m.Height))
	for _, pr := range rects {
		if pr.ID == t.Focused {
			if id, ok := pane.FindInDirection(t.Focused, pr.Rect, rects, dir); ok {
				setFocus(m, id)
			}
			return
		}
	}
}

// focusCycle moves focus delta steps through the leaves in tree order,
// wrapping at the ends.
func focusCycle(m *model.Model, delta int) {
	t := m.ActiveTab()
	ids := t.Tree.LeafIDs()
	for i, id := range ids {
		if id == t.Focused {
			setFocus(m, ids[(i+delta+len(ids))%len(ids)])
			return
		}
	}
}

// toggleFullscreen makes the focused pane cover the whole body, or
// restores the grid if it already does.
func toggleFullscreen(m *model.Model) {
	t := m.ActiveTab()
	if t.Fullscreen == t.Focused {
		t.Fullscreen = 0
	} else {
		t.Fullscreen = t.Focused
	}
}

// resizeFocused nudges the divider of the split holding the focused
// pane by 5% of its extent.
func resizeFocused(m *model.Model, grow bool) {
	t := m.ActiveTab()
	t.Tree.Resize(t.Focused, 0.05, grow)
}

// requestQuit opens the quit confirmation.
func requestQuit(m *model.Model) tea.Cmd {
	m.Confirm = &model.ConfirmDialog{Message: "Quit ktile?", Command: model.CmdQuit}
	m.Mode = model.ModeConfirm
	return nil
}

// performQuit tears down every pane, subscription and forward, then
// stops the program.
func performQuit(m *model.Model) tea.Cmd {
	for _, t := range m.Tabs.Tabs() {
		teardownTab(m, t)
	}
	m.Forwards.StopAll()
	m.Quitting = true
	logging.Info("app", "Shutting down")
	return tea.Quit
}

// ---- View binding ----

// bindList points the focused pane at a resource kind, replacing
// whatever it showed. Used by the resource switcher and the initial
// pane of a tab.
func bindList(m *model.Model, kind kube.ResourceKind) {
	t := m.ActiveTab()
	id := t.Focused
	if lp, ok := m.Panes[id].(*panes.ResourceListPane); ok {
		lp.SetKind(kind)
	} else {
		teardownPane(m, id)
		m.Panes[id] = panes.NewResourceList(kind)
	}
	rebindWatcher(m, id)
}

// openYAML opens a manifest viewer next to the focused pane.
func openYAML(m *model.Model, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	id, ok := splitForView(m)
	if !ok {
		return nil
	}
	m.Panes[id] = panes.NewText(pane.YAMLView(kind, namespace, name))
	setFocus(m, id)
	return loadYAMLCmd(m.Client, id, kind, namespace, name)
}

// openDescribe opens a describe report next to the focused pane.
func openDescribe(m *model.Model, kind kube.ResourceKind, namespace, name string) tea.Cmd {
	id, ok := splitForView(m)
	if !ok {
		return nil
	}
	m.Panes[id] = panes.NewText(pane.DetailView(kind, namespace, name))
	setFocus(m, id)
	return loadDescribeCmd(m.Client, id, kind, namespace, name)
}

// openLogs opens a streaming log pane for a pod next to the focused
// pane.
func openLogs(m *model.Model, namespace, pod string) tea.Cmd {
	id, ok := splitForView(m)
	if !ok {
		return nil
	}
	m.Panes[id] = panes.NewLogs(namespace, pod, "")
	setFocus(m, id)
	return startLogStreamCmd(m, id, namespace, pod)
}

// openExec opens an interactive shell into a pod container and drops
// straight into insert mode.
func openExec(m *model.Model, namespace, pod string) tea.Cmd {
	id, ok := splitForView(m)
	if !ok {
		return nil
	}
	ep := panes.NewExec(id, namespace, pod, "", m.Config.Terminal.ScrollbackLines)
	m.Panes[id] = ep
	setFocus(m, id)
	m.Mode = model.ModeInsert
	return startExecCmd(m, id, namespace, pod)
}

// openTerminal starts a local shell pane next to the focused pane and
// enters insert mode.
func openTerminal(m *model.Model) tea.Cmd {
	id, ok := splitForView(m)
	if !ok {
		return nil
	}
	shell := []string{m.Config.General.ShellCommand()}
	tp, err := panes.NewTerminal(id, shell, m.Config.Terminal.ScrollbackLines, m.Events)
	if err != nil {
		t := m.ActiveTab()
		if focusTo, closed := t.Tree.Close(id); closed {
			t.Focused = focusTo
		}
		logging.Error("terminal", err, "Starting local shell failed")
		return toastCmd(m, "Shell: "+err.Error(), model.StatusBarError)
	}
	m.Panes[id] = tp
	setFocus(m, id)
	m.Mode = model.ModeInsert
	return nil
}

// openQueryPane opens the SQL workbench for a confirmed target, in a
// fresh tab or a split depending on configuration.
func openQueryPane(m *model.Model, target kube.QueryTarget) tea.Cmd {
	var id pane.ID
	if m.Config.General.QueryOpenNewTab {
		m.SaveScopeToTab(m.ActiveTab())
		t := m.Tabs.AddTab("query:"+target.Pod, currentScope(m))
		id = t.Focused
	} else {
		var ok bool
		id, ok = splitForView(m)
		if !ok {
			return nil
		}
	}
	qp := panes.NewQuery(id, target, m.ConfigDir)
	m.Panes[id] = qp
	if t := m.ActiveTab(); t.Focused != id {
		setFocus(m, id)
	} else {
		syncModeWithFocus(m)
	}
	return tea.Batch(connectQueryCmd(m.Client, id, target), loadSchemaCmd(m.Client, id, target))
}

// toggleHelp opens the key reference in a split, or closes it if the
// active tab already shows one.
func toggleHelp(m *model.Model) {
	t := m.ActiveTab()
	for _, id := range t.Tree.LeafIDs() {
		if p, ok := m.Panes[id]; ok && p.ViewType().Kind == pane.ViewHelp {
			closePaneByID(m, t, id)
			return
		}
	}
	prevID := t.Focused
	id, ok := splitForView(m)
	if !ok {
		return
	}
	hp := panes.NewHelp(m.Dispatch.KeyFor)
	m.Panes[id] = hp
	var prev pane.ViewType
	if p := m.Panes[prevID]; p != nil {
		prev = p.ViewType()
	}
	t.Focused = id
	hp.OnFocusChange(prev)
	syncModeWithFocus(m)
}

// closePaneByID closes a specific leaf, which need not be focused.
func closePaneByID(m *model.Model, t *model.Tab, id pane.ID) {
	focusTo, ok := t.Tree.Close(id)
	if !ok {
		return
	}
	if t.Fullscreen == id {
		t.Fullscreen = 0
	}
	var prev pane.ViewType
	if p := m.Panes[id]; p != nil {
		prev = p.ViewType()
	}
	teardownPane(m, id)
	if t.Focused == id || !t.Tree.Contains(t.Focused) {
		t.Focused = focusTo
		if p := m.Panes[focusTo]; p != nil {
			p.OnFocusChange(prev)
		}
	}
	syncModeWithFocus(m)
}

// toggleUtilityTab switches to (or away from) a dedicated single-pane
// tab, creating it on first use. Used for the app-logs and
// port-forwards surfaces.
func toggleUtilityTab(m *model.Model, name string, build func(id pane.ID) model.Pane) {
	if i, ok := m.Tabs.FindByName(name); ok {
		if i == m.Tabs.ActiveIndex() {
			if closed, err := m.Tabs.CloseActive(); err == nil {
				teardownTab(m, closed)
				m.SyncScopeFromTab(m.Tabs.Active())
				syncModeWithFocus(m)
			}
			return
		}
		switchTab(m, i)
		return
	}
	m.SaveScopeToTab(m.ActiveTab())
	t := m.Tabs.AddTab(name, currentScope(m))
	m.Panes[t.Focused] = build(t.Focused)
	syncModeWithFocus(m)
}
