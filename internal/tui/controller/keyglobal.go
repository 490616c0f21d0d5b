package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/pkg/logging"
)

// handleNormalKey resolves a key against the full keymap. The
// dispatcher flattens groups in precedence order, so a collision
// already resolved to the earlier group's command.
func handleNormalKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	b, ok := m.Dispatch.Normal(msg.String())
	if !ok {
		return nil
	}
	return runBinding(m, b)
}

// runBinding executes a resolved binding. Destructive commands detour
// through the confirm dialog; pane-scoped commands go to the focused
// pane only.
func runBinding(m *model.Model, b model.Binding) tea.Cmd {
	if m.Dispatch.NeedsConfirm(b.Command) {
		return openConfirm(m, b.Command)
	}
	if cmd, ok := model.PaneCommandFor(b.Command); ok {
		return forwardPaneCommand(m, cmd)
	}
	return executeCommand(m, b.Command)
}

// forwardPaneCommand delivers a pane-scoped command to the focused
// pane. Select on a resource row and Back on a derived view are
// app-level concerns and are intercepted here.
func forwardPaneCommand(m *model.Model, cmd model.Command) tea.Cmd {
	p := m.FocusedPane()
	if p == nil {
		return nil
	}
	switch cmd {
	case model.Select:
		if lp, ok := p.(*panes.ResourceListPane); ok {
			name, ns, ok := lp.SelectedObject()
			if !ok {
				return nil
			}
			return openDescribe(m, lp.Kind(), ns, name)
		}
	case model.Back:
		switch p.ViewType().Kind {
		case pane.ViewDetail, pane.ViewYAML:
			return closeFocusedPane(m)
		}
	}
	return p.Handle(cmd)
}

// openConfirm builds the confirmation for quit or a mutation on the
// selected resource. Mutations without a selected row are dropped.
func openConfirm(m *model.Model, command string) tea.Cmd {
	if command == model.CmdQuit {
		return requestQuit(m)
	}
	lp, ok := m.FocusedPane().(*panes.ResourceListPane)
	if !ok {
		return nil
	}
	name, ns, ok := lp.SelectedObject()
	if !ok {
		return nil
	}
	ref := model.ResourceRef{Kind: lp.Kind(), Namespace: ns, Name: name}
	if command == model.CmdDelete && !m.Config.General.ConfirmDelete {
		return executeConfirmed(m, &model.ConfirmDialog{Command: command, Ref: ref})
	}
	var message string
	switch command {
	case model.CmdDelete:
		message = fmt.Sprintf("Delete %s %q?", ref.Kind.DisplayName(), name)
	case model.CmdScale:
		message = fmt.Sprintf("Scale %s %q?", ref.Kind.DisplayName(), name)
	case model.CmdRestartRollout:
		message = fmt.Sprintf("Restart rollout of %s %q?", ref.Kind.DisplayName(), name)
	default:
		message = fmt.Sprintf("Run %s on %q?", command, name)
	}
	m.Confirm = &model.ConfirmDialog{Message: message, Command: command, Ref: ref}
	m.Mode = model.ModeConfirm
	return nil
}

// executeConfirmed dispatches the command a confirm dialog held once
// the user accepted it.
func executeConfirmed(m *model.Model, d *model.ConfirmDialog) tea.Cmd {
	switch d.Command {
	case model.CmdQuit:
		return performQuit(m)
	case model.CmdDelete:
		logging.Info("resource", "Deleting %s %s/%s", d.Ref.Kind, d.Ref.Namespace, d.Ref.Name)
		return tea.Batch(
			deleteResourceCmd(m.Client, d.Ref.Kind, d.Ref.Namespace, d.Ref.Name),
			toastCmd(m, fmt.Sprintf("Deleting %s...", d.Ref.Name), model.StatusBarInfo),
		)
	case model.CmdScale:
		m.Prompt = &model.TextPrompt{
			Title:   fmt.Sprintf("Replicas for %s", d.Ref.Name),
			Command: model.CmdScale,
			Ref:     d.Ref,
		}
		m.Mode = model.ModePrompt
		return nil
	case model.CmdRestartRollout:
		logging.Info("resource", "Restarting rollout of %s %s/%s", d.Ref.Kind, d.Ref.Namespace, d.Ref.Name)
		return restartRolloutCmd(m.Client, d.Ref.Kind, d.Ref.Namespace, d.Ref.Name)
	default:
		return executeCommand(m, d.Command)
	}
}

// executeCommand runs an app-level command. Pane-scoped and
// confirm-gated commands never reach here.
func executeCommand(m *model.Model, command string) tea.Cmd {
	switch command {
	// ---- global ----
	case model.CmdHelp:
		toggleHelp(m)
		return nil
	case model.CmdAppLogs:
		toggleUtilityTab(m, "logs", func(pane.ID) model.Pane { return panes.NewAppLogs() })
		return nil
	case model.CmdPortForwards:
		toggleUtilityTab(m, "forwards", func(pane.ID) model.Pane { return panes.NewPortForwards(m.Forwards) })
		return nil
	case model.CmdEnterInsert:
		if m.SupportsInsert() {
			m.Mode = model.ModeInsert
		}
		return nil
	case model.CmdLeaveInsert:
		return nil
	case model.CmdNamespaceSelector:
		m.Picker = model.NewSelector("Namespace", m.Namespaces)
		m.Mode = model.ModeNamespaceSelector
		return tea.Batch(loadNamespacesCmd(m.Client), textinput.Blink)
	case model.CmdContextSelector:
		m.Picker = model.NewSelector("Context", m.Contexts)
		m.Mode = model.ModeContextSelector
		return tea.Batch(loadContextsCmd(m.Kubeconfig), textinput.Blink)

	// ---- interact ----
	case model.CmdExec:
		ns, pod, ok := selectedPod(m)
		if !ok {
			return nil
		}
		return openExec(m, ns, pod)
	case model.CmdViewLogs:
		ns, pod, ok := selectedPod(m)
		if !ok {
			return nil
		}
		return openLogs(m, ns, pod)
	case model.CmdOpenQuery:
		ns, pod, ok := selectedPod(m)
		if !ok {
			return nil
		}
		return tea.Batch(
			detectQueryCmd(m.Client, ns, pod),
			toastCmd(m, "Detecting database settings...", model.StatusBarInfo),
		)
	case model.CmdPortForward:
		if !m.Config.Features.PortForward {
			return nil
		}
		ns, pod, ok := selectedPod(m)
		if !ok {
			return nil
		}
		if f, ok := m.Forwards.ByPod(ns, pod); ok {
			f.Stop()
			m.Forwards.Remove(f.ID)
			return toastCmd(m, fmt.Sprintf("Stopped forward to %s/%s", ns, pod), model.StatusBarInfo)
		}
		return detectForwardPortCmd(m.Client, ns, pod)

	// ---- browse ----
	case model.CmdViewYAML:
		ref, ok := selectedRef(m)
		if !ok {
			return nil
		}
		return openYAML(m, ref.Kind, ref.Namespace, ref.Name)
	case model.CmdViewDescribe:
		ref, ok := selectedRef(m)
		if !ok {
			return nil
		}
		return openDescribe(m, ref.Kind, ref.Namespace, ref.Name)
	case model.CmdFilter:
		openFilter(m)
		return nil
	case model.CmdResourceSwitcher:
		if !m.Config.Features.CommandPalette {
			return nil
		}
		m.Switcher = &model.ResourceSwitcher{}
		m.Mode = model.ModeResourceSwitcher
		return nil
	case model.CmdToggleAllNamespaces:
		lp, ok := m.FocusedPane().(*panes.ResourceListPane)
		if !ok || !lp.Kind().Namespaced() {
			return nil
		}
		lp.ToggleAllNamespaces()
		rebindWatcher(m, m.FocusedID())
		return nil
	case model.CmdSaveLogs:
		return savePaneContent(m)
	case model.CmdDownloadLogs:
		lp, ok := m.FocusedPane().(*panes.LogsPane)
		if !ok {
			return nil
		}
		return downloadLogsCmd(m.Client, m.ConfigDir, lp.Namespace(), lp.Pod(), lp.Container())

	// ---- tui ----
	case model.CmdSplitVertical:
		splitFocused(m, pane.Vertical)
		return nil
	case model.CmdSplitHorizontal:
		splitFocused(m, pane.Horizontal)
		return nil
	case model.CmdClosePane:
		return closeFocusedPane(m)
	case model.CmdToggleFullscreen:
		toggleFullscreen(m)
		return nil
	case model.CmdFocusUp:
		focusDirection(m, pane.DirUp)
		return nil
	case model.CmdFocusDown:
		focusDirection(m, pane.DirDown)
		return nil
	case model.CmdFocusLeft:
		focusDirection(m, pane.DirLeft)
		return nil
	case model.CmdFocusRight:
		focusDirection(m, pane.DirRight)
		return nil
	case model.CmdFocusNext:
		focusCycle(m, 1)
		return nil
	case model.CmdFocusPrev:
		focusCycle(m, -1)
		return nil
	case model.CmdResizeGrow:
		resizeFocused(m, true)
		return nil
	case model.CmdResizeShrink:
		resizeFocused(m, false)
		return nil
	case model.CmdNewTab:
		newTab(m)
		return nil
	case model.CmdCloseTab:
		return closeActiveTab(m)
	case model.CmdOpenTerminal:
		return openTerminal(m)
	}

	if i, ok := strings.CutPrefix(command, "goto_tab_"); ok {
		if n, err := strconv.Atoi(i); err == nil && n >= 1 {
			switchTab(m, n-1)
		}
		return nil
	}
	return nil
}

// selectedPod returns the highlighted pod when the focused pane lists
// pods.
func selectedPod(m *model.Model) (namespace, pod string, ok bool) {
	lp, isList := m.FocusedPane().(*panes.ResourceListPane)
	if !isList || lp.Kind() != kube.KindPods {
		return "", "", false
	}
	name, ns, ok := lp.SelectedObject()
	if !ok {
		return "", "", false
	}
	if ns == "" {
		ns = m.Namespace
	}
	return ns, name, true
}

// selectedRef returns the highlighted resource of the focused list
// pane.
func selectedRef(m *model.Model) (model.ResourceRef, bool) {
	lp, ok := m.FocusedPane().(*panes.ResourceListPane)
	if !ok {
		return model.ResourceRef{}, false
	}
	name, ns, ok := lp.SelectedObject()
	if !ok {
		return model.ResourceRef{}, false
	}
	if ns == "" && lp.Kind().Namespaced() {
		ns = m.Namespace
	}
	return model.ResourceRef{Kind: lp.Kind(), Namespace: ns, Name: name}, true
}

// openFilter enters filter mode seeded with the pane's current filter.
func openFilter(m *model.Model) {
	switch p := m.FocusedPane().(type) {
	case *panes.ResourceListPane:
		m.FilterBuffer = p.FilterText()
	case *panes.LogsPane:
		m.FilterBuffer = p.FilterText()
	default:
		return
	}
	m.Mode = model.ModeFilter
}

// applyFilter pushes the live filter text into the focused pane.
func applyFilter(m *model.Model, text string) {
	switch p := m.FocusedPane().(type) {
	case *panes.ResourceListPane:
		p.SetFilter(text)
	case *panes.LogsPane:
		p.SetFilter(text)
	}
}

// savePaneContent writes what the focused pane shows to a file under
// the config directory.
func savePaneContent(m *model.Model) tea.Cmd {
	switch p := m.FocusedPane().(type) {
	case *panes.LogsPane:
		return saveLogsCmd(m.ConfigDir, p.Pod(), p.FilteredLines())
	case *panes.TextPane:
		vt := p.ViewType()
		return saveLogsCmd(m.ConfigDir, vt.Name, []string{p.Content()})
	default:
		return nil
	}
}
