package controller

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/panes"
	"github.com/gitavk/ktile/pkg/logging"
)

// handleKey routes a key event by input mode.
func handleKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch m.Mode {
	case model.ModeInsert:
		return handleInsertKey(m, msg)
	case model.ModeFilter:
		return handleFilterKey(m, msg)
	case model.ModeNamespaceSelector, model.ModeContextSelector:
		return handleSelectorKey(m, msg)
	case model.ModeResourceSwitcher:
		return handleSwitcherKey(m, msg)
	case model.ModeConfirm:
		return handleConfirmKey(m, msg)
	case model.ModePrompt:
		return handlePromptKey(m, msg)
	case model.ModePortForwardDialog:
		return handleForwardDialogKey(m, msg)
	case model.ModeQueryDialog:
		return handleQueryDialogKey(m, msg)
	case model.ModeQueryEditor, model.ModeQueryBrowse, model.ModeQueryHistory, model.ModeSavedQueries:
		return handleQueryKey(m, msg)
	default:
		return handleNormalKey(m, msg)
	}
}

// isTextKey reports whether a key event carries text for an input
// field rather than a chord.
func isTextKey(msg tea.KeyMsg) bool {
	return (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt
}

// keyText is the text an input field should receive for a key event.
func keyText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return " "
	}
	return string(msg.Runes)
}

// closeOverlays drops any open overlay and returns the mode to the
// focused pane's resting mode.
func closeOverlays(m *model.Model) {
	m.Confirm = nil
	m.Prompt = nil
	m.Picker = nil
	m.Switcher = nil
	m.ForwardDialog = nil
	m.QueryDialog = nil
	if qp, ok := m.FocusedPane().(*panes.QueryPane); ok {
		m.Mode = qp.Mode()
		return
	}
	m.Mode = model.ModeNormal
}

// modalFallback lets app chrome keep working inside overlays: a
// non-text key bound in the global or tui group closes the overlay and
// runs, so quitting or switching surfaces never requires backing out
// first.
func modalFallback(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	if isTextKey(msg) {
		return nil
	}
	b, ok := m.Dispatch.Normal(msg.String())
	if !ok || (b.Group != "global" && b.Group != "tui") {
		return nil
	}
	closeOverlays(m)
	return runBinding(m, b)
}

// handleInsertKey forwards everything to the focused pane except the
// dedicated leave-insert binding. Esc is not special here: remote
// editors need it, so only the configured chord leaves insert mode.
func handleInsertKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	if key := m.Dispatch.KeyFor(model.CmdLeaveInsert); key != "" && msg.String() == key {
		m.Mode = model.ModeNormal
		return nil
	}
	p := m.FocusedPane()
	if p == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	return p.HandleKey(msg)
}

// handleFilterKey edits the live filter. Enter keeps it, Esc clears it.
func handleFilterKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.FilterBuffer = ""
		applyFilter(m, "")
		m.Mode = model.ModeNormal
		return nil
	case "enter":
		m.Mode = model.ModeNormal
		return nil
	case "backspace":
		if m.FilterBuffer != "" {
			runes := []rune(m.FilterBuffer)
			m.FilterBuffer = string(runes[:len(runes)-1])
			applyFilter(m, m.FilterBuffer)
		}
		return nil
	}
	if isTextKey(msg) {
		m.FilterBuffer += keyText(msg)
		applyFilter(m, m.FilterBuffer)
		return nil
	}
	return modalFallback(m, msg)
}

// handleSelectorKey drives the namespace and context pickers.
func handleSelectorKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	s := m.Picker
	if s == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "esc":
		closeOverlays(m)
		return nil
	case "enter":
		choice, ok := s.Current()
		mode := m.Mode
		closeOverlays(m)
		if !ok {
			return nil
		}
		if mode == model.ModeNamespaceSelector {
			return chooseNamespace(m, choice)
		}
		return chooseContext(m, choice)
	case "up", "shift+tab":
		s.MoveUp()
		return nil
	case "down", "tab":
		s.MoveDown()
		return nil
	}
	if cmd := modalFallback(m, msg); cmd != nil {
		return cmd
	}
	return s.Update(msg)
}

// handleSwitcherKey drives the ":" resource-kind switcher.
func handleSwitcherKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	r := m.Switcher
	if r == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "esc":
		closeOverlays(m)
		return nil
	case "enter":
		kind, ok := r.Confirm()
		closeOverlays(m)
		if ok {
			bindList(m, kind)
		}
		return nil
	case "up", "shift+tab":
		r.MovePrev()
		return nil
	case "down", "tab":
		r.MoveNext()
		return nil
	case "backspace":
		r.Backspace()
		return nil
	}
	if isTextKey(msg) {
		r.Type(keyText(msg))
		return nil
	}
	return modalFallback(m, msg)
}

// handleConfirmKey resolves the yes/no gate.
func handleConfirmKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	d := m.Confirm
	if d == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		closeOverlays(m)
		return executeConfirmed(m, d)
	case "n", "N", "esc":
		closeOverlays(m)
		return nil
	}
	return modalFallback(m, msg)
}

// handlePromptKey edits the one-line numeric prompt.
func handlePromptKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	p := m.Prompt
	if p == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "esc":
		closeOverlays(m)
		return nil
	case "enter":
		return submitPrompt(m, p)
	case "backspace":
		p.Backspace()
		return nil
	}
	if msg.Type == tea.KeyRunes && !msg.Alt {
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				p.Type(string(r))
			}
		}
		return nil
	}
	return modalFallback(m, msg)
}

// submitPrompt dispatches the prompt's pending command.
func submitPrompt(m *model.Model, p *model.TextPrompt) tea.Cmd {
	switch p.Command {
	case model.CmdScale:
		replicas, err := strconv.Atoi(p.Input)
		if err != nil || replicas < 0 {
			return toastCmd(m, "Enter a replica count", model.StatusBarWarning)
		}
		closeOverlays(m)
		logging.Info("resource", "Scaling %s %s/%s to %d", p.Ref.Kind, p.Ref.Namespace, p.Ref.Name, replicas)
		return scaleResourceCmd(m.Client, p.Ref.Kind, p.Ref.Namespace, p.Ref.Name, replicas)
	}
	closeOverlays(m)
	return nil
}

// handleForwardDialogKey edits the port-forward dialog and starts the
// tunnel on enter.
func handleForwardDialogKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	d := m.ForwardDialog
	if d == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "esc":
		closeOverlays(m)
		return nil
	case "tab", "shift+tab", "up", "down":
		d.NextField()
		return nil
	case "backspace":
		d.Backspace()
		return nil
	case "enter":
		local := d.Local
		if local == "" {
			local = "0"
		}
		local64, errLocal := strconv.ParseUint(local, 10, 16)
		remote64, errRemote := strconv.ParseUint(d.Remote, 10, 16)
		if errLocal != nil || errRemote != nil || remote64 == 0 {
			return toastCmd(m, "Enter valid ports", model.StatusBarWarning)
		}
		namespace, pod := d.Namespace, d.Pod
		closeOverlays(m)
		return tea.Batch(
			startForwardCmd(m.Client, namespace, pod, uint16(local64), uint16(remote64)),
			toastCmd(m, fmt.Sprintf("Forwarding to %s/%s...", namespace, pod), model.StatusBarInfo),
		)
	}
	if msg.Type == tea.KeyRunes && !msg.Alt {
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				d.Type(string(r))
			}
		}
		return nil
	}
	return modalFallback(m, msg)
}

// handleQueryDialogKey reviews detected connection settings before the
// query pane opens.
func handleQueryDialogKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	d := m.QueryDialog
	if d == nil {
		m.Mode = model.ModeNormal
		return nil
	}
	switch msg.String() {
	case "esc":
		closeOverlays(m)
		return nil
	case "tab", "down":
		d.NextField()
		return nil
	case "backspace":
		d.Backspace()
		return nil
	case "enter":
		target := d.Target()
		closeOverlays(m)
		return openQueryPane(m, target)
	}
	if isTextKey(msg) {
		d.Type(keyText(msg))
		return nil
	}
	return modalFallback(m, msg)
}

// handleQueryKey lets the query pane own its keys. App chrome still
// works, except where the editor claims the key itself (tab completes,
// alt+enter executes).
func handleQueryKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	qp, ok := m.FocusedPane().(*panes.QueryPane)
	if !ok {
		m.Mode = model.ModeNormal
		return nil
	}
	key := msg.String()
	if key != "tab" && key != "alt+enter" && !isTextKey(msg) {
		if b, ok := m.Dispatch.Normal(key); ok && (b.Group == "global" || b.Group == "tui") {
			return runBinding(m, b)
		}
	}
	cmd := qp.HandleKey(msg)
	m.Mode = qp.Mode()
	return cmd
}

// chooseNamespace switches the active tab's namespace scope and
// rebinds every list pane in it.
func chooseNamespace(m *model.Model, namespace string) tea.Cmd {
	if namespace == m.Namespace {
		return nil
	}
	m.Namespace = namespace
	t := m.ActiveTab()
	m.SaveScopeToTab(t)
	rebindTabWatchers(m, t)
	logging.Info("scope", "Namespace switched to %q", namespace)
	return toastCmd(m, "Namespace: "+namespace, model.StatusBarInfo)
}

// chooseContext kicks off the client rebuild; the switch lands as a
// ContextSwitchedMsg.
func chooseContext(m *model.Model, name string) tea.Cmd {
	if name == m.ContextName {
		return nil
	}
	logging.Info("scope", "Switching context to %q", name)
	return tea.Batch(
		switchContextCmd(m.Client, name),
		toastCmd(m, "Switching to "+name+"...", model.StatusBarInfo),
	)
}
