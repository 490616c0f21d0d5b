package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/panes"
)

// renderStatusBar draws the bottom line: mode badge, cluster scope,
// then either the transient message, the live filter, or key hints.
func renderStatusBar(m *model.Model) string {
	badgeStyle := design.ModeBadgeStyle
	if m.Mode == model.ModeInsert {
		badgeStyle = design.ModeBadgeInsertStyle
	}
	badge := badgeStyle.Render(strings.ToUpper(m.Mode.Name()))
	scope := design.TextDimStyle.Render(" " + m.ContextName + "/" + scopeNamespace(m) + " ")

	var middle string
	switch {
	case m.Mode == model.ModeFilter:
		middle = design.TextStyle.Render("/" + m.FilterBuffer + "█")
	case m.StatusBarMessage != "":
		middle = messageStyle(m.StatusBarMessageType).Render(m.StatusBarMessage)
	default:
		middle = design.OverlayHintStyle.Render(hints(m))
	}

	bar := badge + scope + middle
	if w := ansi.StringWidth(bar); w < m.Width {
		bar += strings.Repeat(" ", m.Width-w)
	}
	return ansi.Truncate(bar, m.Width, "")
}

// scopeNamespace is the namespace part of the scope indicator. Lists
// spanning all namespaces and cluster-scoped kinds override the tab's
// namespace.
func scopeNamespace(m *model.Model) string {
	if lp, ok := m.FocusedPane().(*panes.ResourceListPane); ok {
		if !lp.Kind().Namespaced() {
			return "cluster"
		}
		if lp.AllNamespaces() {
			return "all"
		}
	}
	if m.Namespace == "" {
		return "default"
	}
	return m.Namespace
}

func messageStyle(t model.MessageType) lipgloss.Style {
	switch t {
	case model.StatusBarSuccess:
		return design.TextSuccessStyle
	case model.StatusBarError:
		return design.TextErrorStyle
	case model.StatusBarWarning:
		return design.TextWarningStyle
	default:
		return design.TextInfoStyle
	}
}

// hints picks a short key reminder for the current mode and focus.
func hints(m *model.Model) string {
	d := m.Dispatch
	switch m.Mode {
	case model.ModeInsert:
		return hint(d.KeyFor(model.CmdLeaveInsert), "leave insert")
	case model.ModeConfirm:
		return "y confirm · n cancel"
	case model.ModePrompt, model.ModePortForwardDialog, model.ModeQueryDialog:
		return "enter apply · esc cancel"
	case model.ModeNamespaceSelector, model.ModeContextSelector, model.ModeResourceSwitcher:
		return "type to filter · enter select · esc cancel"
	case model.ModeQueryEditor:
		return "alt+enter run · tab complete · esc browse"
	case model.ModeQueryBrowse:
		return "i edit · ctrl+h history · o saved · hjkl move · y copy row"
	case model.ModeQueryHistory, model.ModeSavedQueries:
		return "enter pick · esc back"
	}

	switch m.FocusedPane().(type) {
	case *panes.ResourceListPane:
		return joinHints(
			hint("enter", "describe"),
			hint(d.KeyFor(model.CmdViewYAML), "yaml"),
			hint(d.KeyFor(model.CmdViewLogs), "logs"),
			hint(d.KeyFor(model.CmdFilter), "filter"),
			hint(d.KeyFor(model.CmdResourceSwitcher), "kinds"),
			hint(d.KeyFor(model.CmdHelp), "help"),
		)
	case *panes.LogsPane:
		return joinHints(
			hint(d.KeyFor(model.CmdToggleFollow), "follow"),
			hint(d.KeyFor(model.CmdToggleWrap), "wrap"),
			hint(d.KeyFor(model.CmdFilter), "filter"),
			hint(d.KeyFor(model.CmdSaveLogs), "save"),
		)
	case *panes.TerminalPane, *panes.ExecPane:
		return joinHints(
			hint(d.KeyFor(model.CmdEnterInsert), "insert"),
			hint(d.KeyFor(model.CmdClosePane), "close"),
		)
	}
	return joinHints(
		hint(d.KeyFor(model.CmdSplitVertical), "split"),
		hint(d.KeyFor(model.CmdResourceSwitcher), "kinds"),
		hint(d.KeyFor(model.CmdHelp), "help"),
	)
}

func hint(key, label string) string {
	if key == "" {
		return ""
	}
	return key + " " + label
}

func joinHints(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
