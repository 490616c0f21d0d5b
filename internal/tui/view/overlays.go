package view

import (
	"fmt"
	"strings"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
)

const selectorRows = 12

// renderOverlay draws the dialog for the current mode, or "" when no
// overlay is open. Pane-owned modes (insert, filter, query) have no
// centered dialog.
func renderOverlay(m *model.Model) string {
	switch m.Mode {
	case model.ModeNamespaceSelector, model.ModeContextSelector:
		return renderSelector(m.Picker)
	case model.ModeResourceSwitcher:
		return renderSwitcher(m.Switcher)
	case model.ModeConfirm:
		return renderConfirm(m.Confirm)
	case model.ModePrompt:
		return renderPrompt(m.Prompt)
	case model.ModePortForwardDialog:
		return renderForwardDialog(m.ForwardDialog)
	case model.ModeQueryDialog:
		return renderQueryDialog(m.QueryDialog)
	}
	return ""
}

func renderSelector(s *model.Selector) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(s.Input.View())

	items := s.Filtered()
	start := 0
	if s.Selected >= selectorRows {
		start = s.Selected - selectorRows + 1
	}
	end := min(start+selectorRows, len(items))
	for i := start; i < end; i++ {
		b.WriteString("\n")
		if i == s.Selected {
			b.WriteString(design.SelectionStyle.Render("> " + items[i]))
		} else {
			b.WriteString("  " + items[i])
		}
	}
	if len(items) == 0 {
		b.WriteString("\n")
		b.WriteString(design.TextDimStyle.Render("  no matches"))
	}
	b.WriteString("\n\n")
	b.WriteString(design.OverlayHintStyle.Render("enter select · esc cancel"))
	return design.OverlayStyle.Width(44).Render(b.String())
}

func renderSwitcher(r *model.ResourceSwitcher) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render("Resource"))
	b.WriteString("\n")
	b.WriteString(":" + r.Input + "█")

	kinds := r.Filtered()
	start := 0
	if r.Selected >= selectorRows {
		start = r.Selected - selectorRows + 1
	}
	end := min(start+selectorRows, len(kinds))
	for i := start; i < end; i++ {
		k := kinds[i]
		line := fmt.Sprintf("%-8s %s", k.ShortName(), k.DisplayName())
		b.WriteString("\n")
		if i == r.Selected {
			b.WriteString(design.SelectionStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
	}
	if len(kinds) == 0 {
		b.WriteString("\n")
		b.WriteString(design.TextDimStyle.Render("  no matches"))
	}
	b.WriteString("\n\n")
	b.WriteString(design.OverlayHintStyle.Render("enter bind · esc cancel"))
	return design.OverlayStyle.Width(44).Render(b.String())
}

func renderConfirm(d *model.ConfirmDialog) string {
	if d == nil {
		return ""
	}
	body := design.OverlayTitleStyle.Render("Confirm") + "\n\n" +
		d.Message + "\n\n" +
		design.OverlayHintStyle.Render("y/enter confirm · n/esc cancel")
	return design.OverlayStyle.Render(body)
}

func renderPrompt(p *model.TextPrompt) string {
	if p == nil {
		return ""
	}
	body := design.OverlayTitleStyle.Render(p.Title) + "\n\n" +
		"> " + p.Input + "█\n\n" +
		design.OverlayHintStyle.Render("enter apply · esc cancel")
	return design.OverlayStyle.Width(36).Render(body)
}

func renderForwardDialog(d *model.PortForwardDialog) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render("Port forward"))
	b.WriteString("\n")
	b.WriteString(design.TextDimStyle.Render(d.Namespace + "/" + d.Pod))
	b.WriteString("\n\n")
	b.WriteString(dialogField("Local port", d.Local, d.ActiveField == model.FieldLocal))
	b.WriteString("\n")
	b.WriteString(dialogField("Remote port", d.Remote, d.ActiveField == model.FieldRemote))
	b.WriteString("\n\n")
	b.WriteString(design.OverlayHintStyle.Render("tab switch · enter start · esc cancel"))
	return design.OverlayStyle.Width(40).Render(b.String())
}

func renderQueryDialog(d *model.QueryDialog) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render("Connect"))
	b.WriteString("\n")
	b.WriteString(design.TextDimStyle.Render(d.Namespace + "/" + d.Pod))
	b.WriteString("\n\n")
	b.WriteString(dialogField("Database", d.Database, d.ActiveField == model.FieldDatabase))
	b.WriteString("\n")
	b.WriteString(dialogField("User", d.User, d.ActiveField == model.FieldUser))
	b.WriteString("\n")
	b.WriteString(dialogField("Password", strings.Repeat("•", len(d.Password)), d.ActiveField == model.FieldPassword))
	b.WriteString("\n")
	b.WriteString(dialogField("Port", d.Port, d.ActiveField == model.FieldPort))
	b.WriteString("\n\n")
	b.WriteString(design.OverlayHintStyle.Render("tab next · enter connect · esc cancel"))
	return design.OverlayStyle.Width(44).Render(b.String())
}

func dialogField(label, value string, active bool) string {
	line := fmt.Sprintf("%-12s %s", label+":", value)
	if active {
		return design.SelectionStyle.Render(line + "█")
	}
	return line
}
