package panes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// EmptyPane is the placeholder shown in a freshly split pane before any
// view is bound to it.
type EmptyPane struct {
	vt   pane.ViewType
	hint string
}

// NewEmpty builds the placeholder. keyFor resolves a command name to
// its bound key for the hint line.
func NewEmpty(keyFor func(command string) string) *EmptyPane {
	hint := fmt.Sprintf("%s resource  %s terminal  %s help",
		hintKey(keyFor, model.CmdResourceSwitcher),
		hintKey(keyFor, model.CmdOpenTerminal),
		hintKey(keyFor, model.CmdHelp))
	return &EmptyPane{vt: pane.EmptyView(), hint: hint}
}

func hintKey(keyFor func(string) string, command string) string {
	if k := keyFor(command); k != "" {
		return k
	}
	return "-"
}

func (p *EmptyPane) ViewType() pane.ViewType { return p.vt }
func (p *EmptyPane) OnFocusChange(pane.ViewType) {}
func (p *EmptyPane) Handle(model.Command) tea.Cmd { return nil }
func (p *EmptyPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }
func (p *EmptyPane) Close() {}

func (p *EmptyPane) View(width, height int, focused bool) string {
	body := centerLines(width-2, height-2,
		design.TextDimStyle.Render("no view bound"),
		"",
		design.TextDimStyle.Render(p.hint))
	return frame(width, height, focused, " Empty ", "", body)
}

// PluginPane is a named placeholder reserved for external pane
// implementations.
type PluginPane struct {
	vt pane.ViewType
}

func NewPlugin(name string) *PluginPane {
	return &PluginPane{vt: pane.PluginView(name)}
}

func (p *PluginPane) ViewType() pane.ViewType { return p.vt }
func (p *PluginPane) OnFocusChange(pane.ViewType) {}
func (p *PluginPane) Handle(model.Command) tea.Cmd { return nil }
func (p *PluginPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }
func (p *PluginPane) Close() {}

func (p *PluginPane) View(width, height int, focused bool) string {
	body := centerLines(width-2, height-2,
		design.TextDimStyle.Render(fmt.Sprintf("plugin %q is not loaded", p.vt.Name)))
	return frame(width, height, focused, " "+p.vt.Title()+" ", "", body)
}
