package panes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// HelpPane lists every bindable command with its current key. The
// sheet is context sensitive: the command groups most relevant to the
// previously focused view are moved to the top.
type HelpPane struct {
	vt     pane.ViewType
	keyFor func(command string) string
	lines  []string

	offset   int
	lastPage int
}

// NewHelp builds the help table. keyFor resolves a command name to its
// bound key, empty when unbound.
func NewHelp(keyFor func(command string) string) *HelpPane {
	p := &HelpPane{vt: pane.HelpView(), keyFor: keyFor, lastPage: 10}
	p.rebuild(nil)
	return p
}

// leadGroupsFor maps a view kind to the command groups its users reach
// for first.
func leadGroupsFor(prev pane.ViewType) []string {
	switch prev.Kind {
	case pane.ViewResourceList:
		return []string{"browse", "mutate", "interact"}
	case pane.ViewLogs:
		return []string{"browse", "navigation"}
	case pane.ViewTerminal, pane.ViewExec:
		return []string{"global", "tui"}
	case pane.ViewQuery:
		return []string{"navigation", "browse"}
	case pane.ViewDetail, pane.ViewYAML:
		return []string{"navigation", "browse"}
	default:
		return nil
	}
}

func (p *HelpPane) rebuild(lead []string) {
	infos := model.Commands()

	order := make([]string, 0, 8)
	seen := map[string]bool{}
	for _, g := range lead {
		order = append(order, g)
		seen[g] = true
	}
	for _, info := range infos {
		if !seen[info.Group] {
			order = append(order, info.Group)
			seen[info.Group] = true
		}
	}

	var lines []string
	for i, group := range order {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, design.AccentStyle.Render(strings.ToUpper(group)))
		for _, info := range infos {
			if info.Group != group {
				continue
			}
			key := p.keyFor(info.Name)
			if key == "" {
				key = "-"
			}
			lines = append(lines, fmt.Sprintf("  %-14s %s", key, info.Description))
		}
	}
	p.lines = lines
}

func (p *HelpPane) ViewType() pane.ViewType { return p.vt }

// OnFocusChange reorders the sheet so the groups that apply to the view
// the user came from appear first.
func (p *HelpPane) OnFocusChange(prev pane.ViewType) {
	p.rebuild(leadGroupsFor(prev))
	p.offset = 0
}

func (p *HelpPane) Handle(cmd model.Command) tea.Cmd {
	switch cmd {
	case model.ScrollUp:
		p.offset--
	case model.ScrollDown:
		p.offset++
	case model.PageUp:
		p.offset -= p.lastPage
	case model.PageDown:
		p.offset += p.lastPage
	case model.GoToTop:
		p.offset = 0
	case model.GoToBottom:
		p.offset = 1 << 30
	}
	if p.offset < 0 {
		p.offset = 0
	}
	return nil
}

func (p *HelpPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *HelpPane) Close() {}

func (p *HelpPane) View(width, height int, focused bool) string {
	innerH := height - 2
	if innerH < 1 {
		return frame(width, height, focused, " Help ", "", "")
	}
	p.lastPage = innerH

	maxOffset := max(0, len(p.lines)-innerH)
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
	end := min(len(p.lines), p.offset+innerH)
	body := strings.Join(p.lines[p.offset:end], "\n")

	extra := fmt.Sprintf(" %d/%d ", end, len(p.lines))
	return frame(width, height, focused, " Help ", extra, body)
}
