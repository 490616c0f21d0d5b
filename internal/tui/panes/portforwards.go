package panes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// PortForwardsPane lists the active port-forward tunnels. Select stops
// the highlighted forward; the list refreshes on every tick.
type PortForwardsPane struct {
	vt       pane.ViewType
	registry *kube.ForwardRegistry
	selected int
}

func NewPortForwards(registry *kube.ForwardRegistry) *PortForwardsPane {
	return &PortForwardsPane{vt: pane.PortForwardsView(), registry: registry}
}

func (p *PortForwardsPane) ViewType() pane.ViewType { return p.vt }

func (p *PortForwardsPane) OnFocusChange(pane.ViewType) {}

func (p *PortForwardsPane) Handle(cmd model.Command) tea.Cmd {
	forwards := p.registry.List()
	switch cmd {
	case model.SelectPrev, model.ScrollUp:
		p.selected--
	case model.SelectNext, model.ScrollDown:
		p.selected++
	case model.GoToTop:
		p.selected = 0
	case model.GoToBottom:
		p.selected = len(forwards) - 1
	case model.Select:
		if p.selected >= 0 && p.selected < len(forwards) {
			f := forwards[p.selected]
			if err := p.registry.Stop(f.ID); err != nil {
				return toast("Forward: "+err.Error(), model.StatusBarError)
			}
			return func() tea.Msg {
				return model.ForwardStoppedMsg{ID: f.ID, Target: fmt.Sprintf("%s/%s", f.Namespace, f.Pod)}
			}
		}
	}
	p.clamp(len(forwards))
	return nil
}

func (p *PortForwardsPane) clamp(n int) {
	if p.selected >= n {
		p.selected = n - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *PortForwardsPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *PortForwardsPane) Close() {}

func (p *PortForwardsPane) View(width, height int, focused bool) string {
	innerW, innerH := width-2, height-2
	forwards := p.registry.List()
	p.clamp(len(forwards))

	if len(forwards) == 0 {
		body := centerLines(innerW, innerH, design.TextDimStyle.Render("no active port-forwards"))
		return frame(width, height, focused, " Port Forwards ", "", body)
	}

	header := fmt.Sprintf("%-28s %-22s %-8s %s", "TARGET", "LOCAL -> REMOTE", "AGE", "STATUS")
	lines := []string{design.TableHeaderStyle.Render(clipLine(header, innerW))}
	for i, f := range forwards {
		status := design.TextSuccessStyle.Render("active")
		if err := f.Err(); err != nil {
			status = design.TextErrorStyle.Render("broken")
		}
		row := fmt.Sprintf("%-28s %-22s %-8s %s",
			clipLine(f.Namespace+"/"+f.Pod, 28),
			fmt.Sprintf("127.0.0.1:%d -> %d", f.LocalPort, f.RemotePort),
			kube.FormatAge(f.Age()),
			status)
		if i == p.selected && focused {
			row = design.SelectionStyle.Render(clipLine(row, innerW))
		}
		lines = append(lines, row)
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	extra := fmt.Sprintf(" %d active ", len(forwards))
	return frame(width, height, focused, " Port Forwards ", extra, strings.Join(lines, "\n"))
}
