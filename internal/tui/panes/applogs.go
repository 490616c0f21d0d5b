package panes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
	"github.com/gitavk/ktile/pkg/logging"
)

// appLogCap bounds how many entries the pane retains.
const appLogCap = 2048

// AppLogsPane shows the application's own log ring inside a viewport.
// New entries arrive as messages from the logging subscription; follow
// keeps the view pinned to the newest entry.
type AppLogsPane struct {
	vt      pane.ViewType
	entries []logging.LogEntry
	vp      viewport.Model
	follow  bool

	lastW, lastH int
	dirty        bool
}

// NewAppLogs seeds the pane with the entries already in the ring.
func NewAppLogs() *AppLogsPane {
	return &AppLogsPane{
		vt:      pane.AppLogsView(),
		entries: logging.Recent(),
		vp:      viewport.New(0, 0),
		follow:  true,
		dirty:   true,
	}
}

func (p *AppLogsPane) ViewType() pane.ViewType { return p.vt }

func (p *AppLogsPane) OnFocusChange(pane.ViewType) {}

// Append records one new entry.
func (p *AppLogsPane) Append(e logging.LogEntry) {
	p.entries = append(p.entries, e)
	if len(p.entries) > appLogCap {
		p.entries = p.entries[len(p.entries)-appLogCap:]
	}
	p.dirty = true
}

func (p *AppLogsPane) Handle(cmd model.Command) tea.Cmd {
	switch cmd {
	case model.ScrollUp, model.SelectPrev:
		p.vp.LineUp(1)
		p.follow = false
	case model.ScrollDown, model.SelectNext:
		p.vp.LineDown(1)
		p.follow = p.vp.AtBottom()
	case model.PageUp:
		p.vp.ViewUp()
		p.follow = false
	case model.PageDown:
		p.vp.ViewDown()
		p.follow = p.vp.AtBottom()
	case model.GoToTop:
		p.vp.GotoTop()
		p.follow = false
	case model.GoToBottom:
		p.vp.GotoBottom()
		p.follow = true
	case model.ToggleFollow:
		p.follow = !p.follow
		if p.follow {
			p.vp.GotoBottom()
		}
	}
	return nil
}

func (p *AppLogsPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *AppLogsPane) Close() {}

func levelStyle(l logging.LogLevel) lipgloss.Style {
	switch l {
	case logging.LevelError:
		return design.TextErrorStyle
	case logging.LevelWarn:
		return design.TextWarningStyle
	case logging.LevelDebug:
		return design.TextDimStyle
	default:
		return design.TextInfoStyle
	}
}

func (p *AppLogsPane) renderEntries(w int) string {
	var b strings.Builder
	for i, e := range p.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		msg := e.Message
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		line := fmt.Sprintf("%s %s %-10s %s",
			design.TextDimStyle.Render(e.Timestamp.Format("15:04:05")),
			levelStyle(e.Level).Render(fmt.Sprintf("%-5s", e.Level.String())),
			e.Subsystem,
			msg)
		b.WriteString(clipLine(line, w))
	}
	return b.String()
}

func (p *AppLogsPane) View(width, height int, focused bool) string {
	innerW, innerH := width-2, height-2
	if innerW < 1 || innerH < 1 {
		return frame(width, height, focused, " App Logs ", "", "")
	}

	if innerW != p.lastW || innerH != p.lastH {
		p.vp.Width = innerW
		p.vp.Height = innerH
		p.lastW, p.lastH = innerW, innerH
		p.dirty = true
	}
	if p.dirty {
		p.vp.SetContent(p.renderEntries(innerW))
		if p.follow {
			p.vp.GotoBottom()
		}
		p.dirty = false
	}

	extra := fmt.Sprintf(" %d entries ", len(p.entries))
	if p.follow {
		extra = " following " + extra
	}
	return frame(width, height, focused, " App Logs ", extra, p.vp.View())
}
