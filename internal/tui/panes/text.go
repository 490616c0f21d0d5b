package panes

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// TextPane shows a static document, either an object manifest or a
// describe report. Content arrives asynchronously after the pane is
// split off, so it opens in a loading state.
type TextPane struct {
	viewType pane.ViewType
	lines    []string
	loading  bool
	errMsg   string

	offset  int // first visible display line
	hOffset int // horizontal cells skipped when not wrapping
	wrap    bool

	lastPage int
}

func NewText(vt pane.ViewType) *TextPane {
	return &TextPane{viewType: vt, loading: true, lastPage: 10}
}

func (p *TextPane) ViewType() pane.ViewType { return p.viewType }

func (p *TextPane) OnFocusChange(pane.ViewType) {}

// SetContent replaces the document and scrolls back to the top.
func (p *TextPane) SetContent(body string) {
	p.lines = strings.Split(strings.TrimRight(body, "\n"), "\n")
	p.loading = false
	p.errMsg = ""
	p.offset = 0
	p.hOffset = 0
}

func (p *TextPane) SetError(msg string) {
	p.loading = false
	p.errMsg = msg
}

// Content returns the full document, used for saving to a file.
func (p *TextPane) Content() string {
	return strings.Join(p.lines, "\n")
}

func (p *TextPane) Handle(cmd model.Command) tea.Cmd {
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
	case model.ScrollLeft:
		if !p.wrap {
			p.hOffset = max(0, p.hOffset-4)
		}
	case model.ScrollRight:
		if !p.wrap {
			p.hOffset += 4
		}
	case model.ToggleWrap:
		p.wrap = !p.wrap
		p.hOffset = 0
	case model.CopyContent:
		if len(p.lines) == 0 {
			return nil
		}
		if err := clipboard.WriteAll(p.Content()); err != nil {
			return toast("Clipboard: "+err.Error(), model.StatusBarError)
		}
		return toast("Copied "+p.viewType.Title(), model.StatusBarSuccess)
	}
	if p.offset < 0 {
		p.offset = 0
	}
	return nil
}

func (p *TextPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *TextPane) Close() {}

func (p *TextPane) View(width, height int, focused bool) string {
	title := " " + p.viewType.Title() + " "
	innerW, innerH := width-2, height-2
	if innerW < 1 || innerH < 1 {
		return frame(width, height, focused, title, "", "")
	}

	switch {
	case p.loading:
		return frame(width, height, focused, title, "", design.TextDimStyle.Render("Loading..."))
	case p.errMsg != "":
		return frame(width, height, focused, title, "", design.TextErrorStyle.Render("Error: "+p.errMsg))
	}

	display := p.lines
	if p.wrap {
		display = nil
		for _, line := range p.lines {
			wrapped := strings.Split(ansi.Hardwrap(line, innerW, false), "\n")
			display = append(display, wrapped...)
		}
	}

	p.lastPage = innerH
	maxOffset := max(0, len(display)-innerH)
	if p.offset > maxOffset {
		p.offset = maxOffset
	}

	end := min(len(display), p.offset+innerH)
	rows := make([]string, 0, innerH)
	for _, line := range display[p.offset:end] {
		if p.hOffset > 0 {
			line = ansi.Cut(line, p.hOffset, p.hOffset+innerW)
		}
		rows = append(rows, line)
	}

	extra := ""
	if len(display) > 0 {
		extra = fmt.Sprintf(" %d/%d ", end, len(display))
	}
	return frame(width, height, focused, title, extra, strings.Join(rows, "\n"))
}
