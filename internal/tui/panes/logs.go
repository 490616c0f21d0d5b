package panes

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// LogsPane follows one container's log stream. Scrolling is anchored to
// the bottom: offset 0 means tailing, scrolling up pauses follow and
// scrolling back to the bottom resumes it.
type LogsPane struct {
	viewType  pane.ViewType
	namespace string
	pod       string
	container string

	stream *kube.LogStream
	lines  []string
	status string

	follow bool
	offset int // display lines above the tail
	wrap   bool
	filter string

	lastPage int
}

func NewLogs(namespace, pod, container string) *LogsPane {
	return &LogsPane{
		viewType:  pane.LogsView(namespace, pod),
		namespace: namespace,
		pod:       pod,
		container: container,
		status:    "Connecting...",
		follow:    true,
		lastPage:  10,
	}
}

func (p *LogsPane) ViewType() pane.ViewType { return p.viewType }

func (p *LogsPane) OnFocusChange(pane.ViewType) {}

func (p *LogsPane) Namespace() string { return p.namespace }
func (p *LogsPane) Pod() string       { return p.pod }
func (p *LogsPane) Container() string { return p.container }
func (p *LogsPane) Status() string    { return p.status }

// Retarget points an existing logs pane at another pod and drops the
// previous stream. The caller starts the new stream.
func (p *LogsPane) Retarget(namespace, pod, container string) {
	if p.stream != nil {
		p.stream.Stop()
		p.stream = nil
	}
	p.viewType = pane.LogsView(namespace, pod)
	p.namespace = namespace
	p.pod = pod
	p.container = container
	p.lines = nil
	p.status = "Connecting..."
	p.follow = true
	p.offset = 0
	p.filter = ""
}

// AttachStream adopts a started stream.
func (p *LogsPane) AttachStream(s *kube.LogStream) {
	p.stream = s
	p.status = "Streaming"
}

// SetStreamError records a failed stream start.
func (p *LogsPane) SetStreamError(msg string) {
	p.status = "Error: " + msg
}

// Ingest pulls the stream buffer after a wake notification. The stream
// keeps its own bounded history, so the pane simply mirrors it.
func (p *LogsPane) Ingest() {
	if p.stream == nil {
		return
	}
	raw, closed, err := p.stream.Lines()
	sanitized := make([]string, len(raw))
	for i, line := range raw {
		sanitized[i] = sanitizeLogLine(line)
	}
	p.lines = sanitized
	switch {
	case err != nil:
		p.status = "Error: " + err.Error()
	case closed:
		p.status = "Stopped"
	default:
		p.status = "Streaming"
	}
}

// Lines returns the sanitized buffer, ignoring the display filter.
func (p *LogsPane) Lines() []string { return p.lines }

// FilteredLines returns the lines the pane currently displays.
func (p *LogsPane) FilteredLines() []string { return p.filtered() }

func (p *LogsPane) FilterText() string { return p.filter }

// SetFilter narrows the display to lines containing text and snaps back
// to the tail.
func (p *LogsPane) SetFilter(text string) {
	p.filter = text
	p.offset = 0
}

func (p *LogsPane) ClearFilter() { p.SetFilter("") }

func (p *LogsPane) filtered() []string {
	if p.filter == "" {
		return p.lines
	}
	needle := strings.ToLower(p.filter)
	out := make([]string, 0, len(p.lines))
	for _, line := range p.lines {
		if strings.Contains(strings.ToLower(line), needle) {
			out = append(out, line)
		}
	}
	return out
}

func (p *LogsPane) Handle(cmd model.Command) tea.Cmd {
	switch cmd {
	case model.ScrollUp:
		p.offset++
		p.follow = false
	case model.ScrollDown:
		p.scrollDown(1)
	case model.PageUp:
		p.offset += p.lastPage
		p.follow = false
	case model.PageDown:
		p.scrollDown(p.lastPage)
	case model.GoToTop:
		p.offset = 1 << 30
		p.follow = false
	case model.GoToBottom:
		p.offset = 0
		p.follow = true
	case model.ToggleFollow:
		p.follow = !p.follow
		if p.follow {
			p.offset = 0
		}
	case model.ToggleWrap:
		p.wrap = !p.wrap
	case model.CopyContent:
		lines := p.filtered()
		if len(lines) == 0 {
			return nil
		}
		if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
			return toast("Clipboard: "+err.Error(), model.StatusBarError)
		}
		return toast(fmt.Sprintf("Copied %d lines", len(lines)), model.StatusBarSuccess)
	}
	return nil
}

func (p *LogsPane) scrollDown(n int) {
	p.offset -= n
	if p.offset <= 0 {
		p.offset = 0
		p.follow = true
	}
}

func (p *LogsPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *LogsPane) Close() {
	if p.stream != nil {
		p.stream.Stop()
	}
}

func (p *LogsPane) View(width, height int, focused bool) string {
	title := fmt.Sprintf(" [logs:%s @ %s] ", p.pod, p.namespace)
	innerW, innerH := width-2, height-2
	if innerW < 1 || innerH < 1 {
		return frame(width, height, focused, title, "", "")
	}

	mode := "FOLLOW"
	if !p.follow {
		mode = "PAUSED"
	}

	display := p.filtered()
	extra := fmt.Sprintf(" %s | %d lines | %s ", mode, len(display), p.status)

	if len(display) == 0 {
		body := design.TextDimStyle.Render(fmt.Sprintf("Waiting for log lines... (%s)", p.status))
		return frame(width, height, focused, title, extra, body)
	}

	if p.wrap {
		wrapped := make([]string, 0, len(display))
		for _, line := range display {
			wrapped = append(wrapped, strings.Split(ansi.Hardwrap(line, innerW, false), "\n")...)
		}
		display = wrapped
	}

	bodyH := innerH
	if p.filter != "" {
		bodyH--
	}
	p.lastPage = max(1, bodyH)

	maxOffset := max(0, len(display)-bodyH)
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
	end := len(display) - p.offset
	start := max(0, end-bodyH)

	rows := make([]string, 0, innerH)
	rows = append(rows, display[start:end]...)
	if p.filter != "" {
		for len(rows) < bodyH {
			rows = append(rows, "")
		}
		rows = append(rows, design.AccentStyle.Render("Filter: "+p.filter+"_"))
	}
	return frame(width, height, focused, title, extra, strings.Join(rows, "\n"))
}

// sanitizeLogLine strips terminal escape sequences and control bytes
// from one log line. CSI and OSC sequences are removed whole, carriage
// returns are dropped, and remaining control bytes become spaces so
// column alignment survives. Tabs pass through.
func sanitizeLogLine(s string) string {
	const (
		statePlain = iota
		stateEsc
		stateCSI
		stateOSC
		stateOSCEsc
	)
	var b strings.Builder
	b.Grow(len(s))
	state := statePlain
	for _, r := range s {
		switch state {
		case stateEsc:
			switch r {
			case '[':
				state = stateCSI
			case ']':
				state = stateOSC
			default:
				state = statePlain
			}
		case stateCSI:
			if r >= 0x40 && r <= 0x7e {
				state = statePlain
			}
		case stateOSC:
			switch r {
			case 0x07:
				state = statePlain
			case 0x1b:
				state = stateOSCEsc
			}
		case stateOSCEsc:
			if r == '\\' {
				state = statePlain
			} else {
				state = stateOSC
			}
		default:
			switch {
			case r == 0x1b:
				state = stateEsc
			case r == '\r':
			case r == '\t':
				b.WriteRune(r)
			case r < 0x20 || r == 0x7f:
				b.WriteByte(' ')
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
