package panes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// PaneWriter bridges a background output stream into the app event
// loop. Remote exec sessions write into one of these.
type PaneWriter struct {
	ID     pane.ID
	Events chan<- tea.Msg
}

func (w PaneWriter) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	w.Events <- model.PaneOutputMsg{PaneID: w.ID, Data: data}
	return len(p), nil
}

// ExecPane is an interactive shell inside a pod container. The session
// attaches asynchronously; until then the pane shows its connect state.
type ExecPane struct {
	id        pane.ID
	vt        pane.ViewType
	namespace string
	pod       string
	container string

	emu     *emulator
	session *kube.ExecSession
	status  string

	lastW, lastH int
}

func NewExec(id pane.ID, namespace, pod, container string, scrollback int) *ExecPane {
	return &ExecPane{
		id:        id,
		vt:        pane.ExecView(namespace, pod),
		namespace: namespace,
		pod:       pod,
		container: container,
		emu:       newEmulator(80, 24, scrollback),
		status:    "Connecting...",
	}
}

func (p *ExecPane) ViewType() pane.ViewType { return p.vt }

func (p *ExecPane) OnFocusChange(pane.ViewType) {}

func (p *ExecPane) Namespace() string { return p.namespace }
func (p *ExecPane) Pod() string       { return p.pod }
func (p *ExecPane) Container() string { return p.container }

// AttachSession adopts a connected session and watches for its end.
// The pane usually rendered before the attach landed, so the remote
// terminal is sized to match right away.
func (p *ExecPane) AttachSession(s *kube.ExecSession, events chan<- tea.Msg) {
	p.session = s
	p.status = "Connected"
	if p.lastW > 0 && p.lastH > 0 {
		s.Resize(p.lastW, p.lastH)
	}
	id := p.id
	go func() {
		<-s.Done()
		events <- model.PaneExitedMsg{PaneID: id, Err: s.Err()}
	}()
}

// SetError records a failed connect.
func (p *ExecPane) SetError(msg string) {
	p.status = "Error: " + msg
}

// MarkExited flags the remote session as gone.
func (p *ExecPane) MarkExited(err error) {
	if err != nil {
		p.status = "Exited: " + err.Error()
	} else {
		p.status = "Exited"
	}
	p.session = nil
}

// Feed applies remote output bytes to the emulator.
func (p *ExecPane) Feed(data []byte) {
	p.emu.Write(data)
}

func (p *ExecPane) Handle(cmd model.Command) tea.Cmd {
	switch cmd {
	case model.ScrollUp:
		p.emu.ScrollUp(1)
	case model.ScrollDown:
		p.emu.ScrollDown(1)
	case model.PageUp:
		p.emu.ScrollUp(max(1, p.lastH-2))
	case model.PageDown:
		p.emu.ScrollDown(max(1, p.lastH-2))
	case model.GoToTop:
		p.emu.ScrollUp(1 << 30)
	case model.GoToBottom:
		p.emu.ScrollToBottom()
	}
	return nil
}

func (p *ExecPane) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if p.session == nil {
		return nil
	}
	b := keyToBytes(msg)
	if len(b) == 0 {
		return nil
	}
	p.emu.ScrollToBottom()
	p.session.Write(b)
	return nil
}

func (p *ExecPane) Close() {
	if p.session != nil {
		p.session.Stop()
	}
}

func (p *ExecPane) View(width, height int, focused bool) string {
	title := fmt.Sprintf(" [exec:%s/%s @ %s] ", p.pod, p.container, p.namespace)
	innerW, innerH := width-2, height-2
	if innerW < 2 || innerH < 1 {
		return frame(width, height, focused, title, "", "")
	}
	if innerW != p.lastW || innerH != p.lastH {
		p.lastW, p.lastH = innerW, innerH
		p.emu.Resize(innerW, innerH)
		if p.session != nil {
			p.session.Resize(innerW, innerH)
		}
	}

	extra := fmt.Sprintf(" %s | Insert mode to type ", p.status)
	return frame(width, height, focused, title, extra, p.emu.Render(focused))
}
