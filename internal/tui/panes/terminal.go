package panes

import (
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"

	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// TerminalPane runs a local shell on a pty and renders it through the
// embedded emulator. Output bytes travel through the app event channel
// so pane state only ever changes on the update goroutine.
type TerminalPane struct {
	id  pane.ID
	vt  pane.ViewType
	emu *emulator

	ptmx *os.File
	cmd  *exec.Cmd

	exited bool

	lastW, lastH int
}

// NewTerminal starts shell on a fresh pty. The pane reports output and
// exit through events as PaneOutputMsg and PaneExitedMsg.
func NewTerminal(id pane.ID, shell []string, scrollback int, events chan<- tea.Msg) (*TerminalPane, error) {
	if len(shell) == 0 {
		shell = []string{"/bin/sh"}
	}
	cmd := exec.Command(shell[0], shell[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 80, Rows: 24})
	if err != nil {
		return nil, fmt.Errorf("starting shell %q: %w", shell[0], err)
	}

	p := &TerminalPane{
		id:   id,
		vt:   pane.TerminalView(),
		emu:  newEmulator(80, 24, scrollback),
		ptmx: ptmx,
		cmd:  cmd,
	}
	go p.pump(events)
	return p, nil
}

func (p *TerminalPane) pump(events chan<- tea.Msg) {
	buf := make([]byte, 4096)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			events <- model.PaneOutputMsg{PaneID: p.id, Data: data}
		}
		if err != nil {
			// Read fails with EIO once the child exits.
			werr := p.cmd.Wait()
			events <- model.PaneExitedMsg{PaneID: p.id, Err: werr}
			return
		}
	}
}

func (p *TerminalPane) ViewType() pane.ViewType { return p.vt }

func (p *TerminalPane) OnFocusChange(pane.ViewType) {}

// Feed applies output bytes to the emulator.
func (p *TerminalPane) Feed(data []byte) {
	p.emu.Write(data)
}

func (p *TerminalPane) Handle(cmd model.Command) tea.Cmd {
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

// HandleKey forwards a key to the shell while the app is in insert
// mode. Typing snaps the view back to the live screen.
func (p *TerminalPane) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if p.exited {
		return nil
	}
	b := keyToBytes(msg)
	if len(b) == 0 {
		return nil
	}
	p.emu.ScrollToBottom()
	p.ptmx.Write(b)
	return nil
}

// MarkExited flags the shell as gone; the pane keeps its last screen.
func (p *TerminalPane) MarkExited() {
	p.exited = true
}

func (p *TerminalPane) Close() {
	p.ptmx.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
}

func (p *TerminalPane) View(width, height int, focused bool) string {
	innerW, innerH := width-2, height-2
	if innerW < 2 || innerH < 1 {
		return frame(width, height, focused, " [terminal] ", "", "")
	}
	if innerW != p.lastW || innerH != p.lastH {
		p.lastW, p.lastH = innerW, innerH
		pty.Setsize(p.ptmx, &pty.Winsize{Cols: uint16(innerW), Rows: uint16(innerH)})
		p.emu.Resize(innerW, innerH)
	}

	extra := " Insert mode to type "
	if p.emu.Scrolled() {
		extra = " SCROLLBACK "
	}
	if p.exited {
		extra = " exited "
	}
	return frame(width, height, focused, " [terminal] ", extra, p.emu.Render(focused && !p.exited))
}
