package panes

import (
	"fmt"
	"strings"

	"github.com/hinshun/vt10x"
)

// emulator wraps a vt10x screen with a scrollback buffer. It is only
// touched from the update loop: PTY bytes arrive as messages and are
// written here, never from the reader goroutine.
type emulator struct {
	term       vt10x.Terminal
	width      int
	height     int
	scrollback []string
	maxLines   int
	offset     int // lines scrolled up from the live tail
}

func newEmulator(width, height, maxLines int) *emulator {
	if width < 2 {
		width = 2
	}
	if height < 1 {
		height = 1
	}
	if maxLines <= 0 {
		maxLines = 10000
	}
	return &emulator{
		term:     vt10x.New(vt10x.WithSize(width, height)),
		width:    width,
		height:   height,
		maxLines: maxLines,
	}
}

// Write feeds terminal output into the screen. When the top line
// scrolls away it is preserved, with colors, in the scrollback.
func (e *emulator) Write(data []byte) {
	plainBefore := e.plainLine(0)
	coloredBefore := e.coloredLine(0)

	_, _ = e.term.Write(data)

	if plainBefore != "" && plainBefore != e.plainLine(0) {
		if len(e.scrollback) >= e.maxLines {
			drop := e.maxLines / 10
			if drop < 1 {
				drop = 1
			}
			e.scrollback = e.scrollback[drop:]
		}
		e.scrollback = append(e.scrollback, coloredBefore)
	}
}

// Resize changes the screen dimensions.
func (e *emulator) Resize(width, height int) {
	if width < 2 {
		width = 2
	}
	if height < 1 {
		height = 1
	}
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height
	e.term.Resize(width, height)
}

// ScrollUp moves the visible window back into the scrollback.
func (e *emulator) ScrollUp(n int) {
	e.offset += n
	if e.offset > len(e.scrollback) {
		e.offset = len(e.scrollback)
	}
}

// ScrollDown moves the visible window toward the live tail.
func (e *emulator) ScrollDown(n int) {
	e.offset -= n
	if e.offset < 0 {
		e.offset = 0
	}
}

// ScrollToBottom returns to the live screen.
func (e *emulator) ScrollToBottom() {
	e.offset = 0
}

// Scrolled reports whether the view is detached from the live tail.
func (e *emulator) Scrolled() bool {
	return e.offset > 0
}

// Render returns the visible lines. At the live tail this is the
// current screen with the cursor inverted when focused; scrolled back
// it is a window over scrollback plus screen.
func (e *emulator) Render(focused bool) string {
	e.term.Lock()
	defer e.term.Unlock()

	if e.offset == 0 {
		return e.renderScreen(focused)
	}

	lines := make([]string, 0, len(e.scrollback)+e.height)
	lines = append(lines, e.scrollback...)
	for row := 0; row < e.height; row++ {
		lines = append(lines, e.coloredLineLocked(row))
	}
	end := len(lines) - e.offset
	start := end - e.height
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end], "\n")
}

func (e *emulator) renderScreen(focused bool) string {
	cursor := e.term.Cursor()
	showCursor := focused && e.term.CursorVisible()

	var out strings.Builder
	for row := 0; row < e.height; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		var line strings.Builder
		lastFG, lastBG := vt10x.DefaultFG, vt10x.DefaultBG
		dirty := false
		for col := 0; col < e.width; col++ {
			cell := e.term.Cell(col, row)
			atCursor := showCursor && col == cursor.X && row == cursor.Y
			if atCursor || dirty || cell.FG != lastFG || cell.BG != lastBG {
				line.WriteString("\x1b[0m")
				writeColor(&line, cell.FG, false)
				writeColor(&line, cell.BG, true)
				if atCursor {
					// SGR reverse shows the cursor regardless of
					// the cell's colors.
					line.WriteString("\x1b[7m")
				}
				lastFG, lastBG = cell.FG, cell.BG
				dirty = atCursor
			}
			if cell.Char == 0 {
				line.WriteByte(' ')
			} else {
				line.WriteRune(cell.Char)
			}
		}
		line.WriteString("\x1b[0m")
		out.WriteString(trimLine(line.String()))
	}
	return out.String()
}

func (e *emulator) plainLine(row int) string {
	e.term.Lock()
	defer e.term.Unlock()
	if row < 0 || row >= e.height {
		return ""
	}
	var line strings.Builder
	for col := 0; col < e.width; col++ {
		cell := e.term.Cell(col, row)
		if cell.Char == 0 {
			line.WriteByte(' ')
		} else {
			line.WriteRune(cell.Char)
		}
	}
	return strings.TrimRight(line.String(), " ")
}

func (e *emulator) coloredLine(row int) string {
	e.term.Lock()
	defer e.term.Unlock()
	return e.coloredLineLocked(row)
}

func (e *emulator) coloredLineLocked(row int) string {
	if row < 0 || row >= e.height {
		return ""
	}
	var line strings.Builder
	lastFG, lastBG := vt10x.DefaultFG, vt10x.DefaultBG
	for col := 0; col < e.width; col++ {
		cell := e.term.Cell(col, row)
		if cell.FG != lastFG || cell.BG != lastBG {
			line.WriteString("\x1b[0m")
			writeColor(&line, cell.FG, false)
			writeColor(&line, cell.BG, true)
			lastFG, lastBG = cell.FG, cell.BG
		}
		if cell.Char == 0 {
			line.WriteByte(' ')
		} else {
			line.WriteRune(cell.Char)
		}
	}
	line.WriteString("\x1b[0m")
	return trimLine(line.String())
}

// writeColor emits the SGR sequence for one color. vt10x stores ANSI
// indexes below 256 and packed RGB above.
func writeColor(out *strings.Builder, c vt10x.Color, background bool) {
	if (!background && c == vt10x.DefaultFG) || (background && c == vt10x.DefaultBG) {
		return
	}
	switch {
	case c.ANSI():
		base := 30
		if background {
			base = 40
		}
		if c < 8 {
			fmt.Fprintf(out, "\x1b[%dm", base+int(c))
		} else {
			fmt.Fprintf(out, "\x1b[%dm", base+60+int(c)-8)
		}
	case c > 255:
		mode := 38
		if background {
			mode = 48
		}
		r := (c >> 16) & 0xFF
		g := (c >> 8) & 0xFF
		b := c & 0xFF
		fmt.Fprintf(out, "\x1b[%d;2;%d;%d;%dm", mode, r, g, b)
	default:
		mode := 38
		if background {
			mode = 48
		}
		fmt.Fprintf(out, "\x1b[%d;5;%dm", mode, c)
	}
}

// trimLine drops trailing spaces while keeping the closing reset.
func trimLine(line string) string {
	if strings.HasSuffix(line, "\x1b[0m") {
		prefix := strings.TrimRight(line[:len(line)-4], " ")
		return prefix + "\x1b[0m"
	}
	return strings.TrimRight(line, " ")
}
