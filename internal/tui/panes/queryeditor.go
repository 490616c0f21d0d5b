package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var editorCursorStyle = lipgloss.NewStyle().Reverse(true)

// queryEditor is a small multi-line text editor. Columns are counted in
// runes; the viewport follows the cursor row.
type queryEditor struct {
	lines  []string
	row    int
	col    int
	scroll int
}

func newQueryEditor() *queryEditor {
	return &queryEditor{lines: []string{""}}
}

func (e *queryEditor) Text() string {
	return strings.Join(e.lines, "\n")
}

// SetText replaces the buffer and puts the cursor at the end.
func (e *queryEditor) SetText(sql string) {
	e.lines = strings.Split(strings.TrimRight(sql, "\n"), "\n")
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	e.row = len(e.lines) - 1
	e.col = len([]rune(e.lines[e.row]))
}

// BeforeCursor returns everything up to the cursor, for completion
// context.
func (e *queryEditor) BeforeCursor() string {
	var b strings.Builder
	for i := 0; i < e.row; i++ {
		b.WriteString(e.lines[i])
		b.WriteByte('\n')
	}
	b.WriteString(string([]rune(e.lines[e.row])[:e.col]))
	return b.String()
}

func (e *queryEditor) InsertRune(r rune) {
	runes := []rune(e.lines[e.row])
	runes = append(runes[:e.col], append([]rune{r}, runes[e.col:]...)...)
	e.lines[e.row] = string(runes)
	e.col++
}

func (e *queryEditor) InsertString(s string) {
	for _, r := range s {
		e.InsertRune(r)
	}
}

// DeleteBefore removes n runes before the cursor on the current line.
func (e *queryEditor) DeleteBefore(n int) {
	runes := []rune(e.lines[e.row])
	if n > e.col {
		n = e.col
	}
	e.lines[e.row] = string(append(runes[:e.col-n:e.col-n], runes[e.col:]...))
	e.col -= n
}

// Backspace deletes one rune, joining with the previous line at column
// zero.
func (e *queryEditor) Backspace() {
	if e.col > 0 {
		e.DeleteBefore(1)
		return
	}
	if e.row == 0 {
		return
	}
	prev := []rune(e.lines[e.row-1])
	e.col = len(prev)
	e.lines[e.row-1] = string(prev) + e.lines[e.row]
	e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
	e.row--
}

// Newline splits the current line at the cursor.
func (e *queryEditor) Newline() {
	runes := []rune(e.lines[e.row])
	rest := string(runes[e.col:])
	e.lines[e.row] = string(runes[:e.col])
	e.lines = append(e.lines[:e.row+1], append([]string{rest}, e.lines[e.row+1:]...)...)
	e.row++
	e.col = 0
}

// Indent prepends two spaces to the current line.
func (e *queryEditor) Indent() {
	e.lines[e.row] = "  " + e.lines[e.row]
	e.col += 2
}

// Deindent strips up to two leading spaces from the current line.
func (e *queryEditor) Deindent() {
	line := e.lines[e.row]
	n := 0
	for n < 2 && n < len(line) && line[n] == ' ' {
		n++
	}
	if n == 0 {
		return
	}
	e.lines[e.row] = line[n:]
	e.col = max(0, e.col-n)
}

func (e *queryEditor) Left() {
	if e.col > 0 {
		e.col--
	} else if e.row > 0 {
		e.row--
		e.col = len([]rune(e.lines[e.row]))
	}
}

func (e *queryEditor) Right() {
	if e.col < len([]rune(e.lines[e.row])) {
		e.col++
	} else if e.row < len(e.lines)-1 {
		e.row++
		e.col = 0
	}
}

func (e *queryEditor) Up() {
	if e.row == 0 {
		return
	}
	e.row--
	e.clampCol()
}

func (e *queryEditor) Down() {
	if e.row == len(e.lines)-1 {
		return
	}
	e.row++
	e.clampCol()
}

func (e *queryEditor) Home() { e.col = 0 }

func (e *queryEditor) End() { e.col = len([]rune(e.lines[e.row])) }

func (e *queryEditor) clampCol() {
	if n := len([]rune(e.lines[e.row])); e.col > n {
		e.col = n
	}
}

// View renders the buffer into width x height cells with the cursor
// shown as a reverse-video block when active.
func (e *queryEditor) View(width, height int, active bool) string {
	if height < 1 || width < 1 {
		return ""
	}
	if e.row < e.scroll {
		e.scroll = e.row
	}
	if e.row >= e.scroll+height {
		e.scroll = e.row - height + 1
	}

	var out []string
	for i := e.scroll; i < e.scroll+height && i < len(e.lines); i++ {
		line := e.lines[i]
		if active && i == e.row {
			runes := []rune(line)
			at := " "
			if e.col < len(runes) {
				at = string(runes[e.col])
			}
			line = string(runes[:min(e.col, len(runes))]) +
				editorCursorStyle.Render(at)
			if e.col < len(runes) {
				line += string(runes[e.col+1:])
			}
		}
		out = append(out, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(out, "\n")
}
