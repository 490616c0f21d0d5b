package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gitavk/ktile/internal/tui/design"
)

var (
	frameEdgeStyle      = lipgloss.NewStyle().Foreground(design.ColorBorder)
	frameEdgeFocusStyle = lipgloss.NewStyle().Foreground(design.ColorBorderFocus)
)

// frame draws a width x height rounded box around body. The title is
// embedded in the top border, extra in the bottom-right corner. Body
// lines are clipped and padded to the inner area so the result is
// always exactly width x height cells.
func frame(width, height int, focused bool, title, extra, body string) string {
	if width < 2 || height < 2 {
		return ""
	}
	innerW, innerH := width-2, height-2

	edge := frameEdgeStyle
	titleStyle := design.TextDimStyle
	if focused {
		edge = frameEdgeFocusStyle
		titleStyle = design.PaneTitleStyle
	}

	title = ansi.Truncate(title, innerW, "…")
	extra = ansi.Truncate(extra, innerW, "…")

	var b strings.Builder
	b.WriteString(edge.Render("╭"))
	b.WriteString(titleStyle.Render(title))
	b.WriteString(edge.Render(strings.Repeat("─", max(0, innerW-ansi.StringWidth(title)))))
	b.WriteString(edge.Render("╮"))
	b.WriteByte('\n')

	lines := strings.Split(body, "\n")
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(lines) {
			line = clipLine(lines[i], innerW)
		} else {
			line = strings.Repeat(" ", innerW)
		}
		b.WriteString(edge.Render("│"))
		b.WriteString(line)
		b.WriteString(edge.Render("│"))
		b.WriteByte('\n')
	}

	b.WriteString(edge.Render("╰"))
	b.WriteString(edge.Render(strings.Repeat("─", max(0, innerW-ansi.StringWidth(extra)))))
	b.WriteString(design.TextDimStyle.Render(extra))
	b.WriteString(edge.Render("╯"))
	return b.String()
}

// centerLines centers the given lines as a block inside a w x h inner
// area, for placeholder bodies.
func centerLines(w, h int, lines ...string) string {
	if w < 1 || h < 1 {
		return ""
	}
	top := max(0, (h-len(lines))/2)
	out := make([]string, 0, h)
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	for _, line := range lines {
		pad := max(0, (w-ansi.StringWidth(line))/2)
		out = append(out, strings.Repeat(" ", pad)+line)
	}
	return strings.Join(out, "\n")
}

// clipLine fits one rendered line into w cells, truncating or padding
// as needed. Truncated styled lines get an explicit reset so colors
// cannot bleed into the border.
func clipLine(line string, w int) string {
	line = ansi.Truncate(line, w, "")
	if strings.Contains(line, "\x1b") && !strings.HasSuffix(line, "\x1b[0m") {
		line += "\x1b[0m"
	}
	if pad := w - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}
