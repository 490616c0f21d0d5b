// Package view renders the model into terminal frames. It never
// mutates state: the controller changes the model, the view draws it.
package view

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

const (
	tabBarHeight    = 1
	statusBarHeight = 1
)

// BodyRect is the area between the tab bar and the status bar where
// panes tile. The controller uses the same rectangle for directional
// navigation and split orientation.
func BodyRect(width, height int) pane.Rect {
	h := height - tabBarHeight - statusBarHeight
	if h < 0 {
		h = 0
	}
	return pane.Rect{X: 0, Y: tabBarHeight, Width: width, Height: h}
}

// Render draws one frame: tab bar, pane grid or overlay, status bar.
func Render(m *model.Model) string {
	if m.Quitting {
		return ""
	}
	if !m.Ready {
		return "\n  " + m.Spinner.View() + " " + design.TextDimStyle.Render("Starting ktile...")
	}
	body := renderBody(m)
	if dialog := renderOverlay(m); dialog != "" {
		body = lipgloss.Place(m.Width, BodyRect(m.Width, m.Height).Height,
			lipgloss.Center, lipgloss.Center, dialog)
	}
	return renderTabBar(m) + "\n" + body + "\n" + renderStatusBar(m)
}

// renderBody assembles the pane grid row by row. The tree layout tiles
// the body exactly, so each terminal row is the concatenation of the
// row-slices of the panes covering it, ordered by column.
func renderBody(m *model.Model) string {
	body := BodyRect(m.Width, m.Height)
	if body.Width <= 0 || body.Height <= 0 {
		return ""
	}
	t := m.ActiveTab()

	var rects []pane.PaneRect
	if fs := t.Fullscreen; fs != 0 && t.Tree.Contains(fs) {
		rects = []pane.PaneRect{{ID: fs, Rect: body}}
	} else {
		rects = t.Tree.Layout(body)
	}

	type segment struct {
		x    int
		text string
	}
	rows := make([][]segment, body.Height)
	for _, pr := range rects {
		r := pr.Rect
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		lines := strings.Split(renderPane(m, t, pr), "\n")
		for i := 0; i < r.Height && i < len(lines); i++ {
			y := r.Y - body.Y + i
			if y < 0 || y >= body.Height {
				continue
			}
			rows[y] = append(rows[y], segment{x: r.X, text: lines[i]})
		}
	}

	var b strings.Builder
	for y, segs := range rows {
		sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, s := range segs {
			b.WriteString(s.text)
		}
	}
	return b.String()
}

func renderPane(m *model.Model, t *model.Tab, pr pane.PaneRect) string {
	p := m.Panes[pr.ID]
	if p == nil {
		return blankBlock(pr.Rect.Width, pr.Rect.Height)
	}
	return p.View(pr.Rect.Width, pr.Rect.Height, pr.ID == t.Focused)
}

func blankBlock(w, h int) string {
	row := strings.Repeat(" ", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = row
	}
	return strings.Join(lines, "\n")
}
