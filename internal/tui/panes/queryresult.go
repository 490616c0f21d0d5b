package panes

import (
	"encoding/csv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
)

// queryResult is the result grid under the query editor. Wide results
// page horizontally: colOff is the first visible column and the render
// fits as many whole columns as the width allows.
type queryResult struct {
	columns []string
	rows    [][]string

	selected int
	scroll   int
	colOff   int

	pageSize int
	firstCol int // 1-based, set at render time
	lastCol  int
}

func (r *queryResult) set(res kube.QueryResult) {
	r.columns = res.Columns
	r.rows = res.Rows
	r.selected = 0
	r.scroll = 0
	r.colOff = 0
	r.firstCol = 0
	r.lastCol = 0
}

func (r *queryResult) empty() bool { return len(r.columns) == 0 }

func (r *queryResult) up() {
	if r.selected > 0 {
		r.selected--
	}
}

func (r *queryResult) down() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

func (r *queryResult) pageUp() {
	r.selected = max(0, r.selected-max(1, r.pageSize))
}

func (r *queryResult) pageDown() {
	if len(r.rows) > 0 {
		r.selected = min(len(r.rows)-1, r.selected+max(1, r.pageSize))
	}
}

func (r *queryResult) top() { r.selected = 0 }

func (r *queryResult) bottom() {
	if len(r.rows) > 0 {
		r.selected = len(r.rows) - 1
	}
}

func (r *queryResult) left() {
	if r.colOff > 0 {
		r.colOff--
	}
}

func (r *queryResult) right() {
	if r.colOff < len(r.columns)-1 {
		r.colOff++
	}
}

// selectedRow returns the highlighted row's cells.
func (r *queryResult) selectedRow() ([]string, bool) {
	if r.selected < 0 || r.selected >= len(r.rows) {
		return nil, false
	}
	return r.rows[r.selected], true
}

// csvAll serializes header and rows as CSV.
func (r *queryResult) csvAll() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(r.columns)
	w.WriteAll(r.rows)
	w.Flush()
	return b.String()
}

// csvRow serializes the highlighted row as one CSV line.
func (r *queryResult) csvRow() (string, bool) {
	row, ok := r.selectedRow()
	if !ok {
		return "", false
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(row)
	w.Flush()
	return b.String(), true
}

// estBytes roughly sizes the result set, for the export hint.
func (r *queryResult) estBytes() int {
	n := 0
	for _, row := range r.rows {
		for _, cell := range row {
			n += len(cell) + 1
		}
	}
	return n
}

func (r *queryResult) render(width, height int) string {
	if height < 1 || width < 3 || r.empty() {
		return ""
	}
	r.pageSize = max(1, height-1)

	if r.selected >= len(r.rows) {
		r.selected = max(0, len(r.rows)-1)
	}
	if r.scroll > r.selected {
		r.scroll = r.selected
	}
	if r.selected >= r.scroll+r.pageSize {
		r.scroll = r.selected - r.pageSize + 1
	}

	widths := make([]int, len(r.columns))
	for i, col := range r.columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range r.rows {
		for i := range widths {
			if i < len(row) {
				if w := runewidth.StringWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	// Fit whole columns from colOff; always show at least one.
	avail := width - 2
	var fit []int
	acc := 0
	for i := r.colOff; i < len(r.columns); i++ {
		need := widths[i]
		if len(fit) > 0 {
			need += columnGap
		}
		if acc+need > avail && len(fit) > 0 {
			break
		}
		acc += need
		fit = append(fit, i)
	}
	r.firstCol = r.colOff + 1
	r.lastCol = r.colOff + len(fit)

	line := func(row []string) string {
		var b strings.Builder
		for n, i := range fit {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(runewidth.FillRight(runewidth.Truncate(cell, widths[i], "…"), widths[i]))
			if n < len(fit)-1 {
				b.WriteString(strings.Repeat(" ", columnGap))
			}
		}
		return strings.TrimRight(b.String(), " ")
	}

	out := make([]string, 0, height)
	out = append(out, design.TableHeaderStyle.Render("  "+line(r.columns)))
	end := min(len(r.rows), r.scroll+r.pageSize)
	for i := r.scroll; i < end; i++ {
		if i == r.selected {
			out = append(out, design.SelectionStyle.Render("▶ "+line(r.rows[i])))
		} else {
			out = append(out, "  "+line(r.rows[i]))
		}
	}
	return strings.Join(out, "\n")
}
