package panes

import (
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

const (
	firstColMinWidth = 20
	otherColMinWidth = 12
	columnGap        = 2
)

// ResourceListPane is a live table of one resource kind. Rows arrive as
// watcher snapshots; filtering, sorting and selection are local state.
// Selection tracks object identity, not row index, so a pod keeps its
// highlight while rows above it churn.
type ResourceListPane struct {
	viewType pane.ViewType

	headers []string
	rows    [][]string

	loading bool
	errMsg  string

	filter   string
	selected int // index into visible rows, -1 when empty
	scroll   int

	sortCol int // -1 means server order
	sortAsc bool

	allNamespaces bool

	lastPageSize int
}

// NewResourceList returns a list pane for kind, empty and loading until
// the first snapshot lands.
func NewResourceList(kind kube.ResourceKind) *ResourceListPane {
	return &ResourceListPane{
		viewType:     pane.ListView(kind),
		headers:      kube.Headers(kind),
		loading:      true,
		selected:     -1,
		sortCol:      -1,
		lastPageSize: 10,
	}
}

func (p *ResourceListPane) ViewType() pane.ViewType { return p.viewType }

func (p *ResourceListPane) OnFocusChange(pane.ViewType) {}

func (p *ResourceListPane) Kind() kube.ResourceKind { return p.viewType.Resource }

// SetKind repoints the pane at another resource kind in place. All
// table state is reset; the caller restarts the watcher.
func (p *ResourceListPane) SetKind(kind kube.ResourceKind) {
	p.viewType = pane.ListView(kind)
	p.headers = kube.Headers(kind)
	p.rows = nil
	p.loading = true
	p.errMsg = ""
	p.filter = ""
	p.selected = -1
	p.scroll = 0
	p.sortCol = -1
	p.sortAsc = false
}

func (p *ResourceListPane) AllNamespaces() bool { return p.allNamespaces }

// ToggleAllNamespaces flips the namespace scope and reports the new
// state. The caller restarts the watcher with the widened scope.
func (p *ResourceListPane) ToggleAllNamespaces() bool {
	p.allNamespaces = !p.allNamespaces
	p.rows = nil
	p.loading = true
	p.errMsg = ""
	p.selected = -1
	p.scroll = 0
	return p.allNamespaces
}

// SetSnapshot applies one watcher snapshot.
func (p *ResourceListPane) SetSnapshot(s kube.Snapshot) {
	if s.Err != nil {
		p.SetError(s.Err.Error())
		return
	}
	p.SetItems(s.Headers, s.Rows)
}

// SetItems replaces the table contents. The previous selection is
// re-found by name and namespace; when the object is gone the selection
// clamps to the nearest row.
func (p *ResourceListPane) SetItems(headers []string, rows [][]string) {
	name, ns, hadSelection := p.selectedIdentity()
	p.headers = headers
	p.rows = rows
	p.loading = false
	p.errMsg = ""
	p.restoreSelection(name, ns, hadSelection)
}

// SetError records a watch failure. Existing rows stay on screen so a
// transient API hiccup does not blank the table.
func (p *ResourceListPane) SetError(msg string) {
	p.loading = false
	p.errMsg = msg
}

// SetFilter replaces the row filter and resets the selection to the
// first match.
func (p *ResourceListPane) SetFilter(text string) {
	p.filter = text
	p.scroll = 0
	if len(p.visible()) == 0 {
		p.selected = -1
	} else {
		p.selected = 0
	}
}

func (p *ResourceListPane) ClearFilter() { p.SetFilter("") }

func (p *ResourceListPane) FilterText() string { return p.filter }

// Selected returns the cells of the highlighted row.
func (p *ResourceListPane) Selected() ([]string, bool) {
	vis := p.visible()
	if p.selected < 0 || p.selected >= len(vis) {
		return nil, false
	}
	return vis[p.selected], true
}

// SelectedObject resolves the highlighted row to a resource name and
// namespace. Cluster-scoped kinds report an empty namespace.
func (p *ResourceListPane) SelectedObject() (name, namespace string, ok bool) {
	row, ok := p.Selected()
	if !ok {
		return "", "", false
	}
	name = p.cell(row, "NAME")
	namespace = p.cell(row, "NAMESPACE")
	return name, namespace, name != ""
}

func (p *ResourceListPane) cell(row []string, header string) string {
	for i, h := range p.headers {
		if h == header && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func (p *ResourceListPane) selectedIdentity() (name, ns string, ok bool) {
	row, ok := p.Selected()
	if !ok {
		return "", "", false
	}
	return p.cell(row, "NAME"), p.cell(row, "NAMESPACE"), true
}

func (p *ResourceListPane) restoreSelection(name, ns string, had bool) {
	vis := p.visible()
	if len(vis) == 0 {
		p.selected = -1
		p.scroll = 0
		return
	}
	if had {
		for i, row := range vis {
			if p.cell(row, "NAME") == name && p.cell(row, "NAMESPACE") == ns {
				p.selected = i
				return
			}
		}
	}
	if p.selected < 0 {
		p.selected = 0
	} else if p.selected >= len(vis) {
		p.selected = len(vis) - 1
	}
}

// visible returns the rows after filtering and sorting.
func (p *ResourceListPane) visible() [][]string {
	rows := p.rows
	if p.filter != "" {
		needle := strings.ToLower(p.filter)
		filtered := make([][]string, 0, len(rows))
		for _, row := range rows {
			for _, cell := range row {
				if strings.Contains(strings.ToLower(cell), needle) {
					filtered = append(filtered, row)
					break
				}
			}
		}
		rows = filtered
	}
	if p.sortCol >= 0 && p.sortCol < len(p.headers) {
		sorted := make([][]string, len(rows))
		copy(sorted, rows)
		col := p.sortCol
		sort.SliceStable(sorted, func(i, j int) bool {
			var a, b string
			if col < len(sorted[i]) {
				a = sorted[i][col]
			}
			if col < len(sorted[j]) {
				b = sorted[j][col]
			}
			if p.sortAsc {
				return a < b
			}
			return a > b
		})
		rows = sorted
	}
	return rows
}

func (p *ResourceListPane) Handle(cmd model.Command) tea.Cmd {
	vis := p.visible()
	switch cmd {
	case model.ScrollUp, model.SelectPrev:
		if len(vis) == 0 {
			return nil
		}
		if p.selected <= 0 {
			p.selected = len(vis) - 1
		} else {
			p.selected--
		}
	case model.ScrollDown, model.SelectNext:
		if len(vis) == 0 {
			return nil
		}
		if p.selected >= len(vis)-1 {
			p.selected = 0
		} else {
			p.selected++
		}
	case model.GoToTop:
		if len(vis) > 0 {
			p.selected = 0
		}
	case model.GoToBottom:
		if len(vis) > 0 {
			p.selected = len(vis) - 1
		}
	case model.PageUp:
		if len(vis) > 0 {
			p.selected = max(0, p.selected-p.lastPageSize)
		}
	case model.PageDown:
		if len(vis) > 0 {
			p.selected = min(len(vis)-1, p.selected+p.lastPageSize)
		}
	case model.SortColumn:
		name, ns, had := p.selectedIdentity()
		if p.sortCol < 0 {
			p.sortCol = 0
		} else {
			p.sortCol = (p.sortCol + 1) % len(p.headers)
		}
		p.sortAsc = true
		p.restoreSelection(name, ns, had)
	case model.ToggleSortOrder:
		if p.sortCol < 0 {
			return nil
		}
		name, ns, had := p.selectedIdentity()
		p.sortAsc = !p.sortAsc
		p.restoreSelection(name, ns, had)
	}
	return nil
}

func (p *ResourceListPane) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (p *ResourceListPane) Close() {}

func (p *ResourceListPane) View(width, height int, focused bool) string {
	title := " " + p.viewType.Resource.DisplayName()
	if p.allNamespaces {
		title += " (All Namespaces)"
	}
	title += " "

	vis := p.visible()
	extra := ""
	switch {
	case p.filter != "":
		extra = " " + strconv.Itoa(len(vis)) + "/" + strconv.Itoa(len(p.rows)) + " "
	case len(p.rows) > 0:
		extra = " " + strconv.Itoa(len(p.rows)) + " "
	}

	body := p.renderBody(vis, width-2, height-2)
	return frame(width, height, focused, title, extra, body)
}

func (p *ResourceListPane) renderBody(vis [][]string, w, h int) string {
	if w < 1 || h < 1 {
		return ""
	}
	var lines []string
	if p.errMsg != "" {
		lines = append(lines, design.TextErrorStyle.Render(runewidth.Truncate("Error: "+p.errMsg, w, "…")))
	}
	switch {
	case p.loading:
		lines = append(lines, design.TextDimStyle.Render("Loading..."))
	case len(p.rows) == 0 && p.errMsg == "":
		lines = append(lines, design.TextDimStyle.Render("No resources found"))
	case len(vis) == 0:
		lines = append(lines, design.TextDimStyle.Render("No matches"))
	default:
		lines = append(lines, p.renderTable(vis, w, h-len(lines))...)
	}
	if p.filter != "" {
		for len(lines) < h-1 {
			lines = append(lines, "")
		}
		lines = lines[:min(len(lines), h-1)]
		lines = append(lines, design.AccentStyle.Render("Filter: "+p.filter+"_"))
	}
	return strings.Join(lines, "\n")
}

func (p *ResourceListPane) renderTable(vis [][]string, w, h int) []string {
	if h < 1 {
		return nil
	}
	headers := make([]string, len(p.headers))
	copy(headers, p.headers)
	if p.sortCol >= 0 && p.sortCol < len(headers) {
		if p.sortAsc {
			headers[p.sortCol] += " ▲"
		} else {
			headers[p.sortCol] += " ▼"
		}
	}
	widths := p.columnWidths(headers, vis)

	statusCol := -1
	for i, hdr := range p.headers {
		if hdr == "STATUS" {
			statusCol = i
			break
		}
	}

	lines := make([]string, 0, h)
	lines = append(lines, design.TableHeaderStyle.Render("  "+joinRow(headers, widths)))

	avail := h - 1
	p.lastPageSize = max(1, avail)
	p.ensureVisible(len(vis), avail)
	end := min(len(vis), p.scroll+avail)
	for i := p.scroll; i < end; i++ {
		row := vis[i]
		if i == p.selected {
			lines = append(lines, design.SelectionStyle.Render("▶ "+joinRow(row, widths)))
			continue
		}
		var b strings.Builder
		b.WriteString("  ")
		for c, width := range widths {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			padded := runewidth.FillRight(runewidth.Truncate(cell, width, "…"), width)
			if c == statusCol && cell != "" {
				padded = design.PhaseStyle(cell).Render(padded)
			}
			b.WriteString(padded)
			if c < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", columnGap))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (p *ResourceListPane) ensureVisible(total, avail int) {
	if avail < 1 || p.selected < 0 {
		p.scroll = 0
		return
	}
	if p.scroll > p.selected {
		p.scroll = p.selected
	}
	if p.selected >= p.scroll+avail {
		p.scroll = p.selected - avail + 1
	}
	if p.scroll > max(0, total-avail) {
		p.scroll = max(0, total-avail)
	}
}

func (p *ResourceListPane) columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, hdr := range headers {
		widths[i] = runewidth.StringWidth(hdr)
		floor := otherColMinWidth
		if i == 0 {
			floor = firstColMinWidth
		}
		if widths[i] < floor {
			widths[i] = floor
		}
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if w := runewidth.StringWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func joinRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(runewidth.FillRight(runewidth.Truncate(cell, width, "…"), width))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
