package panes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/gitavk/ktile/internal/history"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
	"github.com/gitavk/ktile/internal/tui/pane"
)

type querySub int

const (
	queryEditing querySub = iota
	queryBrowsing
	queryHistoryPopup
	querySavedPopup
	querySavePopup
	queryExportPopup
)

type queryStatus int

const (
	statusConnecting queryStatus = iota
	statusConnected
	statusExecuting
	statusConnectFailed
)

// QueryPane is a SQL workbench against the PostgreSQL instance in one
// pod. The editor sits on top, results below, with popups for history,
// saved queries and CSV export. Statements run through psql inside the
// pod, so no local client or open port is needed.
type QueryPane struct {
	id     pane.ID
	vt     pane.ViewType
	target kube.QueryTarget

	editor *queryEditor
	result *queryResult
	comp   *completionState
	sub    querySub

	status    queryStatus
	version   string
	statusErr string
	queryErr  string

	tables  []string
	columns map[string][]string

	hist  *history.QueryHistory
	saved *history.SavedQueries

	histEntries []history.QueryEntry
	histSel     int

	savedSel       int
	savedFilter    string
	savedFiltering bool
	savedRenaming  bool
	renameBuf      string

	saveNameBuf string
	exportBuf   string
}

// NewQuery opens a workbench for target. The pane starts in the editor
// with the connection probe still in flight.
func NewQuery(id pane.ID, target kube.QueryTarget, configDir string) *QueryPane {
	return &QueryPane{
		id:     id,
		vt:     pane.QueryView(target.Namespace, target.Pod),
		target: target,
		editor: newQueryEditor(),
		result: &queryResult{},
		sub:    queryEditing,
		status: statusConnecting,
		hist:   history.LoadQueryHistory(configDir, target.Namespace, target.Pod, target.Database),
		saved:  history.LoadSavedQueries(configDir),
	}
}

func (p *QueryPane) ViewType() pane.ViewType { return p.vt }

func (p *QueryPane) OnFocusChange(pane.ViewType) {}
func (p *QueryPane) Target() kube.QueryTarget { return p.target }

// Mode reports which input mode the app should show for this pane's
// current state.
func (p *QueryPane) Mode() model.InputMode {
	switch p.sub {
	case queryEditing:
		return model.ModeQueryEditor
	case queryHistoryPopup:
		return model.ModeQueryHistory
	case querySavedPopup:
		return model.ModeSavedQueries
	default:
		return model.ModeQueryBrowse
	}
}

// InPopup reports whether a popup is open, so escape closes it instead
// of leaving the pane's modes.
func (p *QueryPane) InPopup() bool {
	return p.sub != queryEditing && p.sub != queryBrowsing
}

// SetConnected records a successful version probe.
func (p *QueryPane) SetConnected(version string) {
	p.status = statusConnected
	p.version = version
}

// SetConnectError records a failed connection probe.
func (p *QueryPane) SetConnectError(msg string) {
	p.status = statusConnectFailed
	p.statusErr = msg
}

// SetResult installs the rows of an executed statement and moves to
// the result grid, unless a popup took over in the meantime.
func (p *QueryPane) SetResult(res kube.QueryResult) {
	p.result.set(res)
	p.status = statusConnected
	p.queryErr = ""
	if !p.InPopup() {
		p.sub = queryBrowsing
	}
}

// SetQueryError reports a failed statement, keeping the previous rows.
func (p *QueryPane) SetQueryError(msg string) {
	p.status = statusConnected
	p.queryErr = msg
}

// SetSchema installs table and column names for completion.
func (p *QueryPane) SetSchema(tables []string, columns map[string][]string) {
	p.tables = tables
	p.columns = columns
}

// Handle lets normal-mode navigation drive the result grid without
// entering the pane's own modes.
func (p *QueryPane) Handle(cmd model.Command) tea.Cmd {
	switch cmd {
	case model.ScrollUp, model.SelectPrev:
		p.result.up()
	case model.ScrollDown, model.SelectNext:
		p.result.down()
	case model.PageUp:
		p.result.pageUp()
	case model.PageDown:
		p.result.pageDown()
	case model.GoToTop:
		p.result.top()
	case model.GoToBottom:
		p.result.bottom()
	case model.ScrollLeft:
		p.result.left()
	case model.ScrollRight:
		p.result.right()
	}
	return nil
}

func (p *QueryPane) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.sub {
	case queryEditing:
		return p.handleEditing(msg)
	case queryBrowsing:
		return p.handleBrowsing(msg)
	case queryHistoryPopup:
		return p.handleHistory(msg)
	case querySavedPopup:
		return p.handleSaved(msg)
	case querySavePopup:
		return p.handleSaveName(msg)
	case queryExportPopup:
		return p.handleExport(msg)
	}
	return nil
}

func (p *QueryPane) Close() {}

func (p *QueryPane) handleEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if p.comp != nil {
			p.comp = nil
			return nil
		}
		p.sub = queryBrowsing
		return nil
	case "alt+enter", "ctrl+e":
		return p.execute()
	case "enter":
		p.comp = nil
		p.editor.Newline()
		return nil
	case "tab":
		if p.comp != nil {
			p.acceptCompletion()
			return nil
		}
		p.editor.Indent()
		return nil
	case "shift+tab":
		p.editor.Deindent()
		return nil
	case "backspace":
		p.editor.Backspace()
		p.refreshCompletion()
		return nil
	case "up":
		if p.comp != nil {
			p.comp.prev()
			return nil
		}
		p.editor.Up()
		return nil
	case "down":
		if p.comp != nil {
			p.comp.next()
			return nil
		}
		p.editor.Down()
		return nil
	case "left":
		p.comp = nil
		p.editor.Left()
		return nil
	case "right":
		p.comp = nil
		p.editor.Right()
		return nil
	case "home":
		p.comp = nil
		p.editor.Home()
		return nil
	case "end":
		p.comp = nil
		p.editor.End()
		return nil
	case " ":
		p.editor.InsertRune(' ')
		p.comp = nil
		return nil
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			p.editor.InsertRune(r)
		}
		p.refreshCompletion()
	}
	return nil
}

func (p *QueryPane) execute() tea.Cmd {
	sql := strings.TrimSpace(p.editor.Text())
	if sql == "" || p.status == statusExecuting {
		return nil
	}
	p.comp = nil
	p.status = statusExecuting
	p.hist.Append(sql)
	id := p.id
	return func() tea.Msg { return model.QueryExecuteMsg{PaneID: id, SQL: sql} }
}

func (p *QueryPane) refreshCompletion() {
	before := p.editor.BeforeCursor()
	if trailingToken(before) == "" && !strings.HasSuffix(before, ".") {
		p.comp = nil
		return
	}
	p.comp = completeSQL(before, p.editor.Text(), p.tables, p.columns)
}

func (p *QueryPane) acceptCompletion() {
	item := p.comp.current()
	p.editor.DeleteBefore(p.comp.prefixLen)
	p.editor.InsertString(item)
	p.comp = nil
}

func (p *QueryPane) handleBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "i", "e":
		p.sub = queryEditing
	case "j", "down":
		p.result.down()
	case "k", "up":
		p.result.up()
	case "g":
		p.result.top()
	case "G":
		p.result.bottom()
	case "pgup":
		p.result.pageUp()
	case "pgdown":
		p.result.pageDown()
	case "h", "left":
		p.result.left()
	case "l", "right":
		p.result.right()
	case "ctrl+h":
		p.histEntries = p.hist.Entries()
		p.histSel = 0
		p.sub = queryHistoryPopup
	case "s":
		p.saveNameBuf = ""
		p.sub = querySavePopup
	case "o":
		p.savedSel = 0
		p.savedFilter = ""
		p.savedFiltering = false
		p.savedRenaming = false
		p.sub = querySavedPopup
	case "y":
		return p.copyRow()
	case "Y":
		return p.copyAll()
	case "E":
		if p.result.empty() {
			return nil
		}
		p.exportBuf = defaultExportPath()
		p.sub = queryExportPopup
	}
	return nil
}

func (p *QueryPane) copyRow() tea.Cmd {
	line, ok := p.result.csvRow()
	if !ok {
		return nil
	}
	if err := clipboard.WriteAll(strings.TrimRight(line, "\n")); err != nil {
		return toast("Clipboard: "+err.Error(), model.StatusBarError)
	}
	return toast("Copied row", model.StatusBarSuccess)
}

func (p *QueryPane) copyAll() tea.Cmd {
	if p.result.empty() {
		return nil
	}
	if err := clipboard.WriteAll(p.result.csvAll()); err != nil {
		return toast("Clipboard: "+err.Error(), model.StatusBarError)
	}
	return toast(fmt.Sprintf("Copied %d rows", len(p.result.rows)), model.StatusBarSuccess)
}

func (p *QueryPane) handleHistory(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.sub = queryBrowsing
	case "j", "down":
		if p.histSel < len(p.histEntries)-1 {
			p.histSel++
		}
	case "k", "up":
		if p.histSel > 0 {
			p.histSel--
		}
	case "enter":
		if p.histSel < len(p.histEntries) {
			p.editor.SetText(p.histEntries[p.histSel].SQL)
			p.sub = queryEditing
		}
	case "d":
		p.hist.Delete(p.histSel)
		p.histEntries = p.hist.Entries()
		if p.histSel >= len(p.histEntries) {
			p.histSel = max(0, len(p.histEntries)-1)
		}
	}
	return nil
}

func (p *QueryPane) handleSaved(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if p.savedRenaming {
		switch key {
		case "esc":
			p.savedRenaming = false
		case "enter":
			if idx, ok := p.savedIndex(); ok && strings.TrimSpace(p.renameBuf) != "" {
				p.saved.Rename(idx, strings.TrimSpace(p.renameBuf))
			}
			p.savedRenaming = false
		case "backspace":
			p.renameBuf = trimLastRune(p.renameBuf)
		default:
			p.renameBuf = appendKey(p.renameBuf, msg)
		}
		return nil
	}

	if p.savedFiltering {
		switch key {
		case "esc":
			p.savedFilter = ""
			p.savedFiltering = false
			p.savedSel = 0
		case "enter":
			p.savedFiltering = false
		case "backspace":
			p.savedFilter = trimLastRune(p.savedFilter)
			p.savedSel = 0
		default:
			p.savedFilter = appendKey(p.savedFilter, msg)
			p.savedSel = 0
		}
		return nil
	}

	switch key {
	case "esc":
		p.sub = queryBrowsing
	case "j", "down":
		if p.savedSel < len(p.savedIndexes())-1 {
			p.savedSel++
		}
	case "k", "up":
		if p.savedSel > 0 {
			p.savedSel--
		}
	case "enter":
		if idx, ok := p.savedIndex(); ok {
			p.editor.SetText(p.saved.Entries()[idx].SQL)
			p.sub = queryEditing
		}
	case "d":
		if idx, ok := p.savedIndex(); ok {
			p.saved.Delete(idx)
			if p.savedSel >= len(p.savedIndexes()) {
				p.savedSel = max(0, len(p.savedIndexes())-1)
			}
		}
	case "e":
		if idx, ok := p.savedIndex(); ok {
			p.renameBuf = p.saved.Entries()[idx].Name
			p.savedRenaming = true
		}
	case "/":
		p.savedFiltering = true
	}
	return nil
}

// savedIndexes returns indexes into the saved collection matching the
// filter, best match first.
func (p *QueryPane) savedIndexes() []int {
	entries := p.saved.Entries()
	if p.savedFilter == "" {
		idx := make([]int, len(entries))
		for i := range entries {
			idx[i] = i
		}
		return idx
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	matches := fuzzy.Find(p.savedFilter, names)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

func (p *QueryPane) savedIndex() (int, bool) {
	idx := p.savedIndexes()
	if p.savedSel < 0 || p.savedSel >= len(idx) {
		return 0, false
	}
	return idx[p.savedSel], true
}

func (p *QueryPane) handleSaveName(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.sub = queryBrowsing
	case "enter":
		name := strings.TrimSpace(p.saveNameBuf)
		if name == "" {
			return nil
		}
		p.sub = queryBrowsing
		if err := p.saved.Add(name, strings.TrimSpace(p.editor.Text())); err != nil {
			return toast("Save failed: "+err.Error(), model.StatusBarError)
		}
		return toast("Saved query "+name, model.StatusBarSuccess)
	case "backspace":
		p.saveNameBuf = trimLastRune(p.saveNameBuf)
	default:
		p.saveNameBuf = appendKey(p.saveNameBuf, msg)
	}
	return nil
}

func (p *QueryPane) handleExport(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.sub = queryBrowsing
	case "enter":
		path := strings.TrimSpace(p.exportBuf)
		if path == "" {
			return nil
		}
		p.sub = queryBrowsing
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return toast("Export failed: "+err.Error(), model.StatusBarError)
		}
		if err := os.WriteFile(path, []byte(p.result.csvAll()), 0o644); err != nil {
			return toast("Export failed: "+err.Error(), model.StatusBarError)
		}
		return toast(fmt.Sprintf("Exported %d rows to %s", len(p.result.rows), path), model.StatusBarSuccess)
	case "backspace":
		p.exportBuf = trimLastRune(p.exportBuf)
	default:
		p.exportBuf = appendKey(p.exportBuf, msg)
	}
	return nil
}

func defaultExportPath() string {
	home, _ := os.UserHomeDir()
	name := fmt.Sprintf("query_%s.csv", time.Now().Format("20060102-150405"))
	return filepath.Join(home, "Downloads", name)
}

func (p *QueryPane) View(width, height int, focused bool) string {
	title := fmt.Sprintf(" [query:%s/%s] ", p.target.Pod, p.target.Namespace)
	innerW, innerH := width-2, height-2
	if innerW < 4 || innerH < 4 {
		return frame(width, height, focused, title, "", "")
	}

	if p.InPopup() {
		return frame(width, height, focused, title, "", p.renderPopup(innerW, innerH))
	}

	editorH := innerH / 3
	if editorH < 3 {
		editorH = 3
	}
	if editorH > 10 {
		editorH = 10
	}
	if editorH > innerH-3 {
		editorH = max(1, innerH-3)
	}
	resultH := innerH - editorH - 2

	var b strings.Builder
	b.WriteString(p.renderEditor(innerW, editorH))
	b.WriteByte('\n')
	b.WriteString(design.TextDimStyle.Render(strings.Repeat("─", innerW)))
	b.WriteByte('\n')
	b.WriteString(p.renderResults(innerW, resultH))
	b.WriteByte('\n')
	b.WriteString(design.TextDimStyle.Render(ansi.Truncate(p.statusLine(), innerW, "…")))

	return frame(width, height, focused, title, "", b.String())
}

func (p *QueryPane) renderEditor(w, h int) string {
	compH := 0
	if p.comp != nil && p.sub == queryEditing {
		compH = min(len(p.comp.items), h-1)
	}
	out := splitPad(p.editor.View(w, h-compH, p.sub == queryEditing), h-compH)
	if compH > 0 {
		for i := 0; i < compH; i++ {
			item := "  " + p.comp.items[i]
			if i == p.comp.selected {
				item = design.SelectionStyle.Render("▸ " + p.comp.items[i])
			}
			out = append(out, item)
		}
	}
	return strings.Join(out, "\n")
}

func (p *QueryPane) renderResults(w, h int) string {
	if h < 1 {
		return ""
	}
	switch {
	case p.queryErr != "":
		wrapped := strings.Split(ansi.Hardwrap("Error: "+p.queryErr, w, false), "\n")
		if len(wrapped) > h {
			wrapped = wrapped[:h]
		}
		return design.TextErrorStyle.Render(strings.Join(wrapped, "\n"))
	case p.result.empty():
		return design.TextDimStyle.Render("No results yet")
	default:
		return strings.Join(splitPad(p.result.render(w, h), h), "\n")
	}
}

func (p *QueryPane) statusLine() string {
	var s string
	switch p.status {
	case statusConnecting:
		s = "Connecting…"
	case statusExecuting:
		s = "Executing…"
	case statusConnectFailed:
		s = "Connection failed: " + p.statusErr
	default:
		v := p.version
		if v == "" {
			v = "Ready"
		}
		s = "Connected · " + v
	}
	if len(p.result.columns) > 1 && p.result.lastCol > 0 {
		s += fmt.Sprintf("  cols %d–%d of %d", p.result.firstCol, p.result.lastCol, len(p.result.columns))
	}
	if len(p.result.rows) >= 100 || p.result.estBytes() >= 64000 {
		s += "  Y copies all · E exports to file"
	}
	return s
}

func (p *QueryPane) renderPopup(w, h int) string {
	var box string
	switch p.sub {
	case queryHistoryPopup:
		box = p.renderHistoryPopup(w, h)
	case querySavedPopup:
		box = p.renderSavedPopup(w, h)
	case querySavePopup:
		box = p.renderLinePopup(" Save Query ", "Name: "+p.saveNameBuf+"▌", w)
	case queryExportPopup:
		display := p.exportBuf
		if budget := w*3/4 - 8; budget > 1 && len(display) > budget {
			display = "…" + display[len(display)-budget+1:]
		}
		box = p.renderLinePopup(" Export to File ", "Path: "+display, w)
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (p *QueryPane) renderLinePopup(title, line string, w int) string {
	boxW := min(w-4, max(30, len(line)+4))
	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render(title))
	b.WriteByte('\n')
	b.WriteString(ansi.Truncate(line, boxW, "…"))
	b.WriteByte('\n')
	b.WriteString(design.OverlayHintStyle.Render("Enter confirm  Esc cancel"))
	return design.OverlayStyle.Width(boxW).Render(b.String())
}

func (p *QueryPane) renderHistoryPopup(w, h int) string {
	boxW := max(30, w*4/5)
	boxH := max(6, h*7/10)
	listW := boxW * 2 / 5
	previewW := boxW - listW - 3

	var names []string
	for _, e := range p.histEntries {
		names = append(names, firstLine(e.SQL))
	}
	preview := ""
	if p.histSel < len(p.histEntries) {
		preview = p.histEntries[p.histSel].SQL
	}

	title := fmt.Sprintf(" Query History (%d) ", len(p.histEntries))
	hint := "j/k navigate  Enter select  d delete  Esc cancel"
	return p.renderSplitPopup(title, names, p.histSel, preview, hint, "", boxW, boxH, listW, previewW)
}

func (p *QueryPane) renderSavedPopup(w, h int) string {
	boxW := max(30, w*4/5)
	boxH := max(6, h*7/10)
	listW := boxW * 2 / 5
	previewW := boxW - listW - 3

	idx := p.savedIndexes()
	entries := p.saved.Entries()
	var names []string
	for _, i := range idx {
		names = append(names, entries[i].Name)
	}
	preview := ""
	if p.savedSel < len(idx) {
		preview = entries[idx[p.savedSel]].SQL
	}

	title := fmt.Sprintf(" Saved Queries (%d) ", len(entries))
	var hint, input string
	switch {
	case p.savedRenaming:
		hint = "Enter confirm  Esc cancel"
		input = "Name: " + p.renameBuf + "▌"
	case p.savedFiltering:
		hint = "j/k nav  Enter load  d del  e rename  / filter  Esc clear filter"
		input = "Filter: " + p.savedFilter + "▌"
	default:
		hint = "j/k nav  Enter load  d del  e rename  / filter  Esc close"
		if p.savedFilter != "" {
			input = "Filter: " + p.savedFilter + "▌"
		}
	}
	return p.renderSplitPopup(title, names, p.savedSel, preview, hint, input, boxW, boxH, listW, previewW)
}

// renderSplitPopup draws the shared two-column popup: a selectable list
// on the left, a wrapped SQL preview on the right.
func (p *QueryPane) renderSplitPopup(title string, names []string, sel int, preview, hint, input string, boxW, boxH, listW, previewW int) string {
	bodyH := boxH - 2
	if input != "" {
		bodyH--
	}
	bodyH = max(1, bodyH)

	list := make([]string, 0, bodyH)
	start := max(0, min(sel-bodyH/2, len(names)-bodyH))
	for i := start; i < len(names) && len(list) < bodyH; i++ {
		line := "  " + names[i]
		if i == sel {
			line = design.SelectionStyle.Render("> " + names[i])
		}
		list = append(list, clipLine(line, listW))
	}
	for len(list) < bodyH {
		list = append(list, strings.Repeat(" ", listW))
	}

	prev := strings.Split(ansi.Hardwrap(preview, max(1, previewW), false), "\n")
	if len(prev) > bodyH {
		prev = prev[:bodyH]
	}
	for len(prev) < bodyH {
		prev = append(prev, "")
	}

	var b strings.Builder
	b.WriteString(design.OverlayTitleStyle.Render(title))
	b.WriteByte('\n')
	for i := 0; i < bodyH; i++ {
		b.WriteString(list[i])
		b.WriteString(design.TextDimStyle.Render(" │ "))
		b.WriteString(prev[i])
		b.WriteByte('\n')
	}
	if input != "" {
		b.WriteString(ansi.Truncate(input, boxW, "…"))
		b.WriteByte('\n')
	}
	b.WriteString(design.OverlayHintStyle.Render(ansi.Truncate(hint, boxW, "…")))
	return design.OverlayStyle.Render(b.String())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// splitPad splits rendered text into exactly h lines.
func splitPad(s string, h int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lines
}

func appendKey(buf string, msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes {
		return buf + string(msg.Runes)
	}
	if msg.String() == " " {
		return buf + " "
	}
	return buf
}

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func toast(text string, t model.MessageType) tea.Cmd {
	return func() tea.Msg { return model.ToastMsg{Text: text, Type: t} }
}
