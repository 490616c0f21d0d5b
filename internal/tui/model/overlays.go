package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/gitavk/ktile/internal/kube"
)

// Selector is the namespace and context picker overlay: a fuzzy filter
// over a fixed item list with wrap-around selection. The filter text
// lives in a textinput so cursor movement and editing come for free.
type Selector struct {
	Title    string
	Items    []string
	Input    textinput.Model
	Selected int
}

func NewSelector(title string, items []string) *Selector {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64
	ti.Focus()
	return &Selector{Title: title, Items: items, Input: ti}
}

// SetItems replaces the item list, keeping the filter. Used when an
// async listing lands after the overlay opened.
func (s *Selector) SetItems(items []string) {
	s.Items = items
	s.clamp()
}

// Filtered returns the items matching the typed filter, best match
// first. An empty filter passes the list through unchanged.
func (s *Selector) Filtered() []string {
	q := s.Input.Value()
	if q == "" {
		return s.Items
	}
	matches := fuzzy.Find(q, s.Items)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}
	return out
}

// Update feeds a key to the filter input. Selection resets to the top
// match whenever the text changes.
func (s *Selector) Update(msg tea.Msg) tea.Cmd {
	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		s.Selected = 0
	}
	return cmd
}

func (s *Selector) clamp() {
	if n := len(s.Filtered()); s.Selected >= n {
		s.Selected = 0
	}
}

// MoveUp moves the selection, wrapping past the top.
func (s *Selector) MoveUp() {
	if n := len(s.Filtered()); n > 0 {
		s.Selected = (s.Selected + n - 1) % n
	}
}

// MoveDown moves the selection, wrapping past the bottom.
func (s *Selector) MoveDown() {
	if n := len(s.Filtered()); n > 0 {
		s.Selected = (s.Selected + 1) % n
	}
}

// Current returns the selected item.
func (s *Selector) Current() (string, bool) {
	filtered := s.Filtered()
	if s.Selected < 0 || s.Selected >= len(filtered) {
		return "", false
	}
	return filtered[s.Selected], true
}

// ResourceSwitcher is the ":" overlay that replaces the focused pane's
// resource kind. Matching is a substring test against both the short
// name and the display name; navigation wraps.
type ResourceSwitcher struct {
	Input    string
	Selected int
}

// Filtered returns the kinds matching the typed input.
func (r *ResourceSwitcher) Filtered() []kube.ResourceKind {
	kinds := kube.AllKinds()
	if r.Input == "" {
		return kinds
	}
	needle := strings.ToLower(r.Input)
	var out []kube.ResourceKind
	for _, k := range kinds {
		if strings.Contains(strings.ToLower(k.ShortName()), needle) ||
			strings.Contains(strings.ToLower(k.DisplayName()), needle) {
			out = append(out, k)
		}
	}
	return out
}

// Type appends input and clamps the selection to the new result set.
func (r *ResourceSwitcher) Type(text string) {
	r.Input += text
	r.clamp()
}

// Backspace removes the last input rune and clamps the selection.
func (r *ResourceSwitcher) Backspace() {
	if r.Input == "" {
		return
	}
	runes := []rune(r.Input)
	r.Input = string(runes[:len(runes)-1])
	r.clamp()
}

func (r *ResourceSwitcher) clamp() {
	if n := len(r.Filtered()); r.Selected >= n {
		if n == 0 {
			r.Selected = 0
		} else {
			r.Selected = n - 1
		}
	}
}

// MoveNext advances the selection, wrapping at the end.
func (r *ResourceSwitcher) MoveNext() {
	n := len(r.Filtered())
	if n > 0 {
		r.Selected = (r.Selected + 1) % n
	}
}

// MovePrev moves the selection back, wrapping at the start.
func (r *ResourceSwitcher) MovePrev() {
	n := len(r.Filtered())
	if n > 0 {
		r.Selected = (r.Selected + n - 1) % n
	}
}

// Confirm returns the selected kind.
func (r *ResourceSwitcher) Confirm() (kube.ResourceKind, bool) {
	filtered := r.Filtered()
	if r.Selected < 0 || r.Selected >= len(filtered) {
		return "", false
	}
	return filtered[r.Selected], true
}

// ResourceRef identifies one object for a pending mutation.
type ResourceRef struct {
	Kind      kube.ResourceKind
	Namespace string
	Name      string
}

// ConfirmDialog is a yes/no gate in front of a command. Accepting
// re-dispatches Command with the stored target.
type ConfirmDialog struct {
	Message string
	Command string
	Ref     ResourceRef
}

// TextPrompt is a one-line input overlay, currently used for scale
// replica counts.
type TextPrompt struct {
	Title   string
	Input   string
	Command string
	Ref     ResourceRef
}

func (p *TextPrompt) Type(text string) {
	p.Input += text
}

func (p *TextPrompt) Backspace() {
	if p.Input == "" {
		return
	}
	runes := []rune(p.Input)
	p.Input = string(runes[:len(runes)-1])
}

// Port forward dialog fields.
const (
	FieldLocal = iota
	FieldRemote
)

// PortForwardDialog collects local and remote ports before starting a
// forward. Local defaults to "0", meaning an ephemeral port.
type PortForwardDialog struct {
	Namespace   string
	Pod         string
	Local       string
	Remote      string
	ActiveField int
}

func (d *PortForwardDialog) Type(text string) {
	if d.ActiveField == FieldLocal {
		d.Local += text
	} else {
		d.Remote += text
	}
}

func (d *PortForwardDialog) Backspace() {
	field := &d.Local
	if d.ActiveField == FieldRemote {
		field = &d.Remote
	}
	if *field == "" {
		return
	}
	runes := []rune(*field)
	*field = string(runes[:len(runes)-1])
}

// NextField cycles between the two port inputs.
func (d *PortForwardDialog) NextField() {
	d.ActiveField = (d.ActiveField + 1) % 2
}

// Query dialog fields.
const (
	FieldDatabase = iota
	FieldUser
	FieldPassword
	FieldPort
)

// QueryDialog reviews detected connection settings before a query
// pane opens.
type QueryDialog struct {
	Namespace   string
	Pod         string
	Container   string
	Database    string
	User        string
	Password    string
	Port        string
	ActiveField int
}

func NewQueryDialog(target kube.QueryTarget) *QueryDialog {
	return &QueryDialog{
		Namespace: target.Namespace,
		Pod:       target.Pod,
		Container: target.Container,
		Database:  target.Database,
		User:      target.User,
		Password:  target.Password,
		Port:      target.Port,
	}
}

func (d *QueryDialog) field() *string {
	switch d.ActiveField {
	case FieldUser:
		return &d.User
	case FieldPassword:
		return &d.Password
	case FieldPort:
		return &d.Port
	default:
		return &d.Database
	}
}

func (d *QueryDialog) Type(text string) {
	*d.field() += text
}

func (d *QueryDialog) Backspace() {
	field := d.field()
	if *field == "" {
		return
	}
	runes := []rune(*field)
	*field = string(runes[:len(runes)-1])
}

// NextField cycles through the four inputs.
func (d *QueryDialog) NextField() {
	d.ActiveField = (d.ActiveField + 1) % 4
}

// Target assembles the connection settings as edited.
func (d *QueryDialog) Target() kube.QueryTarget {
	return kube.QueryTarget{
		Namespace: d.Namespace,
		Pod:       d.Pod,
		Container: d.Container,
		Database:  d.Database,
		User:      d.User,
		Password:  d.Password,
		Port:      d.Port,
	}
}
