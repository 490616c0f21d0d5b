package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitavk/ktile/internal/tui/pane"
)

// Command is a pane-scoped action produced by the dispatcher. The
// controller resolves the focused pane and forwards the command to it;
// each pane implementation reacts to the subset that makes sense for
// its content.
type Command int

const (
	ScrollUp Command = iota
	ScrollDown
	SelectPrev
	SelectNext
	Select
	Back
	GoToTop
	GoToBottom
	PageUp
	PageDown
	ScrollLeft
	ScrollRight
	ToggleFollow
	ToggleWrap
	SortColumn
	ToggleSortOrder
	CopyContent
)

// paneCommands maps keybinding command names to pane-scoped commands.
var paneCommands = map[string]Command{
	CmdScrollUp:        ScrollUp,
	CmdScrollDown:      ScrollDown,
	CmdSelectPrev:      SelectPrev,
	CmdSelectNext:      SelectNext,
	CmdSelect:          Select,
	CmdBack:            Back,
	CmdGoToTop:         GoToTop,
	CmdGoToBottom:      GoToBottom,
	CmdPageUp:          PageUp,
	CmdPageDown:        PageDown,
	CmdScrollLeft:      ScrollLeft,
	CmdScrollRight:     ScrollRight,
	CmdToggleFollow:    ToggleFollow,
	CmdToggleWrap:      ToggleWrap,
	CmdSortColumn:      SortColumn,
	CmdToggleSortOrder: ToggleSortOrder,
	CmdCopy:            CopyContent,
}

// PaneCommandFor resolves a keybinding command name to a pane-scoped
// command. The second return is false for app-level commands.
func PaneCommandFor(name string) (Command, bool) {
	c, ok := paneCommands[name]
	return c, ok
}

// Pane is the behavior shared by every leaf content implementation.
// Panes render themselves into a fixed box, react to pane-scoped
// commands, and receive raw keys while the app is in insert or filter
// style modes. OnFocusChange fires when focus moves onto the pane and
// names the view the user came from. Close releases any background
// resources the pane holds.
type Pane interface {
	ViewType() pane.ViewType
	View(width, height int, focused bool) string
	Handle(cmd Command) tea.Cmd
	HandleKey(msg tea.KeyMsg) tea.Cmd
	OnFocusChange(prev pane.ViewType)
	Close()
}
