package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitavk/ktile/internal/config"
	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// ErrPaneNotFound is returned when a pane id no longer names a live
// pane, typically because an async result outlived its pane.
var ErrPaneNotFound = errors.New("pane not found")

// MessageType classifies transient status bar messages.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// Model is the single state struct behind the TUI. The controller
// mutates it, the view renders it.
type Model struct {
	// --- App wiring ---
	Config     config.Config
	Dispatch   *Dispatcher
	Client     *kube.Client
	Forwards   *kube.ForwardRegistry
	ConfigDir  string // query history and saved queries live here
	Kubeconfig string // resolved kubeconfig path, watched for context changes

	// --- Terminal ---
	Width  int
	Height int
	Ready  bool

	// --- Tabs and panes ---
	Tabs  *TabManager
	Panes map[pane.ID]Pane

	// --- Input mode and overlays ---
	Mode          InputMode
	Confirm       *ConfirmDialog
	Prompt        *TextPrompt
	Picker        *Selector
	Switcher      *ResourceSwitcher
	ForwardDialog *PortForwardDialog
	QueryDialog   *QueryDialog
	FilterBuffer  string

	// --- Cluster scope (mirrors the active tab's scope) ---
	ContextName string
	Namespace   string
	Contexts    []string
	Namespaces  []string

	// --- Status bar ---
	StatusBarMessage     string
	StatusBarMessageType MessageType
	StatusBarClearCancel chan struct{}

	// --- Async plumbing ---
	Events        chan tea.Msg
	WatcherSeq    map[pane.ID]uint64
	WatcherCancel map[pane.ID]context.CancelFunc

	// --- UI components ---
	Spinner spinner.Model

	Quitting bool
}

// New assembles a model around an established cluster client. The
// first tab and its panes are attached by the controller.
func New(cfg config.Config, client *kube.Client, configDir string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(design.ColorAccent)

	return &Model{
		Config:        cfg,
		Dispatch:      NewDispatcher(cfg.Keybindings),
		Client:        client,
		Forwards:      kube.NewForwardRegistry(),
		ConfigDir:     configDir,
		Tabs:          NewTabManager(),
		Panes:         make(map[pane.ID]Pane),
		Mode:          ModeNormal,
		Namespace:     cfg.General.DefaultNamespace,
		Events:        make(chan tea.Msg, 100),
		WatcherSeq:    make(map[pane.ID]uint64),
		WatcherCancel: make(map[pane.ID]context.CancelFunc),
		Spinner:       sp,
	}
}

// WaitForEvent blocks on the shared event channel and delivers the
// next message to the update loop. The controller re-arms it after
// every delivery so background goroutines always have a reader.
func (m *Model) WaitForEvent() tea.Cmd {
	ch := m.Events
	return func() tea.Msg {
		return <-ch
	}
}

// PostEvent enqueues a message for the update loop without blocking.
// Messages posted while the channel is full are dropped; stream
// producers resend on their next wake.
func (m *Model) PostEvent(msg tea.Msg) {
	select {
	case m.Events <- msg:
	default:
	}
}

// ActiveTab returns the tab currently shown.
func (m *Model) ActiveTab() *Tab {
	return m.Tabs.Active()
}

// FocusedID returns the id of the focused pane in the active tab.
func (m *Model) FocusedID() pane.ID {
	return m.Tabs.Active().Focused
}

// FocusedPane returns the focused pane implementation, or nil while a
// pane is still being constructed.
func (m *Model) FocusedPane() Pane {
	return m.Panes[m.FocusedID()]
}

// PaneByID resolves a pane id, failing with ErrPaneNotFound when the
// pane has been closed since the id was captured.
func (m *Model) PaneByID(id pane.ID) (Pane, error) {
	p, ok := m.Panes[id]
	if !ok {
		return nil, fmt.Errorf("pane %d: %w", id, ErrPaneNotFound)
	}
	return p, nil
}

// SupportsInsert reports whether the focused pane accepts raw typed
// input, which gates entering insert mode.
func (m *Model) SupportsInsert() bool {
	p := m.FocusedPane()
	if p == nil {
		return false
	}
	switch p.ViewType().Kind {
	case pane.ViewTerminal, pane.ViewExec:
		return true
	default:
		return false
	}
}

// SetStatusMessage puts a transient message on the status bar and
// schedules its removal. An earlier pending clear is cancelled so it
// cannot wipe this newer message.
func (m *Model) SetStatusMessage(message string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}

	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(t time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{}
		}
	})
}

// ClearStatusBar wipes the current transient message.
func (m *Model) ClearStatusBar() {
	m.StatusBarMessage = ""
	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
		m.StatusBarClearCancel = nil
	}
}

// SyncScopeFromTab restores the model's cluster scope fields from a
// tab, used on every tab switch.
func (m *Model) SyncScopeFromTab(t *Tab) {
	if t.Scope.Client != nil {
		m.Client = t.Scope.Client
	}
	if t.Scope.Context != "" {
		m.ContextName = t.Scope.Context
	}
	if t.Scope.Namespace != "" {
		m.Namespace = t.Scope.Namespace
	}
	if t.Scope.Contexts != nil {
		m.Contexts = t.Scope.Contexts
	}
	if t.Scope.Namespaces != nil {
		m.Namespaces = t.Scope.Namespaces
	}
}

// SaveScopeToTab records the model's cluster scope on a tab before
// switching away from it.
func (m *Model) SaveScopeToTab(t *Tab) {
	t.Scope = TabScope{
		Client:     m.Client,
		Context:    m.ContextName,
		Namespace:  m.Namespace,
		Contexts:   m.Contexts,
		Namespaces: m.Namespaces,
	}
}
