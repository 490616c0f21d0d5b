package model

import (
	"errors"
	"fmt"

	"github.com/gitavk/ktile/internal/kube"
	"github.com/gitavk/ktile/internal/tui/pane"
)

// ErrLastTab is returned when closing the only remaining tab.
var ErrLastTab = errors.New("cannot close the last tab")

// TabScope is the cluster scope a tab was last used with. Switching
// tabs restores it, so different tabs can point at different contexts
// and namespaces.
type TabScope struct {
	Client     *kube.Client
	Context    string
	Namespace  string
	Contexts   []string
	Namespaces []string
}

// Tab is one workspace: a pane tree plus focus and fullscreen state.
type Tab struct {
	ID         int
	Name       string
	Tree       *pane.Tree
	Focused    pane.ID
	Fullscreen pane.ID // 0 when no pane is fullscreen
	Scope      TabScope
}

// TabManager owns the tab list and allocates pane ids from a single
// space shared by every tree, so a pane id identifies a pane globally.
type TabManager struct {
	tabs       []*Tab
	active     int
	nextTabID  int
	nextPaneID pane.ID
}

func NewTabManager() *TabManager {
	return &TabManager{nextTabID: 1, nextPaneID: 1}
}

// AllocPaneID hands out the next pane id.
func (tm *TabManager) AllocPaneID() pane.ID {
	id := tm.nextPaneID
	tm.nextPaneID++
	return id
}

// RollbackPaneID returns the most recently allocated id to the pool.
// Only valid when the id was never attached to a tree.
func (tm *TabManager) RollbackPaneID(id pane.ID) {
	if tm.nextPaneID == id+1 {
		tm.nextPaneID = id
	}
}

// AddTab appends a tab holding a single fresh pane and makes it
// active. The root pane id is returned through the tab's Focused.
func (tm *TabManager) AddTab(name string, scope TabScope) *Tab {
	root := tm.AllocPaneID()
	t := &Tab{
		ID:      tm.nextTabID,
		Name:    name,
		Tree:    pane.NewTreeWithRoot(root),
		Focused: root,
		Scope:   scope,
	}
	tm.nextTabID++
	tm.tabs = append(tm.tabs, t)
	tm.active = len(tm.tabs) - 1
	return t
}

// NextName returns the default name for a new tab.
func (tm *TabManager) NextName() string {
	return fmt.Sprintf("Tab %d", len(tm.tabs)+1)
}

// Active returns the current tab. The manager always holds at least
// one tab once the app has started.
func (tm *TabManager) Active() *Tab {
	return tm.tabs[tm.active]
}

func (tm *TabManager) ActiveIndex() int {
	return tm.active
}

func (tm *TabManager) Tabs() []*Tab {
	return tm.tabs
}

func (tm *TabManager) Count() int {
	return len(tm.tabs)
}

// SwitchTo activates the tab at index i.
func (tm *TabManager) SwitchTo(i int) bool {
	if i < 0 || i >= len(tm.tabs) {
		return false
	}
	tm.active = i
	return true
}

// CloseActive removes the current tab and returns it. Closing the last
// tab fails with ErrLastTab; callers decide what that means.
func (tm *TabManager) CloseActive() (*Tab, error) {
	if len(tm.tabs) <= 1 {
		return nil, ErrLastTab
	}
	closed := tm.tabs[tm.active]
	tm.tabs = append(tm.tabs[:tm.active], tm.tabs[tm.active+1:]...)
	if tm.active >= len(tm.tabs) {
		tm.active = len(tm.tabs) - 1
	}
	return closed, nil
}

// ReplaceActive swaps the current tab for a fresh one holding a single
// pane, keeping the tab's position. Used when closing the last tab.
func (tm *TabManager) ReplaceActive(name string, scope TabScope) *Tab {
	root := tm.AllocPaneID()
	t := &Tab{
		ID:      tm.nextTabID,
		Name:    name,
		Tree:    pane.NewTreeWithRoot(root),
		Focused: root,
		Scope:   scope,
	}
	tm.nextTabID++
	tm.tabs[tm.active] = t
	return t
}

// Rename sets a tab's display name.
func (tm *TabManager) Rename(id int, name string) {
	for _, t := range tm.tabs {
		if t.ID == id {
			t.Name = name
			return
		}
	}
}

// FindByName returns the index of the first tab with the given name.
func (tm *TabManager) FindByName(name string) (int, bool) {
	for i, t := range tm.tabs {
		if t.Name == name {
			return i, true
		}
	}
	return 0, false
}

// OwnerOf returns the tab containing the pane, or nil.
func (tm *TabManager) OwnerOf(id pane.ID) *Tab {
	for _, t := range tm.tabs {
		if t.Tree.Contains(id) {
			return t
		}
	}
	return nil
}
