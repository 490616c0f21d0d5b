package model

// Keybinding command names. These are the identifiers a config file
// binds keys to, grouped the way the dispatcher consults them.
const (
	// global
	CmdQuit              = "quit"
	CmdHelp              = "help"
	CmdAppLogs           = "app_logs"
	CmdPortForwards      = "port_forwards"
	CmdEnterInsert       = "enter_insert"
	CmdLeaveInsert       = "leave_insert"
	CmdNamespaceSelector = "namespace_selector"
	CmdContextSelector   = "context_selector"

	// mutate
	CmdDelete         = "delete"
	CmdScale          = "scale"
	CmdRestartRollout = "restart_rollout"

	// interact
	CmdExec        = "exec"
	CmdOpenQuery   = "open_query"
	CmdPortForward = "port_forward"
	CmdViewLogs    = "view_logs"

	// browse
	CmdViewYAML            = "view_yaml"
	CmdViewDescribe        = "view_describe"
	CmdCopy                = "copy"
	CmdSaveLogs            = "save_logs"
	CmdDownloadLogs        = "download_logs"
	CmdFilter              = "filter"
	CmdResourceSwitcher    = "resource_switcher"
	CmdSortColumn          = "sort_column"
	CmdToggleSortOrder     = "toggle_sort_order"
	CmdToggleAllNamespaces = "toggle_all_namespaces"
	CmdToggleFollow        = "toggle_follow"
	CmdToggleWrap          = "toggle_wrap"

	// navigation
	CmdScrollUp    = "scroll_up"
	CmdScrollDown  = "scroll_down"
	CmdSelectPrev  = "select_prev"
	CmdSelectNext  = "select_next"
	CmdSelect      = "select"
	CmdBack        = "back"
	CmdGoToTop     = "go_to_top"
	CmdGoToBottom  = "go_to_bottom"
	CmdPageUp      = "page_up"
	CmdPageDown    = "page_down"
	CmdScrollLeft  = "scroll_left"
	CmdScrollRight = "scroll_right"

	// tui
	CmdSplitVertical    = "split_vertical"
	CmdSplitHorizontal  = "split_horizontal"
	CmdClosePane        = "close_pane"
	CmdToggleFullscreen = "toggle_fullscreen"
	CmdFocusUp          = "focus_up"
	CmdFocusDown        = "focus_down"
	CmdFocusLeft        = "focus_left"
	CmdFocusRight       = "focus_right"
	CmdFocusNext        = "focus_next"
	CmdFocusPrev        = "focus_prev"
	CmdResizeGrow       = "resize_grow"
	CmdResizeShrink     = "resize_shrink"
	CmdNewTab           = "new_tab"
	CmdCloseTab         = "close_tab"
	CmdOpenTerminal     = "open_terminal"
)

// CommandInfo describes one command for the help pane.
type CommandInfo struct {
	Name        string
	Group       string
	Description string
}

// Commands lists every bindable command in help-pane order.
func Commands() []CommandInfo {
	return []CommandInfo{
		{CmdQuit, "global", "Quit"},
		{CmdHelp, "global", "Toggle help pane"},
		{CmdAppLogs, "global", "Toggle application logs tab"},
		{CmdPortForwards, "global", "Toggle port forwards tab"},
		{CmdEnterInsert, "global", "Enter insert mode"},
		{CmdLeaveInsert, "global", "Leave insert mode"},
		{CmdNamespaceSelector, "global", "Switch namespace"},
		{CmdContextSelector, "global", "Switch context"},

		{CmdDelete, "mutate", "Delete selected resource"},
		{CmdScale, "mutate", "Scale selected workload"},
		{CmdRestartRollout, "mutate", "Restart rollout"},

		{CmdExec, "interact", "Open a shell in the selected pod"},
		{CmdOpenQuery, "interact", "Open a SQL console against the selected pod"},
		{CmdPortForward, "interact", "Toggle a port-forward for the selected pod"},
		{CmdViewLogs, "interact", "Stream logs of the selected pod"},

		{CmdViewYAML, "browse", "View resource YAML"},
		{CmdViewDescribe, "browse", "Describe resource"},
		{CmdCopy, "browse", "Copy pane content to the clipboard"},
		{CmdSaveLogs, "browse", "Save pane content to a file"},
		{CmdDownloadLogs, "browse", "Download the full log to a file"},
		{CmdFilter, "browse", "Filter rows"},
		{CmdResourceSwitcher, "browse", "Switch resource kind"},
		{CmdSortColumn, "browse", "Cycle sort column"},
		{CmdToggleSortOrder, "browse", "Reverse sort order"},
		{CmdToggleAllNamespaces, "browse", "Toggle all-namespaces"},
		{CmdToggleFollow, "browse", "Toggle log follow"},
		{CmdToggleWrap, "browse", "Toggle line wrap"},

		{CmdScrollUp, "navigation", "Scroll up"},
		{CmdScrollDown, "navigation", "Scroll down"},
		{CmdSelectPrev, "navigation", "Previous row"},
		{CmdSelectNext, "navigation", "Next row"},
		{CmdSelect, "navigation", "Open selection"},
		{CmdBack, "navigation", "Back / close detail"},
		{CmdGoToTop, "navigation", "Jump to top"},
		{CmdGoToBottom, "navigation", "Jump to bottom"},
		{CmdPageUp, "navigation", "Page up"},
		{CmdPageDown, "navigation", "Page down"},
		{CmdScrollLeft, "navigation", "Scroll left"},
		{CmdScrollRight, "navigation", "Scroll right"},

		{CmdSplitVertical, "tui", "Split pane vertically"},
		{CmdSplitHorizontal, "tui", "Split pane horizontally"},
		{CmdClosePane, "tui", "Close focused pane"},
		{CmdToggleFullscreen, "tui", "Toggle pane fullscreen"},
		{CmdFocusUp, "tui", "Focus pane above"},
		{CmdFocusDown, "tui", "Focus pane below"},
		{CmdFocusLeft, "tui", "Focus pane left"},
		{CmdFocusRight, "tui", "Focus pane right"},
		{CmdFocusNext, "tui", "Focus next pane"},
		{CmdFocusPrev, "tui", "Focus previous pane"},
		{CmdResizeGrow, "tui", "Grow focused pane"},
		{CmdResizeShrink, "tui", "Shrink focused pane"},
		{CmdNewTab, "tui", "New tab"},
		{CmdCloseTab, "tui", "Close tab"},
		{CmdOpenTerminal, "tui", "Open a local terminal pane"},
		{"goto_tab_1", "tui", "Go to tab 1..9"},
	}
}
