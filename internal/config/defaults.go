package config

// DefaultConfig returns the built-in configuration that file overlays are
// applied on top of.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TickRateMs:       250,
			DefaultNamespace: "default",
			DefaultView:      "pods",
			Editor:           "$EDITOR",
			Shell:            "$SHELL",
			LogTailLines:     1000,
			ConfirmDelete:    true,
			QueryOpenNewTab:  true,
		},
		Terminal: TerminalConfig{
			ScrollbackLines: 10000,
			CursorStyle:     "block",
		},
		Features: FeatureFlags{
			HotReload:      true,
			CommandPalette: true,
			PortForward:    true,
		},
		Keybindings: defaultKeybindings(),
	}
}

func defaultKeybindings() KeybindingsConfig {
	return KeybindingsConfig{
		Global: map[string]string{
			"quit":               "ctrl+c",
			"help":               "?",
			"app_logs":           "ctrl+l",
			"port_forwards":      "ctrl+p",
			"enter_insert":       "i",
			"leave_insert":       "ctrl+q",
			"namespace_selector": "n",
			"context_selector":   "c",
		},
		Mutate: map[string]string{
			"delete":          "ctrl+d",
			"scale":           "s",
			"restart_rollout": "ctrl+r",
		},
		Interact: map[string]string{
			"exec":         "x",
			"open_query":   "e",
			"port_forward": "shift+f",
			"view_logs":    "l",
		},
		Browse: map[string]string{
			"view_yaml":             "y",
			"view_describe":         "d",
			"copy":                  "ctrl+y",
			"save_logs":             "shift+s",
			"download_logs":         "ctrl+s",
			"filter":                "/",
			"resource_switcher":     ":",
			"sort_column":           "o",
			"toggle_sort_order":     "shift+o",
			"toggle_all_namespaces": "a",
			"toggle_follow":         "f",
			"toggle_wrap":           "w",
		},
		Navigation: map[string]string{
			"scroll_up":    "k",
			"scroll_down":  "j",
			"select_prev":  "up",
			"select_next":  "down",
			"select":       "enter",
			"back":         "esc",
			"go_to_top":    "g",
			"go_to_bottom": "shift+g",
			"page_up":      "pageup",
			"page_down":    "pagedown",
			"scroll_left":  "left",
			"scroll_right": "right",
		},
		TUI: map[string]string{
			"split_vertical":    "alt+v",
			"split_horizontal":  "alt+s",
			"close_pane":        "alt+w",
			"toggle_fullscreen": "alt+f",
			"focus_up":          "alt+up",
			"focus_down":        "alt+down",
			"focus_left":        "alt+left",
			"focus_right":       "alt+right",
			"focus_next":        "tab",
			"focus_prev":        "shift+tab",
			"resize_grow":       "alt+]",
			"resize_shrink":     "alt+[",
			"new_tab":           "alt+t",
			"close_tab":         "alt+x",
			"open_terminal":     "alt+enter",
			"goto_tab_1":        "alt+1",
			"goto_tab_2":        "alt+2",
			"goto_tab_3":        "alt+3",
			"goto_tab_4":        "alt+4",
			"goto_tab_5":        "alt+5",
			"goto_tab_6":        "alt+6",
			"goto_tab_7":        "alt+7",
			"goto_tab_8":        "alt+8",
			"goto_tab_9":        "alt+9",
		},
	}
}
