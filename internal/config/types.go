package config

import "os"

// Config is the top-level configuration structure for ktile.
type Config struct {
	General     GeneralConfig     `yaml:"general"`
	Terminal    TerminalConfig    `yaml:"terminal"`
	Features    FeatureFlags      `yaml:"features"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
}

// GeneralConfig holds behaviour that is not tied to a single pane kind.
type GeneralConfig struct {
	TickRateMs        int    `yaml:"tickRateMs"`        // UI refresh tick in milliseconds
	DefaultNamespace  string `yaml:"defaultNamespace"`  // namespace selected at startup
	DefaultView       string `yaml:"defaultView"`       // resource kind shown in the first pane
	Editor            string `yaml:"editor"`            // external editor, "$EDITOR" defers to the environment
	Shell             string `yaml:"shell"`             // terminal pane shell, "$SHELL" defers to the environment
	LogTailLines      int64  `yaml:"logTailLines"`      // lines requested when a log stream opens
	ConfirmDelete     bool   `yaml:"confirmDelete"`     // ask before deleting resources
	ShowManagedFields bool   `yaml:"showManagedFields"` // keep managedFields in YAML views
	QueryOpenNewTab   bool   `yaml:"queryOpenNewTab"`   // open query editors in a fresh tab
}

// EditorCommand resolves the editor to launch, falling back to $EDITOR and vi.
func (g GeneralConfig) EditorCommand() string {
	if g.Editor != "" && g.Editor != "$EDITOR" {
		return g.Editor
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vi"
}

// ShellCommand resolves the shell for terminal panes, falling back to $SHELL
// and sh.
func (g GeneralConfig) ShellCommand() string {
	if g.Shell != "" && g.Shell != "$SHELL" {
		return g.Shell
	}
	if v := os.Getenv("SHELL"); v != "" {
		return v
	}
	return "sh"
}

// TerminalConfig configures embedded terminal panes.
type TerminalConfig struct {
	ScrollbackLines int    `yaml:"scrollbackLines"`
	CursorStyle     string `yaml:"cursorStyle"` // "block", "underline" or "bar"
}

// FeatureFlags switch optional subsystems on and off.
type FeatureFlags struct {
	HotReload      bool `yaml:"hotReload"`      // reload the config when its file changes
	CommandPalette bool `yaml:"commandPalette"` // the ":" resource switcher overlay
	PortForward    bool `yaml:"portForward"`    // port-forward commands and dialog
}

// KeybindingsConfig maps command names to key strings, split into the groups
// the dispatcher consults in order. A config file only has to list the
// bindings it changes; the rest keep their defaults.
type KeybindingsConfig struct {
	Global     map[string]string `yaml:"global"`
	Mutate     map[string]string `yaml:"mutate"`
	Interact   map[string]string `yaml:"interact"`
	Browse     map[string]string `yaml:"browse"`
	Navigation map[string]string `yaml:"navigation"`
	TUI        map[string]string `yaml:"tui"`
}

// KeyGroup pairs a keybinding group name with its bindings.
type KeyGroup struct {
	Name     string
	Bindings map[string]string
}

// Groups returns the keybinding groups in dispatch order.
func (k KeybindingsConfig) Groups() []KeyGroup {
	return []KeyGroup{
		{Name: "global", Bindings: k.Global},
		{Name: "mutate", Bindings: k.Mutate},
		{Name: "interact", Bindings: k.Interact},
		{Name: "browse", Bindings: k.Browse},
		{Name: "navigation", Bindings: k.Navigation},
		{Name: "tui", Bindings: k.TUI},
	}
}
