package model

import (
	"github.com/gitavk/ktile/internal/config"
)

// InputMode gates how physical keys are interpreted. Normal mode
// consults the full keymap; every other mode consumes keys itself and
// falls back to global bindings only.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeInsert
	ModeFilter
	ModeNamespaceSelector
	ModeContextSelector
	ModeResourceSwitcher
	ModeConfirm
	ModePrompt
	ModePortForwardDialog
	ModeQueryDialog
	ModeQueryEditor
	ModeQueryBrowse
	ModeQueryHistory
	ModeSavedQueries
)

// Name is the label shown in the status bar mode badge.
func (m InputMode) Name() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeInsert:
		return "Insert"
	case ModeFilter:
		return "Filter"
	case ModeNamespaceSelector:
		return "Namespace"
	case ModeContextSelector:
		return "Context"
	case ModeResourceSwitcher:
		return "Resource"
	case ModeConfirm:
		return "Confirm"
	case ModePrompt:
		return "Prompt"
	case ModePortForwardDialog:
		return "PortForward"
	case ModeQueryDialog:
		return "QueryDialog"
	case ModeQueryEditor:
		return "QueryEditor"
	case ModeQueryBrowse:
		return "QueryBrowse"
	case ModeQueryHistory:
		return "QueryHistory"
	case ModeSavedQueries:
		return "SavedQueries"
	default:
		return "Normal"
	}
}

// Binding pairs a command name with the keybinding group it came from.
type Binding struct {
	Command string
	Group   string
}

// Dispatcher resolves normalized keys to commands. Global bindings
// apply in every mode; the full map applies in Normal mode. Bindings
// are flattened in group dispatch order, so on a key collision the
// earlier group wins.
type Dispatcher struct {
	globals map[string]Binding
	normal  map[string]Binding
	keys    map[string]string
	groups  map[string]string
}

// NewDispatcher flattens a keybinding config into lookup maps. Keys
// that fail normalization are skipped; config validation reports them
// separately.
func NewDispatcher(k config.KeybindingsConfig) *Dispatcher {
	d := &Dispatcher{
		globals: make(map[string]Binding),
		normal:  make(map[string]Binding),
		keys:    make(map[string]string),
		groups:  make(map[string]string),
	}
	d.Rebind(k)
	return d
}

// Rebind replaces every binding, used when the config hot-reloads.
func (d *Dispatcher) Rebind(k config.KeybindingsConfig) {
	clear(d.globals)
	clear(d.normal)
	clear(d.keys)
	clear(d.groups)
	for _, group := range k.Groups() {
		for command, key := range group.Bindings {
			normalized, err := config.NormalizeKey(key)
			if err != nil {
				continue
			}
			d.groups[command] = group.Name
			if _, taken := d.normal[normalized]; taken {
				continue
			}
			b := Binding{Command: command, Group: group.Name}
			d.normal[normalized] = b
			if group.Name == "global" {
				d.globals[normalized] = b
			}
			if _, seen := d.keys[command]; !seen {
				d.keys[command] = normalized
			}
		}
	}
}

// Global resolves a key against global bindings only.
func (d *Dispatcher) Global(key string) (Binding, bool) {
	b, ok := d.globals[key]
	return b, ok
}

// Normal resolves a key against the full keymap.
func (d *Dispatcher) Normal(key string) (Binding, bool) {
	b, ok := d.normal[key]
	return b, ok
}

// KeyFor returns the key bound to a command, or "" when unbound.
// Used for status bar hints and the help pane.
func (d *Dispatcher) KeyFor(command string) string {
	return d.keys[command]
}

// NeedsConfirm reports whether a command must pass a confirmation
// dialog before running.
func (d *Dispatcher) NeedsConfirm(command string) bool {
	return command == CmdQuit || d.groups[command] == "mutate"
}
