package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitavk/ktile/internal/config"
)

func TestDispatcherResolvesDefaults(t *testing.T) {
	d := NewDispatcher(config.DefaultConfig().Keybindings)

	b, ok := d.Normal("ctrl+c")
	require.True(t, ok)
	assert.Equal(t, CmdQuit, b.Command)
	assert.Equal(t, "global", b.Group)

	b, ok = d.Normal("alt+v")
	require.True(t, ok)
	assert.Equal(t, CmdSplitVertical, b.Command)
	assert.Equal(t, "tui", b.Group)

	_, ok = d.Normal("ctrl+z")
	assert.False(t, ok)
}

func TestDispatcherGlobalSubset(t *testing.T) {
	d := NewDispatcher(config.DefaultConfig().Keybindings)

	_, ok := d.Global("ctrl+c")
	assert.True(t, ok)

	// Mutate bindings resolve in normal mode only.
	_, ok = d.Global("ctrl+d")
	assert.False(t, ok)
	_, ok = d.Normal("ctrl+d")
	assert.True(t, ok)
}

func TestDispatcherCollisionEarlierGroupWins(t *testing.T) {
	k := config.DefaultConfig().Keybindings
	k.TUI["new_tab"] = "ctrl+c" // collides with quit

	d := NewDispatcher(k)
	b, ok := d.Normal("ctrl+c")
	require.True(t, ok)
	assert.Equal(t, CmdQuit, b.Command, "global outranks tui on a collision")
	assert.Empty(t, d.KeyFor(CmdNewTab), "the losing command ends up unbound")
}

func TestDispatcherKeyFor(t *testing.T) {
	d := NewDispatcher(config.DefaultConfig().Keybindings)
	assert.Equal(t, "ctrl+c", d.KeyFor(CmdQuit))
	assert.Equal(t, "tab", d.KeyFor(CmdFocusNext))
	assert.Empty(t, d.KeyFor("no_such_command"))
}

func TestNeedsConfirm(t *testing.T) {
	d := NewDispatcher(config.DefaultConfig().Keybindings)
	assert.True(t, d.NeedsConfirm(CmdQuit))
	assert.True(t, d.NeedsConfirm(CmdDelete))
	assert.True(t, d.NeedsConfirm(CmdScale))
	assert.True(t, d.NeedsConfirm(CmdRestartRollout))
	assert.False(t, d.NeedsConfirm(CmdViewYAML))
	assert.False(t, d.NeedsConfirm(CmdSplitVertical))
}

func TestRebindReplacesEverything(t *testing.T) {
	d := NewDispatcher(config.DefaultConfig().Keybindings)
	require.Equal(t, "ctrl+c", d.KeyFor(CmdQuit))

	k := config.DefaultConfig().Keybindings
	k.Global["quit"] = "ctrl+x"
	d.Rebind(k)

	assert.Equal(t, "ctrl+x", d.KeyFor(CmdQuit))
	_, ok := d.Normal("ctrl+c")
	assert.False(t, ok, "the old chord is free after a rebind")
}

func TestRebindSkipsUnparsableKeys(t *testing.T) {
	k := config.DefaultConfig().Keybindings
	k.Global["quit"] = "not a key"

	d := NewDispatcher(k)
	assert.Empty(t, d.KeyFor(CmdQuit))
}

func TestInputModeNames(t *testing.T) {
	assert.Equal(t, "Normal", ModeNormal.Name())
	assert.Equal(t, "Insert", ModeInsert.Name())
	assert.Equal(t, "QueryEditor", ModeQueryEditor.Name())
	assert.Equal(t, "Normal", InputMode(99).Name())
}
