package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"q", "q"},
		{"Q", "Q"},
		{"/", "/"},
		{"shift+g", "G"},
		{"ctrl+c", "ctrl+c"},
		{"ctrl+C", "ctrl+c"},
		{"ctrl+shift+r", "ctrl+r"},
		{"alt+v", "alt+v"},
		{"alt+]", "alt+]"},
		{"alt+enter", "alt+enter"},
		{"ctrl+alt+d", "alt+ctrl+d"},
		{"shift+tab", "shift+tab"},
		{"shift+up", "shift+up"},
		{"ctrl+shift+up", "ctrl+shift+up"},
		{"pageup", "pgup"},
		{"pagedown", "pgdown"},
		{"escape", "esc"},
		{"space", " "},
		{"ctrl+space", "ctrl+@"},
		{"f5", "f5"},
		{" enter ", "enter"},
	}
	for _, tc := range cases {
		got, err := NormalizeKey(tc.in)
		require.NoError(t, err, "key %q", tc.in)
		assert.Equal(t, tc.want, got, "key %q", tc.in)
	}
}

func TestNormalizeKeyRejectsBadStrings(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"meta+x",
		"ctrl+",
		"ctrl+/",
		"shift+1",
		"enterr",
		"ab",
		"f0",
		"f21",
		"ctrl+f5",
	} {
		_, err := NormalizeKey(in)
		assert.Error(t, err, "key %q", in)
	}
}

func TestValidateKeybindingsFlagsBadEntries(t *testing.T) {
	kb := defaultKeybindings()
	kb.Browse["filter"] = "super+/"
	kb.Global["quit"] = ""

	errs := ValidateKeybindings(kb)
	require.Len(t, errs, 2)
	assert.Equal(t, "browse", errs[0].Group)
	assert.Equal(t, "filter", errs[0].Command)
	assert.Equal(t, "global", errs[1].Group)
	assert.Equal(t, "quit", errs[1].Command)
	assert.Contains(t, errs[0].Error(), "super")
}

func TestValidateKeybindingsAcceptsDefaults(t *testing.T) {
	kb := defaultKeybindings()
	assert.Empty(t, ValidateKeybindings(kb))
	assert.Empty(t, CheckCollisions(kb))
}

func TestCheckCollisionsDetectsDuplicates(t *testing.T) {
	kb := KeybindingsConfig{
		Global:     map[string]string{"quit": "q"},
		Browse:     map[string]string{"view_yaml": "q"},
		Navigation: map[string]string{"go_to_bottom": "shift+g", "scroll_down": "G"},
	}

	collisions := CheckCollisions(kb)
	require.Len(t, collisions, 2)

	byKey := make(map[string]Collision)
	for _, c := range collisions {
		byKey[c.Key] = c
	}

	q, ok := byKey["q"]
	require.True(t, ok)
	assert.Equal(t, "global.quit", q.First)
	assert.Equal(t, "browse.view_yaml", q.Second)

	// shift+g and G normalize to the same key.
	g, ok := byKey["G"]
	require.True(t, ok)
	assert.Equal(t, "navigation.go_to_bottom", g.First)
	assert.Equal(t, "navigation.scroll_down", g.Second)
}

func TestCheckCollisionsNoneWhenUnique(t *testing.T) {
	kb := KeybindingsConfig{
		Global: map[string]string{"quit": "q"},
		Browse: map[string]string{"view_yaml": "y"},
	}
	assert.Empty(t, CheckCollisions(kb))
}

func TestGroupsDispatchOrder(t *testing.T) {
	var names []string
	for _, g := range (KeybindingsConfig{}).Groups() {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"global", "mutate", "interact", "browse", "navigation", "tui"}, names)
}
