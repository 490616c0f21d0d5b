package panes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitavk/ktile/internal/tui/model"
)

func TestSanitizeLogLineStripsEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"sgr color", "\x1b[31mred\x1b[0m text", "red text"},
		{"multi param csi", "\x1b[1;32;40mbold\x1b[m", "bold"},
		{"cursor moves", "a\x1b[2Ab\x1b[10;20Hc", "abc"},
		{"osc title bel", "\x1b]0;window title\x07after", "after"},
		{"osc title st", "\x1b]8;;http://x\x1b\\link", "link"},
		{"carriage return dropped", "progress\rdone", "progressdone"},
		{"tab kept", "col1\tcol2", "col1\tcol2"},
		{"control to space", "a\x01b\x08c", "a b c"},
		{"bare escape", "x\x1bzy", "xy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeLogLine(tt.in))
		})
	}
}

func TestLogsPaneScrollAnchorsToBottom(t *testing.T) {
	p := NewLogs("default", "api-0", "app")
	p.lines = []string{"one", "two", "three", "four", "five"}
	p.status = "Streaming"

	assert.True(t, p.follow)

	p.Handle(model.ScrollUp)
	assert.False(t, p.follow, "scrolling up pauses follow")
	assert.Equal(t, 1, p.offset)

	p.Handle(model.ScrollDown)
	assert.Equal(t, 0, p.offset)
	assert.True(t, p.follow, "reaching the bottom resumes follow")
}

func TestLogsPaneToggleFollowSnapsToTail(t *testing.T) {
	p := NewLogs("default", "api-0", "app")
	p.lines = []string{"one", "two", "three"}

	p.Handle(model.ScrollUp)
	p.Handle(model.ScrollUp)
	assert.Equal(t, 2, p.offset)

	p.Handle(model.ToggleFollow)
	assert.True(t, p.follow)
	assert.Equal(t, 0, p.offset)
}

func TestLogsPaneFilterNarrowsAndResets(t *testing.T) {
	p := NewLogs("default", "api-0", "app")
	p.lines = []string{"GET /health 200", "ERROR db timeout", "GET /users 200"}
	p.Handle(model.ScrollUp)

	p.SetFilter("error")
	assert.Equal(t, 0, p.offset)
	assert.Equal(t, []string{"ERROR db timeout"}, p.FilteredLines())

	p.ClearFilter()
	assert.Len(t, p.FilteredLines(), 3)
}

func TestLogsPaneViewTexture(t *testing.T) {
	p := NewLogs("default", "api-0", "app")

	view := p.View(60, 10, true)
	assert.Contains(t, view, "[logs:api-0 @ default]")
	assert.Contains(t, view, "Waiting for log lines... (Connecting...)")
	assert.Contains(t, view, "FOLLOW | 0 lines | Connecting...")

	p.lines = []string{"line-a", "line-b"}
	p.status = "Streaming"
	p.Handle(model.ScrollUp)
	view = p.View(60, 10, true)
	assert.Contains(t, view, "PAUSED | 2 lines | Streaming")
	assert.Contains(t, view, "line-a")
}

func TestLogsPaneViewClampsOffset(t *testing.T) {
	p := NewLogs("default", "api-0", "app")
	p.lines = []string{"one", "two"}
	for i := 0; i < 50; i++ {
		p.Handle(model.ScrollUp)
	}
	view := p.View(40, 8, false)
	assert.Contains(t, view, "one")
	assert.LessOrEqual(t, p.offset, len(p.lines))
}

func TestLogsPaneRetarget(t *testing.T) {
	p := NewLogs("default", "api-0", "app")
	p.lines = []string{"old"}
	p.filter = "x"
	p.Handle(model.ScrollUp)

	p.Retarget("prod", "db-1", "postgres")
	assert.Equal(t, "prod", p.Namespace())
	assert.Equal(t, "db-1", p.Pod())
	assert.Empty(t, p.Lines())
	assert.Empty(t, p.FilterText())
	assert.True(t, p.follow)
	assert.Equal(t, "Connecting...", p.Status())
}
