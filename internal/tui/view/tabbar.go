package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/gitavk/ktile/internal/tui/design"
	"github.com/gitavk/ktile/internal/tui/model"
)

// renderTabBar draws the tab strip, active tab highlighted. The number
// prefix matches the alt+N binding that jumps to the tab.
func renderTabBar(m *model.Model) string {
	var parts []string
	active := m.Tabs.ActiveIndex()
	for i, t := range m.Tabs.Tabs() {
		label := fmt.Sprintf(" %d:%s ", i+1, t.Name)
		if i == active {
			parts = append(parts, design.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, design.TabBarStyle.Render(label))
		}
	}
	bar := strings.Join(parts, design.TextDimStyle.Render("│"))

	w := ansi.StringWidth(bar)
	if w < m.Width {
		bar += strings.Repeat(" ", m.Width-w)
	}
	return ansi.Truncate(bar, m.Width, "")
}
