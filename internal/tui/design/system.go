package design

import (
	"github.com/charmbracelet/lipgloss"
)

// Component dimensions
const (
	MinPaneWidth  = 20
	MinPaneHeight = 3
)

// Color palette with consistent light/dark mode support.
var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#0D9488",
		Dark:  "#2DD4BF",
	}

	// State colors
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#D97706",
		Dark:  "#F59E0B",
	}
	ColorInfo = lipgloss.AdaptiveColor{
		Light: "#2563EB",
		Dark:  "#3B82F6",
	}

	// Neutral colors
	ColorSurface = lipgloss.AdaptiveColor{
		Light: "#F9FAFB",
		Dark:  "#1A1A1A",
	}
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#E5E7EB",
		Dark:  "#404040",
	}
	ColorBorderFocus = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}

	// Text colors
	ColorText = lipgloss.AdaptiveColor{
		Light: "#111827",
		Dark:  "#F9FAFB",
	}
	ColorTextDim = lipgloss.AdaptiveColor{
		Light: "#9CA3AF",
		Dark:  "#6B7280",
	}
)

// Base styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextDimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	TextSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	TextErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	TextWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)

	TextInfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Pane chrome
var (
	PaneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PaneBorderFocusStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PaneTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SelectionStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// Status bar and tab bar
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurface).
			Foreground(ColorText)

	ModeBadgeStyle = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	ModeBadgeInsertStyle = lipgloss.NewStyle().
				Background(ColorWarning).
				Foreground(lipgloss.Color("#000000")).
				Bold(true).
				Padding(0, 1)

	TabBarStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Overlay dialogs
var (
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	OverlayTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	OverlayHintStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)
)

// PhaseStyle picks a color for a workload status cell. Healthy phases
// render green, transitional ones yellow, failures red.
func PhaseStyle(status string) lipgloss.Style {
	switch status {
	case "Running", "Succeeded", "Active", "Bound", "Ready", "True":
		return TextSuccessStyle
	case "Pending", "ContainerCreating", "Terminating":
		return TextWarningStyle
	case "Failed", "Error", "CrashLoopBackOff", "ImagePullBackOff", "ErrImagePull", "Evicted":
		return TextErrorStyle
	default:
		return TextWarningStyle
	}
}
