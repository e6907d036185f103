package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors of the editor. Accent colors are tuned to carry
// black text for badges and focused buttons.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Danger    lipgloss.Color
	Warning   lipgloss.Color
	Muted     lipgloss.Color
	Bg        lipgloss.Color
	Fg        lipgloss.Color
	Focus     lipgloss.Color
}

// DefaultTheme is tuned for light terminal backgrounds.
func DefaultTheme() Theme {
	return Theme{
		Primary:   "#818CF8", // indigo
		Secondary: "#34D399", // emerald
		Danger:    "#F87171",
		Warning:   "#FBBF24",
		Muted:     "#64748B", // slate, readable on white
		Bg:        "#FFFFFF",
		Fg:        "#0F172A",
		Focus:     "#60A5FA",
	}
}

// ThemeFromOptions overlays colors keyed by name ("primary", "danger", ...)
// onto the default theme. Unknown names and empty values are ignored.
func ThemeFromOptions(opts map[string]string) Theme {
	t := DefaultTheme()
	fields := map[string]*lipgloss.Color{
		"primary":   &t.Primary,
		"secondary": &t.Secondary,
		"danger":    &t.Danger,
		"warning":   &t.Warning,
		"muted":     &t.Muted,
		"bg":        &t.Bg,
		"fg":        &t.Fg,
		"focus":     &t.Focus,
	}
	for k, v := range opts {
		if f, ok := fields[k]; ok && v != "" {
			*f = lipgloss.Color(v)
		}
	}
	return t
}

type styles struct {
	title lipgloss.Style
	jump  lipgloss.Style
	count lipgloss.Style
	muted lipgloss.Style

	box, selectedBox       lipgloss.Style
	header, selectedHeader lipgloss.Style
	preview                lipgloss.Style
	action                 lipgloss.Style

	button, focusedButton lipgloss.Style
	danger                lipgloss.Style

	caption             lipgloss.Style
	field, focusedField lipgloss.Style
	cursor              lipgloss.Style

	modal lipgloss.Style

	status, statusErr lipgloss.Style
	help              lipgloss.Style

	thumb, track lipgloss.Style
}

func newStyles(t Theme) styles {
	base := lipgloss.NewStyle()
	return styles{
		title: base.Bold(true).Foreground(t.Primary),
		jump:  base.Foreground(t.Primary),
		count: base.Bold(true).Foreground(t.Fg),
		muted: base.Foreground(t.Muted),

		box:            base.Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
		selectedBox:    base.Border(lipgloss.RoundedBorder()).BorderForeground(t.Focus).Padding(0, 1),
		header:         base.Bold(true).Foreground(t.Fg),
		selectedHeader: base.Bold(true).Foreground(t.Primary),
		preview:        base.Foreground(t.Muted),
		action:         base.Foreground(t.Danger),

		button:        base.Foreground(t.Fg),
		focusedButton: base.Bold(true).Foreground(t.Bg).Background(t.Focus),
		danger:        base.Bold(true).Foreground(t.Bg).Background(t.Danger),

		caption:      base.Bold(true).Foreground(t.Fg),
		field:        base.Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted),
		focusedField: base.Border(lipgloss.RoundedBorder()).BorderForeground(t.Focus),
		cursor:       base.Reverse(true),

		modal: base.Border(lipgloss.DoubleBorder()).BorderForeground(t.Warning).Padding(0, 2),

		status:    base.Foreground(t.Secondary),
		statusErr: base.Bold(true).Foreground(t.Danger),
		help:      base.Foreground(t.Muted),

		thumb: base.Foreground(t.Focus),
		track: base.Foreground(t.Muted),
	}
}
