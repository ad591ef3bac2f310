package termview

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	plain   lipgloss.Style
	warn    lipgloss.Style
	error   lipgloss.Style
	info    lipgloss.Style
	panel   lipgloss.Style
	statBox lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	accent := lipgloss.Color("#5B9CF5")
	muted := lipgloss.Color("#8A93A6")
	border := lipgloss.Color("#3A4150")

	return styles{
		title: r.NewStyle().Bold(true).Foreground(accent),
		label: r.NewStyle().Foreground(muted),
		value: r.NewStyle().Bold(true),
		muted: r.NewStyle().Foreground(muted).Italic(true),
		plain: r.NewStyle(),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#D29922")),
		error: r.NewStyle().Foreground(lipgloss.Color("#F85149")),
		info:  r.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		statBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MarginRight(1).
			Width(22),
	}
}
