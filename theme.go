package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/collectdash/internal/backend"
)

// Catppuccin Mocha.
var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorWarn     lipgloss.Color = "#f9e2af"
	colorError    lipgloss.Color = "#f38ba8"
	colorTabOff   lipgloss.Color = "#7f849c"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerAppStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Background(colorSurface1).Foreground(colorText)
	markedRowStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorMuted)

	filterBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurface0)
	filterActiveStyle = lipgloss.NewStyle().
				Foreground(colorWarn).
				Background(colorSurface0).
				Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle = lipgloss.NewStyle().Background(colorMantle)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
	modalTitleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// Triage flag colors, one per status.
var (
	flagWillPayStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	flagWillNotPayStyle   = lipgloss.NewStyle().Foreground(colorError)
	flagWillTakeCareStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

// flagGlyph renders the one-cell triage marker for a row.
func flagGlyph(c backend.ColorStatus) string {
	switch c {
	case backend.ColorWillPay:
		return flagWillPayStyle.Render("●")
	case backend.ColorWillNotPay:
		return flagWillNotPayStyle.Render("●")
	case backend.ColorWillTakeCare:
		return flagWillTakeCareStyle.Render("●")
	default:
		return " "
	}
}
