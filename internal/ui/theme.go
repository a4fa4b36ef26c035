package ui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the console. ANSI 256-color codes
// keep rendering consistent across common terminals.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Danger     lipgloss.Color
	Success    lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Accent:     lipgloss.Color("39"),
	Danger:     lipgloss.Color("203"),
	Success:    lipgloss.Color("78"),

	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("81"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

// StatusColor maps a ticket's answered state to a palette color.
func (theme Theme) StatusColor(answered bool) lipgloss.Color {
	if answered {
		return theme.Success
	}
	return theme.Danger
}
