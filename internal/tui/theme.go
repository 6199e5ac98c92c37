package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// pipdoctorTheme returns the default huh theme used for prompts: the base
// theme with the same accent colors the printer package uses for output.
func pipdoctorTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.Color("6")
	t.Focused.Title = t.Focused.Title.Foreground(accent).Bold(true)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(lipgloss.Color("2"))

	return t
}
