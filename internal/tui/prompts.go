package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Confirm shows a yes/no confirmation prompt and returns the choice.
func Confirm(title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&confirmed),
		),
	).WithTheme(pipdoctorTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// MultiSelect shows a multi-select prompt and returns the selected values.
func MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error) {
	selected := append([]string(nil), defaults...)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description(description).
				Options(options...).
				Value(&selected),
		),
	).WithTheme(pipdoctorTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}

// WithSpinner runs fn while displaying a spinner with the given title.
// In non-interactive environments fn runs without any spinner.
func WithSpinner(title string, fn func()) error {
	if !IsInteractive() {
		fn()
		return nil
	}
	return spinner.New().Title(title).Action(fn).Run()
}
