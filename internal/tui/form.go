package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meterlog/internal/models"
)

// NewReadingForm builds the add form. Each input is checked with the same
// parser the store uses, so a completed form always yields a valid reading.
func NewReadingForm(fm *ReadingFormModel) *huh.Form {
	options := make([]huh.Option[models.Frequency], 0, len(models.Frequencies))
	for _, f := range models.Frequencies {
		options = append(options, huh.NewOption(string(f), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := models.ParseName(s)
					return err
				}),
			huh.NewInput().
				Title("Date").
				Description("YYYY.MM.DD").
				Value(&fm.Date).
				Validate(func(s string) error {
					_, err := models.ParseDate(s)
					return err
				}),
			huh.NewInput().
				Title("Value").
				Value(&fm.Value).
				Validate(func(s string) error {
					_, err := models.ParseValue(s)
					return err
				}),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(options...).
				Value(&fm.Frequency),
			huh.NewConfirm().
				Title("Meter working?").
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Status),
		),
	).WithTheme(huh.ThemeDracula())
}
