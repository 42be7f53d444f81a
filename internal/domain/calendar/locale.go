package calendar

import (
	"fmt"

	"bikely/internal/domain/dates"
)

// Locale carries the month and weekday name tables the rendering adapter
// needs. It is passed in explicitly wherever labels are produced; nothing
// here is process-global.
type Locale struct {
	Name       string
	MonthNames [12]string
	DayNames   [7]string
}

// DefaultLocale returns English tables.
func DefaultLocale() Locale {
	return Locale{
		Name: "en",
		MonthNames: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		DayNames: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
	}
}

// MonthTitle renders the "June 2024" style header for the month containing
// the given day.
func (l Locale) MonthTitle(day dates.Day) string {
	t, err := day.Time()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %d", l.MonthNames[int(t.Month())-1], t.Year())
}

// DayName returns the localized weekday name for the given day.
func (l Locale) DayName(day dates.Day) string {
	t, err := day.Time()
	if err != nil {
		return ""
	}
	return l.DayNames[int(t.Weekday())%len(l.DayNames)]
}
