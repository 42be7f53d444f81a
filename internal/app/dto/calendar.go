package dto

import (
	"sort"

	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/dates"
)

// Calendar carries everything the client's date picker needs: which days
// are blocked and how every annotated cell should be drawn.
type Calendar struct {
	BikeID      string            `json:"bike_id"`
	MonthTitle  string            `json:"month_title,omitempty"`
	BlockedDays []string          `json:"blocked_days"`
	MarkedDays  map[string]string `json:"marked_days"`
}

func MapCalendar(bikeID string, blocked domaincalendar.BlockedDateSet, model domaincalendar.MarkedModel, loc domaincalendar.Locale, anchor dates.Day) Calendar {
	out := Calendar{
		BikeID:      bikeID,
		BlockedDays: make([]string, 0, len(blocked)),
		MarkedDays:  make(map[string]string, len(model)),
	}
	for day := range blocked {
		out.BlockedDays = append(out.BlockedDays, day.String())
	}
	sort.Strings(out.BlockedDays)
	for day, annotation := range model {
		out.MarkedDays[day.String()] = string(annotation)
	}
	if !anchor.IsZero() {
		out.MonthTitle = loc.MonthTitle(anchor)
	}
	return out
}
