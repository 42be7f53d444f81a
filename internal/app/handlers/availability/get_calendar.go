package availability

import (
	"context"

	"bikely/internal/app/dto"
	"bikely/internal/app/queries"
	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/dates"
)

const getCalendarKey = "availability.calendar"

// GetCalendarQuery computes the blocked-date set for a bike and, when the
// client sends its in-progress selection, the full marked-cell model.
type GetCalendarQuery struct {
	BikeID         string
	SelectionStart string
	SelectionEnd   string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Locale     domaincalendar.Locale
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Calendar{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Calendar{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	cal, err := unit.Calendars().Calendar(ctx, domainbikes.BikeID(q.BikeID))
	if err != nil {
		return dto.Calendar{}, err
	}
	blocked := domaincalendar.ComputeBlockedDateSet(cal.Snapshot())

	sel := domaincalendar.Selection{}
	if q.SelectionStart != "" {
		if day, err := dates.Normalize(q.SelectionStart); err == nil {
			sel.Start = day
		}
	}
	if q.SelectionEnd != "" {
		if day, err := dates.Normalize(q.SelectionEnd); err == nil {
			sel.End = day
		}
	}
	model := domaincalendar.BuildMarkedModel(sel, blocked)

	anchor := sel.Start
	if anchor.IsZero() {
		for day := range blocked {
			if anchor.IsZero() || day.Before(anchor) {
				anchor = day
			}
		}
	}
	return dto.MapCalendar(q.BikeID, blocked, model, h.locale(), anchor), nil
}

func (h *GetCalendarHandler) locale() domaincalendar.Locale {
	if h.Locale.Name == "" {
		return domaincalendar.DefaultLocale()
	}
	return h.Locale
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
