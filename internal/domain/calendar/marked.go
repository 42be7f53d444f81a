package calendar

import (
	"bikely/internal/domain/dates"
)

// Annotation classifies how a single calendar cell should be rendered.
type Annotation string

const (
	Blocked         Annotation = "BLOCKED"
	SelectionStart  Annotation = "SELECTION_START"
	SelectionMiddle Annotation = "SELECTION_MIDDLE"
	SelectionEnd    Annotation = "SELECTION_END"
)

// MarkedModel maps each annotated day to its cell annotation. Days absent
// from the map are unmarked.
type MarkedModel map[dates.Day]Annotation

// BuildMarkedModel paints blocked days and the current selection. Blocked
// always wins: a blocked day never carries a selection annotation. With
// only a start picked the model shows the lone start cap.
func BuildMarkedModel(sel Selection, blocked BlockedDateSet) MarkedModel {
	model := make(MarkedModel, len(blocked))
	for day := range blocked {
		model[day] = Blocked
	}

	mark := func(day dates.Day, a Annotation) {
		if blocked.Contains(day) {
			return
		}
		model[day] = a
	}

	switch {
	case sel.IsComplete():
		mark(sel.Start, SelectionStart)
		for _, day := range dates.ExpandRange(sel.Start, sel.End) {
			if day == sel.Start || day == sel.End {
				continue
			}
			mark(day, SelectionMiddle)
		}
		mark(sel.End, SelectionEnd)
	case !sel.Start.IsZero():
		mark(sel.Start, SelectionStart)
	}
	return model
}
