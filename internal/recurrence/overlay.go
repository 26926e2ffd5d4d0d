package recurrence

import "time"

// IntegrityWarning reports duplicate exception rows sharing the same
// (TemplateID, OriginalDate) key. The store should prevent this; when it does
// not, the overlay keeps the most recently written row and surfaces the
// conflict instead of silently ignoring it.
type IntegrityWarning struct {
	TemplateID   string
	OriginalDate time.Time
	Rows         int
}

// ApplyExceptions overlays stored per-occurrence overrides onto resolver
// output. Cancelled occurrences are dropped; rescheduled ones keep their
// derived id but carry the overridden date, period, time, and attendees.
//
// Exceptions must be supplied in store order (oldest write first) so that the
// newest row wins when duplicates exist. The function is pure: it never
// mutates its inputs.
func ApplyExceptions(occurrences []Occurrence, exceptions []Exception) ([]Occurrence, []IntegrityWarning) {
	if len(exceptions) == 0 {
		out := make([]Occurrence, len(occurrences))
		copy(out, occurrences)
		return out, nil
	}

	type key struct {
		templateID string
		date       string
	}

	index := make(map[key]Exception, len(exceptions))
	seen := make(map[key]int, len(exceptions))
	for _, exc := range exceptions {
		k := key{templateID: exc.TemplateID, date: Midnight(exc.OriginalDate).Format(ISODate)}
		index[k] = exc
		seen[k]++
	}

	var warnings []IntegrityWarning
	for k, count := range seen {
		if count > 1 {
			date, _ := time.Parse(ISODate, k.date)
			warnings = append(warnings, IntegrityWarning{TemplateID: k.templateID, OriginalDate: date, Rows: count})
		}
	}

	out := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		exc, ok := index[key{templateID: occ.SourceID, date: occ.OriginalDate.Format(ISODate)}]
		if !ok {
			out = append(out, occ)
			continue
		}
		if exc.IsCancelled {
			continue
		}
		out = append(out, applyException(occ, exc))
	}

	return out, warnings
}

// applyException rewrites one occurrence with the exception's override values.
// Unset fields fall back to the original; the derived id is never touched.
func applyException(occ Occurrence, exc Exception) Occurrence {
	if exc.NewDate != nil {
		occ.Date = Midnight(*exc.NewDate)
		occ.Day = DayOfWeekFromWeekday(occ.Date.Weekday())
	}
	if exc.NewPeriod != "" {
		occ.Period = exc.NewPeriod
	}
	if exc.NewTime != "" {
		occ.Time = exc.NewTime
	}
	if exc.CustomDoctorIDs != nil {
		occ.DoctorIDs = cloneStrings(exc.CustomDoctorIDs)
		occ.SecondaryDoctorIDs = nil
	}
	return occ
}
