package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFrequency indicates a template slot or RCP definition carries an
// unsupported frequency. Unknown frequencies are never defaulted silently.
var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

// ErrInvalidDay indicates a definition references an unknown day of week.
var ErrInvalidDay = errors.New("recurrence: invalid day of week")

// ErrInvalidSelector indicates a biweekly definition is missing its week
// parity or a monthly definition has a week number outside 1..5.
var ErrInvalidSelector = errors.New("recurrence: invalid recurrence selector")

// ErrInvalidWindow indicates the requested range end precedes its start.
var ErrInvalidWindow = errors.New("recurrence: range end before range start")

// Resolve expands week-independent template slots and RCP definitions into
// concrete dated occurrences for the inclusive range [start, end].
//
// The function is pure and reentrant: for a fixed input it always returns the
// same occurrence ids, in the same order (date ascending, then templates in
// input order, then definitions in input order). A definition with no
// qualifying date in range contributes zero occurrences.
func Resolve(templates []TemplateSlot, rcps []RcpDefinition, start, end time.Time) ([]Occurrence, error) {
	start = Midnight(start)
	end = Midnight(end)
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	for _, slot := range templates {
		if err := validateSlot(slot); err != nil {
			return nil, err
		}
	}
	for _, rcp := range rcps {
		if err := validateDefinition(rcp); err != nil {
			return nil, err
		}
	}

	occurrences := make([]Occurrence, 0)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, slot := range templates {
			weekday, _ := slot.Day.Weekday()
			if date.Weekday() != weekday {
				continue
			}
			occurrences = append(occurrences, slotOccurrence(slot, date))
		}

		for _, rcp := range rcps {
			if rcp.Frequency == FrequencyManual {
				for _, instance := range rcp.ManualInstances {
					if Midnight(instance.Date).Equal(date) {
						occurrences = append(occurrences, manualOccurrence(rcp, instance, date))
					}
				}
				continue
			}

			weekday, _ := rcp.Day.Weekday()
			if date.Weekday() != weekday {
				continue
			}
			if !matchesSelector(rcp, date) {
				continue
			}
			occurrences = append(occurrences, definitionOccurrence(rcp, date))
		}
	}

	return occurrences, nil
}

func validateSlot(slot TemplateSlot) error {
	if _, ok := slot.Day.Weekday(); !ok {
		return fmt.Errorf("%w: template %q day %q", ErrInvalidDay, slot.ID, slot.Day)
	}
	switch slot.Frequency {
	case "", FrequencyWeekly:
		return nil
	default:
		return fmt.Errorf("%w: template %q frequency %q", ErrInvalidFrequency, slot.ID, slot.Frequency)
	}
}

func validateDefinition(rcp RcpDefinition) error {
	switch rcp.Frequency {
	case FrequencyManual:
		return nil
	case FrequencyWeekly:
	case FrequencyBiweekly:
		if rcp.WeekParity != ParityEven && rcp.WeekParity != ParityOdd {
			return fmt.Errorf("%w: rcp %q requires a week parity", ErrInvalidSelector, rcp.ID)
		}
	case FrequencyMonthly:
		if rcp.MonthlyWeekNumber < 1 || rcp.MonthlyWeekNumber > 5 {
			return fmt.Errorf("%w: rcp %q week number %d", ErrInvalidSelector, rcp.ID, rcp.MonthlyWeekNumber)
		}
	default:
		return fmt.Errorf("%w: rcp %q frequency %q", ErrInvalidFrequency, rcp.ID, rcp.Frequency)
	}
	if _, ok := rcp.Day.Weekday(); !ok {
		return fmt.Errorf("%w: rcp %q day %q", ErrInvalidDay, rcp.ID, rcp.Day)
	}
	return nil
}

// matchesSelector applies the parity or nth-weekday gate for non-weekly
// recurring definitions. The weekday itself has already matched.
func matchesSelector(rcp RcpDefinition, date time.Time) bool {
	switch rcp.Frequency {
	case FrequencyWeekly:
		return true
	case FrequencyBiweekly:
		_, week := date.ISOWeek()
		if week%2 == 0 {
			return rcp.WeekParity == ParityEven
		}
		return rcp.WeekParity == ParityOdd
	case FrequencyMonthly:
		return nthWeekdayOfMonth(date) == rcp.MonthlyWeekNumber
	}
	return false
}

// nthWeekdayOfMonth reports which occurrence of its weekday within the month
// the date is: the 1st..7th of a month is the 1st, the 8th..14th the 2nd, etc.
func nthWeekdayOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

func slotOccurrence(slot TemplateSlot, date time.Time) Occurrence {
	return Occurrence{
		ID:                 OccurrenceID(slot.ID, date),
		SourceID:           slot.ID,
		Date:               date,
		OriginalDate:       date,
		Day:                slot.Day,
		Period:             slot.Period,
		Time:               slot.Time,
		Location:           slot.Location,
		Type:               slot.Type,
		Name:               slot.SubType,
		DefaultDoctorID:    slot.DefaultDoctorID,
		SecondaryDoctorIDs: cloneStrings(slot.SecondaryDoctorIDs),
		DoctorIDs:          cloneStrings(slot.DoctorIDs),
		BackupDoctorID:     slot.BackupDoctorID,
		SubType:            slot.SubType,
		IsRequired:         slot.IsRequired,
		IsBlocking:         slot.IsBlocking,
	}
}

func definitionOccurrence(rcp RcpDefinition, date time.Time) Occurrence {
	period := rcp.Period
	if period == "" {
		period = PeriodMorning
	}
	return Occurrence{
		ID:             OccurrenceID(rcp.ID, date),
		SourceID:       rcp.ID,
		Date:           date,
		OriginalDate:   date,
		Day:            rcp.Day,
		Period:         period,
		Time:           rcp.Time,
		Type:           SlotRCP,
		Name:           rcp.Name,
		DoctorIDs:      cloneStrings(rcp.DoctorIDs),
		BackupDoctorID: rcp.BackupDoctorID,
		IsRequired:     true,
		IsBlocking:     true,
	}
}

func manualOccurrence(rcp RcpDefinition, instance ManualInstance, date time.Time) Occurrence {
	period := PeriodMorning
	if instance.Time != "" {
		period = PeriodCustom
	}
	return Occurrence{
		ID:             ManualOccurrenceID(rcp.ID, instance.ID),
		SourceID:       rcp.ID,
		InstanceID:     instance.ID,
		Date:           date,
		OriginalDate:   date,
		Day:            DayOfWeekFromWeekday(date.Weekday()),
		Period:         period,
		Time:           instance.Time,
		Type:           SlotRCP,
		Name:           rcp.Name,
		DoctorIDs:      cloneStrings(instance.DoctorIDs),
		BackupDoctorID: instance.BackupDoctorID,
		IsRequired:     true,
		IsBlocking:     true,
	}
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
