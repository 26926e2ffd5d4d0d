// Package conflict inspects resolved occurrences for assignment problems:
// doctors scheduled while absent, and doctors booked twice in the same half
// day when both duties block.
package conflict

import (
	"sort"
	"time"

	"github.com/example/clinic-planner/internal/recurrence"
)

// Kind classifies a detected conflict.
type Kind string

const (
	// KindAbsence indicates a doctor is scheduled during a declared absence.
	KindAbsence Kind = "absence"
	// KindDoubleBooking indicates a doctor holds two blocking duties in the
	// same half day.
	KindDoubleBooking Kind = "double_booking"
)

// Absence is a declared unavailability period. Start and End are inclusive
// UTC midnights; an empty Period covers the whole day.
type Absence struct {
	DoctorID string
	Start    time.Time
	End      time.Time
	Period   recurrence.Period
}

// Conflict details one assignment problem callers can present to users.
type Conflict struct {
	Kind             Kind
	DoctorID         string
	OccurrenceID     string
	WithOccurrenceID string // set for double bookings
	Date             time.Time
}

// Detect reports every conflict between the given occurrences and absences.
// Results are ordered by date, then doctor, then occurrence id, so repeated
// runs over the same inputs agree.
func Detect(occurrences []recurrence.Occurrence, absences []Absence) []Conflict {
	var conflicts []Conflict

	for _, occ := range occurrences {
		for _, doctorID := range participants(occ) {
			for _, absence := range absences {
				if absence.DoctorID != doctorID {
					continue
				}
				if !covers(absence, occ) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Kind:         KindAbsence,
					DoctorID:     doctorID,
					OccurrenceID: occ.ID,
					Date:         occ.Date,
				})
				break
			}
		}
	}

	conflicts = append(conflicts, detectDoubleBookings(occurrences)...)

	sort.Slice(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.DoctorID != b.DoctorID {
			return a.DoctorID < b.DoctorID
		}
		if a.OccurrenceID != b.OccurrenceID {
			return a.OccurrenceID < b.OccurrenceID
		}
		return a.WithOccurrenceID < b.WithOccurrenceID
	})
	return conflicts
}

func detectDoubleBookings(occurrences []recurrence.Occurrence) []Conflict {
	type halfDay struct {
		doctorID string
		date     string
		period   recurrence.Period
	}
	seen := make(map[halfDay]recurrence.Occurrence)

	var conflicts []Conflict
	for _, occ := range occurrences {
		if !occ.IsBlocking {
			continue
		}
		for _, doctorID := range participants(occ) {
			key := halfDay{doctorID: doctorID, date: occ.Date.Format(recurrence.ISODate), period: occ.Period}
			previous, ok := seen[key]
			if !ok {
				seen[key] = occ
				continue
			}
			conflicts = append(conflicts, Conflict{
				Kind:             KindDoubleBooking,
				DoctorID:         doctorID,
				OccurrenceID:     occ.ID,
				WithOccurrenceID: previous.ID,
				Date:             occ.Date,
			})
		}
	}
	return conflicts
}

// participants lists every doctor attached to the occurrence, primaries
// first, without duplicates.
func participants(occ recurrence.Occurrence) []string {
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		for _, existing := range ids {
			if existing == id {
				return
			}
		}
		ids = append(ids, id)
	}
	add(occ.DefaultDoctorID)
	for _, id := range occ.DoctorIDs {
		add(id)
	}
	for _, id := range occ.SecondaryDoctorIDs {
		add(id)
	}
	add(occ.BackupDoctorID)
	return ids
}

func covers(absence Absence, occ recurrence.Occurrence) bool {
	day := recurrence.Midnight(occ.Date)
	if day.Before(recurrence.Midnight(absence.Start)) || day.After(recurrence.Midnight(absence.End)) {
		return false
	}
	if absence.Period == "" {
		return true
	}
	return absence.Period == occ.Period
}
