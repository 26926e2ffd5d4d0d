package application

import (
	"strings"

	"github.com/example/clinic-planner/internal/recurrence"
)

// SlotID distinguishes client-side draft slots from slots the store already
// holds. Draft ids exist only on the client; the store assigns the real id
// during synchronization.
type SlotID struct {
	value string
	draft bool
}

// DraftSlotID tags a client-generated identifier.
func DraftSlotID(value string) SlotID {
	return SlotID{value: value, draft: true}
}

// PersistedSlotID tags a store-assigned identifier.
func PersistedSlotID(value string) SlotID {
	return SlotID{value: value}
}

// ParseSlotID classifies a wire-format identifier. Legacy clients mark drafts
// with a "tmp_" or "temp_" prefix; everything else is treated as persisted.
func ParseSlotID(value string) SlotID {
	if strings.HasPrefix(value, "tmp_") || strings.HasPrefix(value, "temp_") {
		return DraftSlotID(value)
	}
	return PersistedSlotID(value)
}

// IsDraft reports whether the id was generated client side.
func (id SlotID) IsDraft() bool {
	return id.draft
}

// String returns the raw identifier value.
func (id SlotID) String() string {
	return id.value
}

// LocalSlot pairs a client-held template slot with its tagged identity. The
// embedded slot's own ID field is ignored during synchronization.
type LocalSlot struct {
	ID   SlotID
	Slot recurrence.TemplateSlot
}

// SyncWarning records a non-fatal failure encountered while reconciling the
// local template against the store.
type SyncWarning struct {
	Phase   string
	SlotID  string
	Message string
}

// SyncResult reports the outcome of a template synchronization. When Failed
// is true the create phase was rolled back and Template echoes the caller's
// local state so no edits are lost.
type SyncResult struct {
	Template []recurrence.TemplateSlot
	Failed   bool
	Warnings []SyncWarning
}

// AttendanceSnapshot indexes recorded decisions by occurrence then doctor.
type AttendanceSnapshot map[string]map[string]recurrence.AttendanceStatus

// Status returns the recorded decision, if any, for the given pair.
func (s AttendanceSnapshot) Status(occurrenceID, doctorID string) (recurrence.AttendanceStatus, bool) {
	doctors, ok := s[occurrenceID]
	if !ok {
		return "", false
	}
	status, ok := doctors[doctorID]
	return status, ok
}

// Doctor is a physician directory entry.
type Doctor struct {
	ID                 string
	Name               string
	Color              string
	Specialties        []string
	ExcludedDays       []recurrence.DayOfWeek
	ExcludedActivities []string
	ExcludedSlotTypes  []recurrence.SlotType
}

// Unavailability is a dated absence period for a doctor. Dates are inclusive
// UTC midnights; Period narrows the absence to a half day when set.
type Unavailability struct {
	ID        string
	DoctorID  string
	StartDate string
	EndDate   string
	Period    recurrence.Period
	Reason    string
}
