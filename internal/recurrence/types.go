package recurrence

import "time"

// DayOfWeek names a weekday in the clinic planning grid.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Weekday converts the planning day into the time package representation.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	switch d {
	case Monday:
		return time.Monday, true
	case Tuesday:
		return time.Tuesday, true
	case Wednesday:
		return time.Wednesday, true
	case Thursday:
		return time.Thursday, true
	case Friday:
		return time.Friday, true
	case Saturday:
		return time.Saturday, true
	case Sunday:
		return time.Sunday, true
	}
	return time.Sunday, false
}

// DayOfWeekFromWeekday converts a time.Weekday into the planning representation.
func DayOfWeekFromWeekday(day time.Weekday) DayOfWeek {
	switch day {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Period identifies the half-day (or custom time) a slot occupies.
type Period string

const (
	PeriodMorning   Period = "MORNING"
	PeriodAfternoon Period = "AFTERNOON"
	PeriodCustom    Period = "CUSTOM"
)

// SlotType classifies the clinical activity of a slot.
type SlotType string

const (
	SlotConsultation SlotType = "CONSULTATION"
	SlotAstreinte    SlotType = "ASTREINTE"
	SlotRCP          SlotType = "RCP"
)

// Frequency controls how a template slot or RCP definition recurs.
type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyManual   Frequency = "MANUAL"
)

// WeekParity selects even or odd ISO weeks for biweekly definitions.
type WeekParity string

const (
	ParityEven WeekParity = "EVEN"
	ParityOdd  WeekParity = "ODD"
)

// TemplateSlot is a week-independent recurring duty definition. Persistence
// identity is the composite (Day, Period, Location, Type); ID is an opaque
// surrogate assigned by the store.
type TemplateSlot struct {
	ID                 string
	Day                DayOfWeek
	Period             Period
	Time               string // "HH:MM", only meaningful when Period is CUSTOM
	Location           string
	Type               SlotType
	DefaultDoctorID    string
	SecondaryDoctorIDs []string
	DoctorIDs          []string
	BackupDoctorID     string
	SubType            string
	IsRequired         bool
	IsBlocking         bool
	Frequency          Frequency // empty means WEEKLY
}

// NaturalKey returns the composite uniqueness key used by the template store.
func (t TemplateSlot) NaturalKey() string {
	return string(t.Day) + "|" + string(t.Period) + "|" + t.Location + "|" + string(t.Type)
}

// ManualInstance is one explicitly dated meeting belonging to a MANUAL
// RCP definition.
type ManualInstance struct {
	ID             string
	Date           time.Time // date only, UTC midnight
	Time           string
	DoctorIDs      []string
	BackupDoctorID string
}

// RcpDefinition describes a recurring or manually scheduled multidisciplinary
// review meeting.
type RcpDefinition struct {
	ID                string
	Name              string
	Day               DayOfWeek // weekday for recurring frequencies
	Period            Period
	Time              string
	Frequency         Frequency
	WeekParity        WeekParity // required when Frequency is BIWEEKLY
	MonthlyWeekNumber int        // 1..5, required when Frequency is MONTHLY
	DoctorIDs         []string
	BackupDoctorID    string
	ManualInstances   []ManualInstance
}

// Exception overrides a single occurrence of a template slot or recurring
// RCP definition. At most one exception exists per (TemplateID, OriginalDate).
type Exception struct {
	ID              string
	TemplateID      string
	OriginalDate    time.Time
	NewDate         *time.Time
	NewPeriod       Period
	NewTime         string
	IsCancelled     bool
	CustomDoctorIDs []string // nil leaves the original attendees in place
}

// Occurrence is one concrete dated instance of a template slot or RCP
// definition. It is derived on demand and never persisted; attendance and
// exceptions reference it through its deterministic ID.
type Occurrence struct {
	ID                 string
	SourceID           string // template slot or RCP definition id
	InstanceID         string // set only for manual RCP instances
	Date               time.Time
	OriginalDate       time.Time // resolution date before any exception moved it
	Day                DayOfWeek
	Period             Period
	Time               string
	Location           string
	Type               SlotType
	Name               string
	DefaultDoctorID    string
	SecondaryDoctorIDs []string
	DoctorIDs          []string
	BackupDoctorID     string
	SubType            string
	IsRequired         bool
	IsBlocking         bool
}

// Involves reports whether the doctor participates in the occurrence in any
// primary, secondary, or backup role.
func (o Occurrence) Involves(doctorID string) bool {
	if doctorID == "" {
		return false
	}
	if o.DefaultDoctorID == doctorID || o.BackupDoctorID == doctorID {
		return true
	}
	for _, id := range o.DoctorIDs {
		if id == doctorID {
			return true
		}
	}
	for _, id := range o.SecondaryDoctorIDs {
		if id == doctorID {
			return true
		}
	}
	return false
}

// AttendanceStatus records a doctor's decision for one occurrence. The absence
// of a record means "undecided", which is distinct from an explicit ABSENT.
type AttendanceStatus string

const (
	Present AttendanceStatus = "PRESENT"
	Absent  AttendanceStatus = "ABSENT"
)

// OccurrenceID derives the deterministic identity of a template-derived
// occurrence. The format is load-bearing: attendance records are keyed by it,
// so it must be reproducible from the source id and date alone.
func OccurrenceID(templateID string, date time.Time) string {
	return templateID + "-" + date.Format(ISODate)
}

// ManualOccurrenceID derives the deterministic identity of a manual RCP
// instance occurrence.
func ManualOccurrenceID(rcpID, instanceID string) string {
	return "manual-rcp-" + rcpID + "-" + instanceID
}

// ISODate is the date layout used for occurrence identities and the store's
// date columns.
const ISODate = "2006-01-02"
