package persistence

import "time"

// TemplateSlotRow is the stored shape of a recurring duty definition. The
// composite (Day, Period, Location, Type) is unique; ID is a server-assigned
// surrogate.
type TemplateSlotRow struct {
	ID                 string
	Day                string
	Period             string
	Time               *string
	Location           string
	Type               string
	DefaultDoctorID    *string
	SecondaryDoctorIDs []string
	DoctorIDs          []string
	BackupDoctorID     *string
	SubType            *string
	IsRequired         bool
	IsBlocking         bool
	Frequency          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RcpDefinitionRow is the stored shape of a multidisciplinary meeting type.
type RcpDefinitionRow struct {
	ID                string
	Name              string
	Day               *string
	Period            *string
	Time              *string
	Frequency         string
	WeekParity        *string
	MonthlyWeekNumber *int
	DoctorIDs         []string
	BackupDoctorID    *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ManualInstances   []ManualInstanceRow
}

// ManualInstanceRow is one explicitly dated meeting attached to a MANUAL
// RCP definition. Dates are stored as ISO "2006-01-02" strings.
type ManualInstanceRow struct {
	ID              string
	RcpDefinitionID string
	Date            string
	Time            *string
	DoctorIDs       []string
	BackupDoctorID  *string
}

// ExceptionRow overrides one occurrence, keyed by (TemplateID, OriginalDate).
type ExceptionRow struct {
	ID              string
	TemplateID      string
	OriginalDate    string
	NewDate         *string
	NewPeriod       *string
	NewTime         *string
	IsCancelled     bool
	CustomDoctorIDs []string
	UpdatedAt       time.Time
}

// AttendanceRow records one doctor's decision for one derived occurrence.
type AttendanceRow struct {
	OccurrenceID string
	DoctorID     string
	Status       string
	UpdatedAt    time.Time
}

// DoctorRow is a directory entry for a physician.
type DoctorRow struct {
	ID                 string
	Name               string
	Color              string
	Specialties        []string
	ExcludedDays       []string
	ExcludedActivities []string
	ExcludedSlotTypes  []string
}

// UnavailabilityRow is a dated absence period for a doctor.
type UnavailabilityRow struct {
	ID        string
	DoctorID  string
	StartDate string
	EndDate   string
	Period    *string
	Reason    *string
}
