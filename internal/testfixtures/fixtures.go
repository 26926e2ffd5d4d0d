package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

var (
	slotCounter   uint64
	rcpCounter    uint64
	doctorCounter uint64
)

// referenceTime is a Sunday morning; the Monday that follows anchors the
// notification window in most scenarios.
var referenceTime = time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ------------------------ Template slot fixtures -------------------------

// TemplateSlotFixture represents a deterministic recurring duty definition.
type TemplateSlotFixture struct {
	ID              string
	Day             recurrence.DayOfWeek
	Period          recurrence.Period
	Time            string
	Location        string
	Type            recurrence.SlotType
	DefaultDoctorID string
	DoctorIDs       []string
	BackupDoctorID  string
	IsRequired      bool
	Frequency       recurrence.Frequency
}

// TemplateSlotOption configures the generated template slot fixture.
type TemplateSlotOption func(*TemplateSlotFixture)

// NewTemplateSlotFixture returns a deterministic template slot with optional
// overrides. Successive calls cycle through the weekdays so a handful of
// fixtures never collide on the (day, period, location, type) key.
func NewTemplateSlotFixture(opts ...TemplateSlotOption) TemplateSlotFixture {
	idx := atomic.AddUint64(&slotCounter, 1)
	days := []recurrence.DayOfWeek{
		recurrence.Monday, recurrence.Tuesday, recurrence.Wednesday,
		recurrence.Thursday, recurrence.Friday,
	}
	fixture := TemplateSlotFixture{
		ID:        fmt.Sprintf("slot-%03d", idx),
		Day:       days[int(idx)%len(days)],
		Period:    recurrence.PeriodMorning,
		Location:  fmt.Sprintf("Box %d", 1+idx%3),
		Type:      recurrence.SlotConsultation,
		Frequency: recurrence.FrequencyWeekly,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSlotID overrides the generated slot ID.
func WithSlotID(id string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.ID = id
	}
}

// WithSlotDay sets the weekday.
func WithSlotDay(day recurrence.DayOfWeek) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.Day = day
	}
}

// WithSlotPeriod sets the half day, or a custom period with a start time.
func WithSlotPeriod(period recurrence.Period, at string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.Period = period
		f.Time = at
	}
}

// WithSlotLocation sets the room.
func WithSlotLocation(location string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.Location = location
	}
}

// WithSlotType sets the activity type.
func WithSlotType(slotType recurrence.SlotType) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.Type = slotType
	}
}

// WithSlotDefaultDoctor sets the primary assignee.
func WithSlotDefaultDoctor(doctorID string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.DefaultDoctorID = doctorID
	}
}

// WithSlotDoctors sets the attendee list.
func WithSlotDoctors(doctorIDs ...string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.DoctorIDs = append([]string(nil), doctorIDs...)
	}
}

// WithSlotBackupDoctor sets the backup assignee.
func WithSlotBackupDoctor(doctorID string) TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.BackupDoctorID = doctorID
	}
}

// WithSlotRequired marks attendance as mandatory.
func WithSlotRequired() TemplateSlotOption {
	return func(f *TemplateSlotFixture) {
		f.IsRequired = true
	}
}

// Recurrence returns the fixture as a recurrence.TemplateSlot value.
func (f TemplateSlotFixture) Recurrence() recurrence.TemplateSlot {
	return recurrence.TemplateSlot{
		ID:              f.ID,
		Day:             f.Day,
		Period:          f.Period,
		Time:            f.Time,
		Location:        f.Location,
		Type:            f.Type,
		DefaultDoctorID: f.DefaultDoctorID,
		DoctorIDs:       append([]string(nil), f.DoctorIDs...),
		BackupDoctorID:  f.BackupDoctorID,
		IsRequired:      f.IsRequired,
		Frequency:       f.Frequency,
	}
}

// ------------------------ RCP definition fixtures ------------------------

// RcpDefinitionFixture represents a deterministic meeting definition.
type RcpDefinitionFixture struct {
	ID              string
	Name            string
	Day             recurrence.DayOfWeek
	Period          recurrence.Period
	Frequency       recurrence.Frequency
	DoctorIDs       []string
	ManualInstances []recurrence.ManualInstance
}

// RcpDefinitionOption configures the generated definition fixture.
type RcpDefinitionOption func(*RcpDefinitionFixture)

// NewRcpDefinitionFixture returns a deterministic weekly definition with
// optional overrides.
func NewRcpDefinitionFixture(opts ...RcpDefinitionOption) RcpDefinitionFixture {
	idx := atomic.AddUint64(&rcpCounter, 1)
	fixture := RcpDefinitionFixture{
		ID:        fmt.Sprintf("rcp-%03d", idx),
		Name:      fmt.Sprintf("RCP %03d", idx),
		Day:       recurrence.Thursday,
		Period:    recurrence.PeriodMorning,
		Frequency: recurrence.FrequencyWeekly,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRcpID overrides the generated definition ID.
func WithRcpID(id string) RcpDefinitionOption {
	return func(f *RcpDefinitionFixture) {
		f.ID = id
	}
}

// WithRcpName overrides the definition name.
func WithRcpName(name string) RcpDefinitionOption {
	return func(f *RcpDefinitionFixture) {
		f.Name = name
	}
}

// WithRcpDoctors sets the attendee list.
func WithRcpDoctors(doctorIDs ...string) RcpDefinitionOption {
	return func(f *RcpDefinitionFixture) {
		f.DoctorIDs = append([]string(nil), doctorIDs...)
	}
}

// WithRcpManualInstances switches the definition to MANUAL frequency with the
// given dated instances.
func WithRcpManualInstances(instances ...recurrence.ManualInstance) RcpDefinitionOption {
	return func(f *RcpDefinitionFixture) {
		f.Frequency = recurrence.FrequencyManual
		f.Day = ""
		f.Period = ""
		f.ManualInstances = append([]recurrence.ManualInstance(nil), instances...)
	}
}

// Recurrence returns the fixture as a recurrence.RcpDefinition value.
func (f RcpDefinitionFixture) Recurrence() recurrence.RcpDefinition {
	return recurrence.RcpDefinition{
		ID:              f.ID,
		Name:            f.Name,
		Day:             f.Day,
		Period:          f.Period,
		Frequency:       f.Frequency,
		DoctorIDs:       append([]string(nil), f.DoctorIDs...),
		ManualInstances: append([]recurrence.ManualInstance(nil), f.ManualInstances...),
	}
}

// ---------------------------- Doctor fixtures ----------------------------

// DoctorFixture represents a deterministic physician directory entry.
type DoctorFixture struct {
	ID          string
	Name        string
	Color       string
	Specialties []string
}

// DoctorOption configures the generated doctor fixture.
type DoctorOption func(*DoctorFixture)

// NewDoctorFixture returns a deterministic doctor fixture with optional
// overrides.
func NewDoctorFixture(opts ...DoctorOption) DoctorFixture {
	idx := atomic.AddUint64(&doctorCounter, 1)
	fixture := DoctorFixture{
		ID:    fmt.Sprintf("doctor-%03d", idx),
		Name:  fmt.Sprintf("Dr %03d", idx),
		Color: "#2e7d32",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithDoctorID overrides the generated doctor ID.
func WithDoctorID(id string) DoctorOption {
	return func(f *DoctorFixture) {
		f.ID = id
	}
}

// WithDoctorName overrides the display name.
func WithDoctorName(name string) DoctorOption {
	return func(f *DoctorFixture) {
		f.Name = name
	}
}

// WithDoctorSpecialties sets the specialty list.
func WithDoctorSpecialties(specialties ...string) DoctorOption {
	return func(f *DoctorFixture) {
		f.Specialties = append([]string(nil), specialties...)
	}
}

// Row returns the fixture as a persistence.DoctorRow value, suitable for
// seeding the store.
func (f DoctorFixture) Row() persistence.DoctorRow {
	return persistence.DoctorRow{
		ID:          f.ID,
		Name:        f.Name,
		Color:       f.Color,
		Specialties: append([]string(nil), f.Specialties...),
	}
}
