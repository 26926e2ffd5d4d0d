package http

import (
	"strings"
	"time"

	"github.com/example/clinic-planner/internal/application"
	"github.com/example/clinic-planner/internal/conflict"
	"github.com/example/clinic-planner/internal/recurrence"
)

type occurrenceDTO struct {
	ID                 string   `json:"id"`
	SourceID           string   `json:"source_id"`
	InstanceID         string   `json:"instance_id,omitempty"`
	Date               string   `json:"date"`
	OriginalDate       string   `json:"original_date"`
	Day                string   `json:"day"`
	Period             string   `json:"period"`
	Time               string   `json:"time,omitempty"`
	Location           string   `json:"location,omitempty"`
	Type               string   `json:"type"`
	Name               string   `json:"name,omitempty"`
	DefaultDoctorID    string   `json:"default_doctor_id,omitempty"`
	SecondaryDoctorIDs []string `json:"secondary_doctor_ids,omitempty"`
	DoctorIDs          []string `json:"doctor_ids,omitempty"`
	BackupDoctorID     string   `json:"backup_doctor_id,omitempty"`
	SubType            string   `json:"sub_type,omitempty"`
	IsRequired         bool     `json:"is_required"`
	IsBlocking         bool     `json:"is_blocking"`
}

func toOccurrenceDTO(occ recurrence.Occurrence) occurrenceDTO {
	return occurrenceDTO{
		ID:                 occ.ID,
		SourceID:           occ.SourceID,
		InstanceID:         occ.InstanceID,
		Date:               occ.Date.Format(recurrence.ISODate),
		OriginalDate:       occ.OriginalDate.Format(recurrence.ISODate),
		Day:                string(occ.Day),
		Period:             string(occ.Period),
		Time:               occ.Time,
		Location:           occ.Location,
		Type:               string(occ.Type),
		Name:               occ.Name,
		DefaultDoctorID:    occ.DefaultDoctorID,
		SecondaryDoctorIDs: occ.SecondaryDoctorIDs,
		DoctorIDs:          occ.DoctorIDs,
		BackupDoctorID:     occ.BackupDoctorID,
		SubType:            occ.SubType,
		IsRequired:         occ.IsRequired,
		IsBlocking:         occ.IsBlocking,
	}
}

func toOccurrenceDTOs(occurrences []recurrence.Occurrence) []occurrenceDTO {
	if len(occurrences) == 0 {
		return nil
	}
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, toOccurrenceDTO(occ))
	}
	return out
}

type conflictDTO struct {
	Kind             string `json:"kind"`
	DoctorID         string `json:"doctor_id"`
	OccurrenceID     string `json:"occurrence_id"`
	WithOccurrenceID string `json:"with_occurrence_id,omitempty"`
	Date             string `json:"date"`
}

func toConflictDTOs(conflicts []conflict.Conflict) []conflictDTO {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictDTO{
			Kind:             string(c.Kind),
			DoctorID:         c.DoctorID,
			OccurrenceID:     c.OccurrenceID,
			WithOccurrenceID: c.WithOccurrenceID,
			Date:             c.Date.Format(recurrence.ISODate),
		})
	}
	return out
}

type templateSlotDTO struct {
	ID                 string   `json:"id"`
	Day                string   `json:"day"`
	Period             string   `json:"period"`
	Time               string   `json:"time,omitempty"`
	Location           string   `json:"location"`
	Type               string   `json:"type"`
	DefaultDoctorID    string   `json:"default_doctor_id,omitempty"`
	SecondaryDoctorIDs []string `json:"secondary_doctor_ids,omitempty"`
	DoctorIDs          []string `json:"doctor_ids,omitempty"`
	BackupDoctorID     string   `json:"backup_doctor_id,omitempty"`
	SubType            string   `json:"sub_type,omitempty"`
	IsRequired         bool     `json:"is_required"`
	IsBlocking         bool     `json:"is_blocking"`
	Frequency          string   `json:"frequency,omitempty"`
}

func (d templateSlotDTO) toLocalSlot() application.LocalSlot {
	return application.LocalSlot{
		ID: application.ParseSlotID(strings.TrimSpace(d.ID)),
		Slot: recurrence.TemplateSlot{
			Day:                recurrence.DayOfWeek(d.Day),
			Period:             recurrence.Period(d.Period),
			Time:               d.Time,
			Location:           strings.TrimSpace(d.Location),
			Type:               recurrence.SlotType(d.Type),
			DefaultDoctorID:    d.DefaultDoctorID,
			SecondaryDoctorIDs: d.SecondaryDoctorIDs,
			DoctorIDs:          d.DoctorIDs,
			BackupDoctorID:     d.BackupDoctorID,
			SubType:            d.SubType,
			IsRequired:         d.IsRequired,
			IsBlocking:         d.IsBlocking,
			Frequency:          recurrence.Frequency(d.Frequency),
		},
	}
}

func toTemplateSlotDTO(slot recurrence.TemplateSlot) templateSlotDTO {
	return templateSlotDTO{
		ID:                 slot.ID,
		Day:                string(slot.Day),
		Period:             string(slot.Period),
		Time:               slot.Time,
		Location:           slot.Location,
		Type:               string(slot.Type),
		DefaultDoctorID:    slot.DefaultDoctorID,
		SecondaryDoctorIDs: slot.SecondaryDoctorIDs,
		DoctorIDs:          slot.DoctorIDs,
		BackupDoctorID:     slot.BackupDoctorID,
		SubType:            slot.SubType,
		IsRequired:         slot.IsRequired,
		IsBlocking:         slot.IsBlocking,
		Frequency:          string(slot.Frequency),
	}
}

func toTemplateSlotDTOs(slots []recurrence.TemplateSlot) []templateSlotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]templateSlotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toTemplateSlotDTO(slot))
	}
	return out
}

type manualInstanceDTO struct {
	ID             string   `json:"id,omitempty"`
	Date           string   `json:"date"`
	Time           string   `json:"time,omitempty"`
	DoctorIDs      []string `json:"doctor_ids,omitempty"`
	BackupDoctorID string   `json:"backup_doctor_id,omitempty"`
}

type rcpDefinitionDTO struct {
	ID                string              `json:"id,omitempty"`
	Name              string              `json:"name"`
	Day               string              `json:"day,omitempty"`
	Period            string              `json:"period,omitempty"`
	Time              string              `json:"time,omitempty"`
	Frequency         string              `json:"frequency"`
	WeekParity        string              `json:"week_parity,omitempty"`
	MonthlyWeekNumber int                 `json:"monthly_week_number,omitempty"`
	DoctorIDs         []string            `json:"doctor_ids,omitempty"`
	BackupDoctorID    string              `json:"backup_doctor_id,omitempty"`
	ManualInstances   []manualInstanceDTO `json:"manual_instances,omitempty"`
}

func (d rcpDefinitionDTO) toDefinition() recurrence.RcpDefinition {
	definition := recurrence.RcpDefinition{
		ID:                d.ID,
		Name:              strings.TrimSpace(d.Name),
		Day:               recurrence.DayOfWeek(d.Day),
		Period:            recurrence.Period(d.Period),
		Time:              d.Time,
		Frequency:         recurrence.Frequency(d.Frequency),
		WeekParity:        recurrence.WeekParity(d.WeekParity),
		MonthlyWeekNumber: d.MonthlyWeekNumber,
		DoctorIDs:         d.DoctorIDs,
		BackupDoctorID:    d.BackupDoctorID,
	}
	for _, instance := range d.ManualInstances {
		date, err := time.Parse(recurrence.ISODate, strings.TrimSpace(instance.Date))
		if err != nil {
			// A zero date fails service validation with a field error.
			date = time.Time{}
		}
		definition.ManualInstances = append(definition.ManualInstances, recurrence.ManualInstance{
			ID:             instance.ID,
			Date:           date,
			Time:           instance.Time,
			DoctorIDs:      instance.DoctorIDs,
			BackupDoctorID: instance.BackupDoctorID,
		})
	}
	return definition
}

func toRcpDefinitionDTO(definition recurrence.RcpDefinition) rcpDefinitionDTO {
	dto := rcpDefinitionDTO{
		ID:                definition.ID,
		Name:              definition.Name,
		Day:               string(definition.Day),
		Period:            string(definition.Period),
		Time:              definition.Time,
		Frequency:         string(definition.Frequency),
		WeekParity:        string(definition.WeekParity),
		MonthlyWeekNumber: definition.MonthlyWeekNumber,
		DoctorIDs:         definition.DoctorIDs,
		BackupDoctorID:    definition.BackupDoctorID,
	}
	for _, instance := range definition.ManualInstances {
		dto.ManualInstances = append(dto.ManualInstances, manualInstanceDTO{
			ID:             instance.ID,
			Date:           instance.Date.Format(recurrence.ISODate),
			Time:           instance.Time,
			DoctorIDs:      instance.DoctorIDs,
			BackupDoctorID: instance.BackupDoctorID,
		})
	}
	return dto
}

type exceptionDTO struct {
	ID              string   `json:"id,omitempty"`
	TemplateID      string   `json:"template_id"`
	OriginalDate    string   `json:"original_date"`
	NewDate         string   `json:"new_date,omitempty"`
	NewPeriod       string   `json:"new_period,omitempty"`
	NewTime         string   `json:"new_time,omitempty"`
	IsCancelled     bool     `json:"is_cancelled"`
	CustomDoctorIDs []string `json:"custom_doctor_ids,omitempty"`
}

func (d exceptionDTO) toException() recurrence.Exception {
	exception := recurrence.Exception{
		ID:              d.ID,
		TemplateID:      strings.TrimSpace(d.TemplateID),
		NewPeriod:       recurrence.Period(d.NewPeriod),
		NewTime:         d.NewTime,
		IsCancelled:     d.IsCancelled,
		CustomDoctorIDs: d.CustomDoctorIDs,
	}
	if date, err := time.Parse(recurrence.ISODate, strings.TrimSpace(d.OriginalDate)); err == nil {
		exception.OriginalDate = date
	}
	if d.NewDate != "" {
		if date, err := time.Parse(recurrence.ISODate, strings.TrimSpace(d.NewDate)); err == nil {
			exception.NewDate = &date
		}
	}
	return exception
}

func toExceptionDTO(exception recurrence.Exception) exceptionDTO {
	dto := exceptionDTO{
		ID:              exception.ID,
		TemplateID:      exception.TemplateID,
		OriginalDate:    exception.OriginalDate.Format(recurrence.ISODate),
		NewPeriod:       string(exception.NewPeriod),
		NewTime:         exception.NewTime,
		IsCancelled:     exception.IsCancelled,
		CustomDoctorIDs: exception.CustomDoctorIDs,
	}
	if exception.NewDate != nil {
		dto.NewDate = exception.NewDate.Format(recurrence.ISODate)
	}
	return dto
}

type doctorDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Color              string   `json:"color,omitempty"`
	Specialties        []string `json:"specialties,omitempty"`
	ExcludedDays       []string `json:"excluded_days,omitempty"`
	ExcludedActivities []string `json:"excluded_activities,omitempty"`
	ExcludedSlotTypes  []string `json:"excluded_slot_types,omitempty"`
}

func toDoctorDTO(doctor application.Doctor) doctorDTO {
	dto := doctorDTO{
		ID:                 doctor.ID,
		Name:               doctor.Name,
		Color:              doctor.Color,
		Specialties:        doctor.Specialties,
		ExcludedActivities: doctor.ExcludedActivities,
	}
	for _, day := range doctor.ExcludedDays {
		dto.ExcludedDays = append(dto.ExcludedDays, string(day))
	}
	for _, slotType := range doctor.ExcludedSlotTypes {
		dto.ExcludedSlotTypes = append(dto.ExcludedSlotTypes, string(slotType))
	}
	return dto
}

type unavailabilityDTO struct {
	ID        string `json:"id,omitempty"`
	DoctorID  string `json:"doctor_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Period    string `json:"period,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (d unavailabilityDTO) toUnavailability() application.Unavailability {
	return application.Unavailability{
		ID:        d.ID,
		DoctorID:  strings.TrimSpace(d.DoctorID),
		StartDate: strings.TrimSpace(d.StartDate),
		EndDate:   strings.TrimSpace(d.EndDate),
		Period:    recurrence.Period(d.Period),
		Reason:    d.Reason,
	}
}

func toUnavailabilityDTO(unavailability application.Unavailability) unavailabilityDTO {
	return unavailabilityDTO{
		ID:        unavailability.ID,
		DoctorID:  unavailability.DoctorID,
		StartDate: unavailability.StartDate,
		EndDate:   unavailability.EndDate,
		Period:    string(unavailability.Period),
		Reason:    unavailability.Reason,
	}
}
