package application

import (
	"fmt"
	"time"

	"github.com/example/clinic-planner/internal/conflict"
	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// The store speaks in row types with nullable columns and ISO date strings;
// the planning engine speaks in recurrence types. The conversions are kept
// explicit so a schema drift shows up here instead of deep in a handler.

func templateSlotFromRow(row persistence.TemplateSlotRow) recurrence.TemplateSlot {
	return recurrence.TemplateSlot{
		ID:                 row.ID,
		Day:                recurrence.DayOfWeek(row.Day),
		Period:             recurrence.Period(row.Period),
		Time:               stringValue(row.Time),
		Location:           row.Location,
		Type:               recurrence.SlotType(row.Type),
		DefaultDoctorID:    stringValue(row.DefaultDoctorID),
		SecondaryDoctorIDs: row.SecondaryDoctorIDs,
		DoctorIDs:          row.DoctorIDs,
		BackupDoctorID:     stringValue(row.BackupDoctorID),
		SubType:            stringValue(row.SubType),
		IsRequired:         row.IsRequired,
		IsBlocking:         row.IsBlocking,
		Frequency:          recurrence.Frequency(row.Frequency),
	}
}

func templateSlotToRow(slot recurrence.TemplateSlot, createdAt, updatedAt time.Time) persistence.TemplateSlotRow {
	frequency := slot.Frequency
	if frequency == "" {
		frequency = recurrence.FrequencyWeekly
	}
	return persistence.TemplateSlotRow{
		ID:                 slot.ID,
		Day:                string(slot.Day),
		Period:             string(slot.Period),
		Time:               stringPointer(slot.Time),
		Location:           slot.Location,
		Type:               string(slot.Type),
		DefaultDoctorID:    stringPointer(slot.DefaultDoctorID),
		SecondaryDoctorIDs: slot.SecondaryDoctorIDs,
		DoctorIDs:          slot.DoctorIDs,
		BackupDoctorID:     stringPointer(slot.BackupDoctorID),
		SubType:            stringPointer(slot.SubType),
		IsRequired:         slot.IsRequired,
		IsBlocking:         slot.IsBlocking,
		Frequency:          string(frequency),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

func rcpDefinitionFromRow(row persistence.RcpDefinitionRow) (recurrence.RcpDefinition, error) {
	definition := recurrence.RcpDefinition{
		ID:             row.ID,
		Name:           row.Name,
		Day:            recurrence.DayOfWeek(stringValue(row.Day)),
		Period:         recurrence.Period(stringValue(row.Period)),
		Time:           stringValue(row.Time),
		Frequency:      recurrence.Frequency(row.Frequency),
		WeekParity:     recurrence.WeekParity(stringValue(row.WeekParity)),
		DoctorIDs:      row.DoctorIDs,
		BackupDoctorID: stringValue(row.BackupDoctorID),
	}
	if row.MonthlyWeekNumber != nil {
		definition.MonthlyWeekNumber = *row.MonthlyWeekNumber
	}
	for _, instanceRow := range row.ManualInstances {
		instance, err := manualInstanceFromRow(instanceRow)
		if err != nil {
			return recurrence.RcpDefinition{}, err
		}
		definition.ManualInstances = append(definition.ManualInstances, instance)
	}
	return definition, nil
}

func rcpDefinitionToRow(definition recurrence.RcpDefinition, createdAt, updatedAt time.Time) persistence.RcpDefinitionRow {
	row := persistence.RcpDefinitionRow{
		ID:             definition.ID,
		Name:           definition.Name,
		Day:            stringPointer(string(definition.Day)),
		Period:         stringPointer(string(definition.Period)),
		Time:           stringPointer(definition.Time),
		Frequency:      string(definition.Frequency),
		WeekParity:     stringPointer(string(definition.WeekParity)),
		DoctorIDs:      definition.DoctorIDs,
		BackupDoctorID: stringPointer(definition.BackupDoctorID),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
	if definition.MonthlyWeekNumber != 0 {
		weekNumber := definition.MonthlyWeekNumber
		row.MonthlyWeekNumber = &weekNumber
	}
	for _, instance := range definition.ManualInstances {
		row.ManualInstances = append(row.ManualInstances, manualInstanceToRow(definition.ID, instance))
	}
	return row
}

func manualInstanceFromRow(row persistence.ManualInstanceRow) (recurrence.ManualInstance, error) {
	date, err := parseISODate(row.Date)
	if err != nil {
		return recurrence.ManualInstance{}, fmt.Errorf("manual instance %s: %w", row.ID, err)
	}
	return recurrence.ManualInstance{
		ID:             row.ID,
		Date:           date,
		Time:           stringValue(row.Time),
		DoctorIDs:      row.DoctorIDs,
		BackupDoctorID: stringValue(row.BackupDoctorID),
	}, nil
}

func manualInstanceToRow(rcpID string, instance recurrence.ManualInstance) persistence.ManualInstanceRow {
	return persistence.ManualInstanceRow{
		ID:              instance.ID,
		RcpDefinitionID: rcpID,
		Date:            instance.Date.Format(recurrence.ISODate),
		Time:            stringPointer(instance.Time),
		DoctorIDs:       instance.DoctorIDs,
		BackupDoctorID:  stringPointer(instance.BackupDoctorID),
	}
}

func exceptionFromRow(row persistence.ExceptionRow) (recurrence.Exception, error) {
	originalDate, err := parseISODate(row.OriginalDate)
	if err != nil {
		return recurrence.Exception{}, fmt.Errorf("exception %s: %w", row.ID, err)
	}
	exception := recurrence.Exception{
		ID:              row.ID,
		TemplateID:      row.TemplateID,
		OriginalDate:    originalDate,
		NewPeriod:       recurrence.Period(stringValue(row.NewPeriod)),
		NewTime:         stringValue(row.NewTime),
		IsCancelled:     row.IsCancelled,
		CustomDoctorIDs: row.CustomDoctorIDs,
	}
	if row.NewDate != nil {
		newDate, err := parseISODate(*row.NewDate)
		if err != nil {
			return recurrence.Exception{}, fmt.Errorf("exception %s: %w", row.ID, err)
		}
		exception.NewDate = &newDate
	}
	return exception, nil
}

func exceptionToRow(exception recurrence.Exception, updatedAt time.Time) persistence.ExceptionRow {
	row := persistence.ExceptionRow{
		ID:              exception.ID,
		TemplateID:      exception.TemplateID,
		OriginalDate:    exception.OriginalDate.Format(recurrence.ISODate),
		NewPeriod:       stringPointer(string(exception.NewPeriod)),
		NewTime:         stringPointer(exception.NewTime),
		IsCancelled:     exception.IsCancelled,
		CustomDoctorIDs: exception.CustomDoctorIDs,
		UpdatedAt:       updatedAt,
	}
	if exception.NewDate != nil {
		newDate := exception.NewDate.Format(recurrence.ISODate)
		row.NewDate = &newDate
	}
	return row
}

func doctorFromRow(row persistence.DoctorRow) Doctor {
	doctor := Doctor{
		ID:                 row.ID,
		Name:               row.Name,
		Color:              row.Color,
		Specialties:        row.Specialties,
		ExcludedActivities: row.ExcludedActivities,
	}
	for _, day := range row.ExcludedDays {
		doctor.ExcludedDays = append(doctor.ExcludedDays, recurrence.DayOfWeek(day))
	}
	for _, slotType := range row.ExcludedSlotTypes {
		doctor.ExcludedSlotTypes = append(doctor.ExcludedSlotTypes, recurrence.SlotType(slotType))
	}
	return doctor
}

func unavailabilityFromRow(row persistence.UnavailabilityRow) Unavailability {
	return Unavailability{
		ID:        row.ID,
		DoctorID:  row.DoctorID,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Period:    recurrence.Period(stringValue(row.Period)),
		Reason:    stringValue(row.Reason),
	}
}

func unavailabilityToRow(unavailability Unavailability) persistence.UnavailabilityRow {
	return persistence.UnavailabilityRow{
		ID:        unavailability.ID,
		DoctorID:  unavailability.DoctorID,
		StartDate: unavailability.StartDate,
		EndDate:   unavailability.EndDate,
		Period:    stringPointer(string(unavailability.Period)),
		Reason:    stringPointer(unavailability.Reason),
	}
}

func absenceFromRow(row persistence.UnavailabilityRow) (conflict.Absence, error) {
	start, err := parseISODate(row.StartDate)
	if err != nil {
		return conflict.Absence{}, fmt.Errorf("unavailability %s: %w", row.ID, err)
	}
	end, err := parseISODate(row.EndDate)
	if err != nil {
		return conflict.Absence{}, fmt.Errorf("unavailability %s: %w", row.ID, err)
	}
	return conflict.Absence{
		DoctorID: row.DoctorID,
		Start:    start,
		End:      end,
		Period:   recurrence.Period(stringValue(row.Period)),
	}, nil
}

func parseISODate(value string) (time.Time, error) {
	date, err := time.Parse(recurrence.ISODate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", value, err)
	}
	return date, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func stringPointer(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
