package persistence

import "context"

// TemplateRepository stores the week-independent schedule template.
type TemplateRepository interface {
	ListTemplateSlots(ctx context.Context) ([]TemplateSlotRow, error)
	ListTemplateSlotIDs(ctx context.Context) ([]string, error)
	// UpsertTemplateSlots inserts the given rows, updating in place any row
	// that collides on the (day, period, location, type) uniqueness key. The
	// batch is one atomic unit: either every row lands or none do. Returned
	// rows carry their store-assigned ids.
	UpsertTemplateSlots(ctx context.Context, rows []TemplateSlotRow) ([]TemplateSlotRow, error)
	UpdateTemplateSlot(ctx context.Context, row TemplateSlotRow) error
	DeleteTemplateSlots(ctx context.Context, ids []string) error
}

// RcpRepository stores multidisciplinary meeting definitions and their
// manual instances.
type RcpRepository interface {
	// ListRcpDefinitions returns definitions ordered by name. Manual
	// instances are attached when withManualInstances is true.
	ListRcpDefinitions(ctx context.Context, withManualInstances bool) ([]RcpDefinitionRow, error)
	CreateRcpDefinition(ctx context.Context, row RcpDefinitionRow) (RcpDefinitionRow, error)
	UpdateRcpDefinition(ctx context.Context, row RcpDefinitionRow) (RcpDefinitionRow, error)
	// ReplaceManualInstances deletes the definition's stored instances and
	// inserts the given ones in a single transaction.
	ReplaceManualInstances(ctx context.Context, rcpID string, rows []ManualInstanceRow) error
	DeleteRcpDefinition(ctx context.Context, id string) error
}

// ExceptionRepository stores per-occurrence overrides.
type ExceptionRepository interface {
	// ListExceptions returns all exceptions ordered oldest write first, so
	// the newest row wins when the overlay meets a duplicated key.
	ListExceptions(ctx context.Context) ([]ExceptionRow, error)
	// UpsertException replaces any stored row matching the exception's
	// (template_id, original_date) key.
	UpsertException(ctx context.Context, row ExceptionRow) error
	DeleteException(ctx context.Context, templateID, originalDate string) error
}

// AttendanceRepository stores per-occurrence, per-doctor decisions.
type AttendanceRepository interface {
	ListAttendance(ctx context.Context) ([]AttendanceRow, error)
	// UpsertAttendance is an idempotent write keyed by
	// (occurrence_id, doctor_id); the last write wins.
	UpsertAttendance(ctx context.Context, row AttendanceRow) error
}

// DoctorRepository exposes the physician directory.
type DoctorRepository interface {
	ListDoctors(ctx context.Context) ([]DoctorRow, error)
	GetDoctor(ctx context.Context, id string) (DoctorRow, error)
}

// UnavailabilityRepository stores doctor absence periods.
type UnavailabilityRepository interface {
	ListUnavailabilities(ctx context.Context) ([]UnavailabilityRow, error)
	CreateUnavailability(ctx context.Context, row UnavailabilityRow) (UnavailabilityRow, error)
	DeleteUnavailability(ctx context.Context, id string) error
}
