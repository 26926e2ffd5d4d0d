package application

import (
	"context"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

type templateRepoStub struct {
	slots     []persistence.TemplateSlotRow
	listErr   error
	idsErr    error
	upsertErr error
	updateErr map[string]error
	deleteErr error

	deleted  [][]string
	updated  []persistence.TemplateSlotRow
	upserted []persistence.TemplateSlotRow

	// assignID rewrites ids during upsert, simulating the store keeping the
	// id of a colliding row.
	assignID func(row persistence.TemplateSlotRow) string
}

func (r *templateRepoStub) ListTemplateSlots(ctx context.Context) ([]persistence.TemplateSlotRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.TemplateSlotRow, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *templateRepoStub) ListTemplateSlotIDs(ctx context.Context) ([]string, error) {
	if r.idsErr != nil {
		return nil, r.idsErr
	}
	ids := make([]string, 0, len(r.slots))
	for _, slot := range r.slots {
		ids = append(ids, slot.ID)
	}
	return ids, nil
}

func (r *templateRepoStub) UpsertTemplateSlots(ctx context.Context, rows []persistence.TemplateSlotRow) ([]persistence.TemplateSlotRow, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	out := make([]persistence.TemplateSlotRow, len(rows))
	for i, row := range rows {
		if r.assignID != nil {
			row.ID = r.assignID(row)
		}
		out[i] = row
	}
	r.upserted = append(r.upserted, out...)
	return out, nil
}

func (r *templateRepoStub) UpdateTemplateSlot(ctx context.Context, row persistence.TemplateSlotRow) error {
	if err := r.updateErr[row.ID]; err != nil {
		return err
	}
	r.updated = append(r.updated, row)
	return nil
}

func (r *templateRepoStub) DeleteTemplateSlots(ctx context.Context, ids []string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, ids)
	return nil
}

type rcpRepoStub struct {
	definitions []persistence.RcpDefinitionRow
	listErr     error
	createErr   error
	updateErr   error
	replaceErr  error
	deleteErr   error

	created   []persistence.RcpDefinitionRow
	updated   []persistence.RcpDefinitionRow
	replaced  map[string][]persistence.ManualInstanceRow
	deletedID string
}

func (r *rcpRepoStub) ListRcpDefinitions(ctx context.Context, withManualInstances bool) ([]persistence.RcpDefinitionRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.RcpDefinitionRow, len(r.definitions))
	copy(out, r.definitions)
	if !withManualInstances {
		for i := range out {
			out[i].ManualInstances = nil
		}
	}
	return out, nil
}

func (r *rcpRepoStub) CreateRcpDefinition(ctx context.Context, row persistence.RcpDefinitionRow) (persistence.RcpDefinitionRow, error) {
	if r.createErr != nil {
		return persistence.RcpDefinitionRow{}, r.createErr
	}
	r.created = append(r.created, row)
	return row, nil
}

func (r *rcpRepoStub) UpdateRcpDefinition(ctx context.Context, row persistence.RcpDefinitionRow) (persistence.RcpDefinitionRow, error) {
	if r.updateErr != nil {
		return persistence.RcpDefinitionRow{}, r.updateErr
	}
	r.updated = append(r.updated, row)
	return row, nil
}

func (r *rcpRepoStub) ReplaceManualInstances(ctx context.Context, rcpID string, rows []persistence.ManualInstanceRow) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	if r.replaced == nil {
		r.replaced = make(map[string][]persistence.ManualInstanceRow)
	}
	r.replaced[rcpID] = rows
	return nil
}

func (r *rcpRepoStub) DeleteRcpDefinition(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

type exceptionRepoStub struct {
	exceptions []persistence.ExceptionRow
	listErr    error
	upsertErr  error
	deleteErr  error

	upserted   []persistence.ExceptionRow
	deletedKey [2]string
}

func (r *exceptionRepoStub) ListExceptions(ctx context.Context) ([]persistence.ExceptionRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.ExceptionRow, len(r.exceptions))
	copy(out, r.exceptions)
	return out, nil
}

func (r *exceptionRepoStub) UpsertException(ctx context.Context, row persistence.ExceptionRow) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, row)
	return nil
}

func (r *exceptionRepoStub) DeleteException(ctx context.Context, templateID, originalDate string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedKey = [2]string{templateID, originalDate}
	return nil
}

type attendanceRepoStub struct {
	records   []persistence.AttendanceRow
	listErr   error
	upsertErr error

	upserted []persistence.AttendanceRow
}

func (r *attendanceRepoStub) ListAttendance(ctx context.Context) ([]persistence.AttendanceRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.AttendanceRow, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *attendanceRepoStub) UpsertAttendance(ctx context.Context, row persistence.AttendanceRow) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, row)
	return nil
}

type doctorRepoStub struct {
	doctors []persistence.DoctorRow
	listErr error
	getErr  error
}

func (r *doctorRepoStub) ListDoctors(ctx context.Context) ([]persistence.DoctorRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.DoctorRow, len(r.doctors))
	copy(out, r.doctors)
	return out, nil
}

func (r *doctorRepoStub) GetDoctor(ctx context.Context, id string) (persistence.DoctorRow, error) {
	if r.getErr != nil {
		return persistence.DoctorRow{}, r.getErr
	}
	for _, doctor := range r.doctors {
		if doctor.ID == id {
			return doctor, nil
		}
	}
	return persistence.DoctorRow{}, persistence.ErrNotFound
}

type unavailabilityRepoStub struct {
	rows      []persistence.UnavailabilityRow
	listErr   error
	createErr error
	deleteErr error

	created   []persistence.UnavailabilityRow
	deletedID string
}

func (r *unavailabilityRepoStub) ListUnavailabilities(ctx context.Context) ([]persistence.UnavailabilityRow, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.UnavailabilityRow, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *unavailabilityRepoStub) CreateUnavailability(ctx context.Context, row persistence.UnavailabilityRow) (persistence.UnavailabilityRow, error) {
	if r.createErr != nil {
		return persistence.UnavailabilityRow{}, r.createErr
	}
	r.created = append(r.created, row)
	return row, nil
}

func (r *unavailabilityRepoStub) DeleteUnavailability(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
