package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		if err := storage.Close(); err != nil {
			t.Errorf("failed to close storage: %v", err)
		}
	})

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return storage
}

func strPtr(v string) *string {
	return &v
}

func TestMigrateIsIdempotent(t *testing.T) {
	storage := openTestStorage(t)

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestTemplateUpsertKeepsStoredIDOnConflict(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewTemplateRepository(storage)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	original := persistence.TemplateSlotRow{
		ID:        "slot-1",
		Day:       "MONDAY",
		Period:    "MORNING",
		Location:  "Bloc A",
		Type:      "CONSULTATION",
		DoctorIDs: []string{"d1"},
		Frequency: "WEEKLY",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := repo.UpsertTemplateSlots(ctx, []persistence.TemplateSlotRow{original}); err != nil {
		t.Fatalf("initial upsert failed: %v", err)
	}

	colliding := original
	colliding.ID = "slot-2"
	colliding.DoctorIDs = []string{"d2", "d3"}
	colliding.UpdatedAt = now.Add(time.Hour)

	stored, err := repo.UpsertTemplateSlots(ctx, []persistence.TemplateSlotRow{colliding})
	if err != nil {
		t.Fatalf("conflicting upsert failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 row back, got %d", len(stored))
	}
	if stored[0].ID != "slot-1" {
		t.Errorf("expected stored id slot-1, got %s", stored[0].ID)
	}
	if len(stored[0].DoctorIDs) != 2 || stored[0].DoctorIDs[0] != "d2" {
		t.Errorf("expected updated doctor ids, got %v", stored[0].DoctorIDs)
	}

	all, err := repo.ListTemplateSlots(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 stored slot, got %d", len(all))
	}
}

func TestTemplateUpdateMissingSlot(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewTemplateRepository(storage)

	err := repo.UpdateTemplateSlot(context.Background(), persistence.TemplateSlotRow{
		ID: "missing", Day: "MONDAY", Period: "MORNING",
		Location: "Bloc A", Type: "CONSULTATION", Frequency: "WEEKLY",
	})
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManualInstancesReplacedAndCascaded(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewRcpRepository(storage)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	definition := persistence.RcpDefinitionRow{
		ID:        "rcp-1",
		Name:      "RCP Sénologie",
		Frequency: "MANUAL",
		DoctorIDs: []string{"d1", "d2"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := repo.CreateRcpDefinition(ctx, definition); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first := []persistence.ManualInstanceRow{
		{ID: "i1", RcpDefinitionID: "rcp-1", Date: "2025-06-10"},
		{ID: "i2", RcpDefinitionID: "rcp-1", Date: "2025-06-24", Time: strPtr("13:00")},
	}
	if err := repo.ReplaceManualInstances(ctx, "rcp-1", first); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	second := []persistence.ManualInstanceRow{
		{ID: "i3", RcpDefinitionID: "rcp-1", Date: "2025-07-01"},
	}
	if err := repo.ReplaceManualInstances(ctx, "rcp-1", second); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	definitions, err := repo.ListRcpDefinitions(ctx, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(definitions) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(definitions))
	}
	if len(definitions[0].ManualInstances) != 1 || definitions[0].ManualInstances[0].ID != "i3" {
		t.Fatalf("expected replacement to keep only i3, got %v", definitions[0].ManualInstances)
	}

	if err := repo.DeleteRcpDefinition(ctx, "rcp-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var count int
	if err := storage.DB().QueryRow(`SELECT COUNT(*) FROM rcp_manual_instances`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected cascade to remove manual instances, found %d", count)
	}
}

func TestManualInstanceRequiresDefinition(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewRcpRepository(storage)

	err := repo.ReplaceManualInstances(context.Background(), "missing-rcp", []persistence.ManualInstanceRow{
		{ID: "i1", RcpDefinitionID: "missing-rcp", Date: "2025-06-10"},
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestExceptionUpsertReplacesByOccurrenceKey(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewExceptionRepository(storage)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.UpsertException(ctx, persistence.ExceptionRow{
		ID: "e1", TemplateID: "t1", OriginalDate: "2025-06-02",
		IsCancelled: true, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.UpsertException(ctx, persistence.ExceptionRow{
		ID: "e2", TemplateID: "t1", OriginalDate: "2025-06-02",
		NewDate: strPtr("2025-06-03"), UpdatedAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	exceptions, err := repo.ListExceptions(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(exceptions) != 1 {
		t.Fatalf("expected 1 exception after replacement, got %d", len(exceptions))
	}
	if exceptions[0].IsCancelled {
		t.Errorf("expected replacement to clear cancellation")
	}
	if exceptions[0].NewDate == nil || *exceptions[0].NewDate != "2025-06-03" {
		t.Errorf("expected new date 2025-06-03, got %v", exceptions[0].NewDate)
	}
}

func TestDeleteExceptionMissing(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewExceptionRepository(storage)

	err := repo.DeleteException(context.Background(), "t1", "2025-06-02")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttendanceLastWriteWins(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewAttendanceRepository(storage)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.UpsertAttendance(ctx, persistence.AttendanceRow{
		OccurrenceID: "t1-2025-06-02", DoctorID: "d1", Status: "PRESENT", UpdatedAt: now,
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.UpsertAttendance(ctx, persistence.AttendanceRow{
		OccurrenceID: "t1-2025-06-02", DoctorID: "d1", Status: "ABSENT", UpdatedAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	records, err := repo.ListAttendance(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != "ABSENT" {
		t.Errorf("expected latest status ABSENT, got %s", records[0].Status)
	}
}

func TestAttendanceRejectsUnknownStatus(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewAttendanceRepository(storage)

	err := repo.UpsertAttendance(context.Background(), persistence.AttendanceRow{
		OccurrenceID: "t1-2025-06-02", DoctorID: "d1", Status: "MAYBE",
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestDoctorDirectoryRoundTrip(t *testing.T) {
	storage := openTestStorage(t)
	repo := NewDoctorRepository(storage)
	ctx := context.Background()

	doctor := persistence.DoctorRow{
		ID:           "d1",
		Name:         "Dr Martin",
		Color:        "#3b82f6",
		Specialties:  []string{"senologie"},
		ExcludedDays: []string{"WEDNESDAY"},
	}
	if err := repo.UpsertDoctor(ctx, doctor); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	stored, err := repo.GetDoctor(ctx, "d1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != "Dr Martin" || len(stored.Specialties) != 1 {
		t.Errorf("unexpected stored doctor: %+v", stored)
	}

	if _, err := repo.GetDoctor(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnavailabilityCascadesWithDoctor(t *testing.T) {
	storage := openTestStorage(t)
	doctors := NewDoctorRepository(storage)
	unavailabilities := NewUnavailabilityRepository(storage)
	ctx := context.Background()

	if err := doctors.UpsertDoctor(ctx, persistence.DoctorRow{ID: "d1", Name: "Dr Martin"}); err != nil {
		t.Fatalf("upsert doctor failed: %v", err)
	}
	if _, err := unavailabilities.CreateUnavailability(ctx, persistence.UnavailabilityRow{
		ID: "u1", DoctorID: "d1", StartDate: "2025-06-02", EndDate: "2025-06-06",
	}); err != nil {
		t.Fatalf("create unavailability failed: %v", err)
	}

	if _, err := storage.DB().Exec(`DELETE FROM doctors WHERE id = 'd1'`); err != nil {
		t.Fatalf("delete doctor failed: %v", err)
	}
	rows, err := unavailabilities.ListUnavailabilities(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected cascade to remove unavailabilities, found %d", len(rows))
	}
}
