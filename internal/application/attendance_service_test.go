package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

func TestAttendanceService_RecordDecision(t *testing.T) {
	t.Run("stores the decision with the clock timestamp", func(t *testing.T) {
		repo := &attendanceRepoStub{}
		svc := NewAttendanceService(repo, nil, fixedClock)

		if err := svc.RecordDecision(context.Background(), "t1-2025-06-02", "d1", recurrence.Present); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		if len(repo.upserted) != 1 {
			t.Fatalf("expected 1 upsert, got %d", len(repo.upserted))
		}
		row := repo.upserted[0]
		if row.OccurrenceID != "t1-2025-06-02" || row.DoctorID != "d1" || row.Status != "PRESENT" {
			t.Fatalf("unexpected row: %+v", row)
		}
		if !row.UpdatedAt.Equal(fixedClock()) {
			t.Errorf("expected clock timestamp, got %v", row.UpdatedAt)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewAttendanceService(&attendanceRepoStub{}, nil, nil)

		err := svc.RecordDecision(context.Background(), "t1-2025-06-02", "d1", "MAYBE")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["status"]; !ok {
			t.Fatalf("expected status validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("maps store failures", func(t *testing.T) {
		repo := &attendanceRepoStub{upsertErr: persistence.ErrUnavailable}
		svc := NewAttendanceService(repo, nil, nil)

		err := svc.RecordDecision(context.Background(), "t1-2025-06-02", "d1", recurrence.Absent)
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	})
}

func TestAttendanceService_Snapshot(t *testing.T) {
	repo := &attendanceRepoStub{records: []persistence.AttendanceRow{
		{OccurrenceID: "t1-2025-06-02", DoctorID: "d1", Status: "PRESENT"},
		{OccurrenceID: "t1-2025-06-02", DoctorID: "d2", Status: "ABSENT"},
		{OccurrenceID: "t2-2025-06-03", DoctorID: "d1", Status: "ABSENT"},
	}}
	svc := NewAttendanceService(repo, nil, nil)

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	if status, ok := snapshot.Status("t1-2025-06-02", "d2"); !ok || status != recurrence.Absent {
		t.Errorf("expected d2 ABSENT, got %v %v", status, ok)
	}
	if _, ok := snapshot.Status("t1-2025-06-02", "d3"); ok {
		t.Error("expected no record for d3")
	}
	if _, ok := snapshot.Status("missing", "d1"); ok {
		t.Error("expected no record for unknown occurrence")
	}
}

func TestPendingCount(t *testing.T) {
	occurrences := []recurrence.Occurrence{
		{ID: "o1", DefaultDoctorID: "d1"},
		{ID: "o2", DoctorIDs: []string{"d1", "d2"}},
		{ID: "o3", SecondaryDoctorIDs: []string{"d1"}},
		{ID: "o4", BackupDoctorID: "d1"},
		{ID: "o5", DoctorIDs: []string{"d2"}},
	}
	snapshot := AttendanceSnapshot{
		"o2": {"d1": recurrence.Present},
		"o3": {"d1": recurrence.Absent},
	}

	// d1 is involved in o1..o4 and has decided o2 and o3.
	if got := PendingCount("d1", occurrences, snapshot); got != 2 {
		t.Errorf("expected pending count 2 for d1, got %d", got)
	}
	// An explicit ABSENT is a decision, not a pending item.
	if got := PendingCount("d2", occurrences, snapshot); got != 2 {
		t.Errorf("expected pending count 2 for d2, got %d", got)
	}
	if got := PendingCount("d9", occurrences, snapshot); got != 0 {
		t.Errorf("expected pending count 0 for uninvolved doctor, got %d", got)
	}
}

func TestAttendanceService_PendingForDoctor(t *testing.T) {
	templates := &templateRepoStub{slots: []persistence.TemplateSlotRow{
		{ID: "t1", Day: "MONDAY", Period: "MORNING", Location: "Salle RCP", Type: "RCP", Frequency: "WEEKLY", DoctorIDs: []string{"d1"}},
		{ID: "t2", Day: "MONDAY", Period: "AFTERNOON", Location: "Box 1", Type: "CONSULTATION", Frequency: "WEEKLY", DoctorIDs: []string{"d1"}},
	}}
	planning := NewPlanningService(templates, &rcpRepoStub{}, &exceptionRepoStub{}, &unavailabilityRepoStub{})
	attendance := &attendanceRepoStub{records: []persistence.AttendanceRow{
		{OccurrenceID: "t1-2025-06-02", DoctorID: "d1", Status: "PRESENT"},
	}}
	svc := NewAttendanceService(attendance, planning, fixedClock)

	today := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	pending, err := svc.PendingForDoctor(context.Background(), "d1", today)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}

	// Two Monday RCPs in the window; one already decided. Consultations
	// never require a decision.
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending occurrence, got %d: %+v", len(pending), pending)
	}
	if pending[0].ID != "t1-2025-06-09" {
		t.Errorf("expected t1-2025-06-09 pending, got %s", pending[0].ID)
	}
}
