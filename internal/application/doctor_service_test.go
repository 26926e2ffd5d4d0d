package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

func TestDoctorService_Directory(t *testing.T) {
	doctors := &doctorRepoStub{doctors: []persistence.DoctorRow{
		{ID: "d1", Name: "Dr Martin", Color: "#3b82f6", ExcludedDays: []string{"WEDNESDAY"}},
	}}
	svc := NewDoctorService(doctors, &unavailabilityRepoStub{}, nil)

	list, err := svc.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ExcludedDays[0] != recurrence.Wednesday {
		t.Fatalf("unexpected directory: %+v", list)
	}

	doctor, err := svc.GetDoctor(context.Background(), "d1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doctor.Name != "Dr Martin" {
		t.Errorf("unexpected doctor: %+v", doctor)
	}

	if _, err := svc.GetDoctor(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoctorService_CreateUnavailability(t *testing.T) {
	t.Run("assigns an id and stores the period", func(t *testing.T) {
		repo := &unavailabilityRepoStub{}
		svc := NewDoctorService(&doctorRepoStub{}, repo, sequentialIDs("id"))

		created, err := svc.CreateUnavailability(context.Background(), Unavailability{
			DoctorID:  "d1",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Period:    recurrence.PeriodMorning,
			Reason:    "congrès",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID != "id1" {
			t.Errorf("expected assigned id, got %s", created.ID)
		}
		if len(repo.created) != 1 || repo.created[0].DoctorID != "d1" {
			t.Fatalf("unexpected stored row: %+v", repo.created)
		}
	})

	t.Run("validates dates and ordering", func(t *testing.T) {
		svc := NewDoctorService(&doctorRepoStub{}, &unavailabilityRepoStub{}, nil)

		_, err := svc.CreateUnavailability(context.Background(), Unavailability{
			DoctorID:  "d1",
			StartDate: "2025-06-06",
			EndDate:   "2025-06-02",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end_date"]; !ok {
			t.Fatalf("expected end_date validation error, got %v", vErr.FieldErrors)
		}

		_, err = svc.CreateUnavailability(context.Background(), Unavailability{
			DoctorID:  "d1",
			StartDate: "02/06/2025",
			EndDate:   "2025-06-06",
		})
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["start_date"]; !ok {
			t.Fatalf("expected start_date validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects unknown doctor via constraint mapping", func(t *testing.T) {
		repo := &unavailabilityRepoStub{createErr: persistence.ErrConstraintViolation}
		svc := NewDoctorService(&doctorRepoStub{}, repo, sequentialIDs("id"))

		_, err := svc.CreateUnavailability(context.Background(), Unavailability{
			DoctorID:  "ghost",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
		})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestDoctorService_DeleteUnavailability(t *testing.T) {
	repo := &unavailabilityRepoStub{}
	svc := NewDoctorService(&doctorRepoStub{}, repo, nil)

	if err := svc.DeleteUnavailability(context.Background(), "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if repo.deletedID != "u1" {
		t.Fatalf("expected u1 deleted, got %s", repo.deletedID)
	}
}
