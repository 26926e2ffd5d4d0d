package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

func TestExceptionService_Put(t *testing.T) {
	t.Run("normalizes dates and assigns an id", func(t *testing.T) {
		repo := &exceptionRepoStub{}
		svc := NewExceptionService(repo, sequentialIDs("id"), fixedClock)

		newDate := time.Date(2025, 6, 4, 17, 45, 0, 0, time.UTC)
		stored, err := svc.Put(context.Background(), recurrence.Exception{
			TemplateID:   "t1",
			OriginalDate: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			NewDate:      &newDate,
		})
		if err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if stored.ID != "id1" {
			t.Errorf("expected assigned id, got %s", stored.ID)
		}
		if len(repo.upserted) != 1 {
			t.Fatalf("expected 1 upsert, got %d", len(repo.upserted))
		}
		row := repo.upserted[0]
		if row.OriginalDate != "2025-06-02" {
			t.Errorf("expected midnight-normalized original date, got %s", row.OriginalDate)
		}
		if row.NewDate == nil || *row.NewDate != "2025-06-04" {
			t.Errorf("expected midnight-normalized new date, got %v", row.NewDate)
		}
	})

	t.Run("rejects cancel combined with reschedule", func(t *testing.T) {
		svc := NewExceptionService(&exceptionRepoStub{}, nil, nil)

		newDate := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
		_, err := svc.Put(context.Background(), recurrence.Exception{
			TemplateID:   "t1",
			OriginalDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			IsCancelled:  true,
			NewDate:      &newDate,
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["new_date"]; !ok {
			t.Fatalf("expected new_date validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("requires template id and original date", func(t *testing.T) {
		svc := NewExceptionService(&exceptionRepoStub{}, nil, nil)

		_, err := svc.Put(context.Background(), recurrence.Exception{})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"template_id", "original_date"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestExceptionService_Delete(t *testing.T) {
	t.Run("deletes by occurrence key", func(t *testing.T) {
		repo := &exceptionRepoStub{}
		svc := NewExceptionService(repo, nil, nil)

		err := svc.Delete(context.Background(), "t1", time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if repo.deletedKey != [2]string{"t1", "2025-06-02"} {
			t.Fatalf("unexpected delete key: %v", repo.deletedKey)
		}
	})

	t.Run("tolerates a missing exception", func(t *testing.T) {
		repo := &exceptionRepoStub{deleteErr: persistence.ErrNotFound}
		svc := NewExceptionService(repo, nil, nil)

		if err := svc.Delete(context.Background(), "t1", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("expected missing exception to be tolerated, got %v", err)
		}
	})
}

func TestExceptionService_List(t *testing.T) {
	repo := &exceptionRepoStub{exceptions: []persistence.ExceptionRow{
		{ID: "e1", TemplateID: "t1", OriginalDate: "2025-06-02", IsCancelled: true},
	}}
	svc := NewExceptionService(repo, nil, nil)

	exceptions, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(exceptions) != 1 || !exceptions[0].IsCancelled {
		t.Fatalf("unexpected exceptions: %+v", exceptions)
	}
}
