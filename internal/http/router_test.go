package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/clinic-planner/internal/application"
	"github.com/example/clinic-planner/internal/recurrence"
)

type rcpServiceStub struct {
	definitions []recurrence.RcpDefinition
	created     recurrence.RcpDefinition
	err         error

	updatedID string
	deletedID string
}

func (s *rcpServiceStub) List(ctx context.Context) ([]recurrence.RcpDefinition, error) {
	return s.definitions, s.err
}

func (s *rcpServiceStub) Create(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error) {
	if s.err != nil {
		return recurrence.RcpDefinition{}, s.err
	}
	return s.created, nil
}

func (s *rcpServiceStub) Update(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error) {
	s.updatedID = definition.ID
	if s.err != nil {
		return recurrence.RcpDefinition{}, s.err
	}
	return definition, nil
}

func (s *rcpServiceStub) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return s.err
}

type exceptionServiceStub struct {
	exceptions []recurrence.Exception
	stored     recurrence.Exception
	err        error

	deletedTemplateID string
	deletedDate       time.Time
}

func (s *exceptionServiceStub) List(ctx context.Context) ([]recurrence.Exception, error) {
	return s.exceptions, s.err
}

func (s *exceptionServiceStub) Put(ctx context.Context, exception recurrence.Exception) (recurrence.Exception, error) {
	if s.err != nil {
		return recurrence.Exception{}, s.err
	}
	return s.stored, nil
}

func (s *exceptionServiceStub) Delete(ctx context.Context, templateID string, originalDate time.Time) error {
	s.deletedTemplateID, s.deletedDate = templateID, originalDate
	return s.err
}

type doctorServiceStub struct {
	doctors          []application.Doctor
	doctor           application.Doctor
	unavailabilities []application.Unavailability
	created          application.Unavailability
	err              error

	deletedID string
}

func (s *doctorServiceStub) ListDoctors(ctx context.Context) ([]application.Doctor, error) {
	return s.doctors, s.err
}

func (s *doctorServiceStub) GetDoctor(ctx context.Context, id string) (application.Doctor, error) {
	if s.err != nil {
		return application.Doctor{}, s.err
	}
	return s.doctor, nil
}

func (s *doctorServiceStub) ListUnavailabilities(ctx context.Context) ([]application.Unavailability, error) {
	return s.unavailabilities, s.err
}

func (s *doctorServiceStub) CreateUnavailability(ctx context.Context, unavailability application.Unavailability) (application.Unavailability, error) {
	if s.err != nil {
		return application.Unavailability{}, s.err
	}
	return s.created, nil
}

func (s *doctorServiceStub) DeleteUnavailability(ctx context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func TestRouter_RcpDispatch(t *testing.T) {
	t.Parallel()

	t.Run("creates a definition", func(t *testing.T) {
		t.Parallel()
		stub := &rcpServiceStub{created: recurrence.RcpDefinition{ID: "rcp1", Name: "RCP Pneumo"}}
		router := NewRouter(RouterConfig{Rcps: NewRcpHandler(stub, nil)})

		body := `{"name":"RCP Pneumo","frequency":"WEEKLY","day":"THURSDAY","period":"MORNING"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rcps", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var response rcpDefinitionDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if response.ID != "rcp1" {
			t.Fatalf("expected assigned id in payload, got %+v", response)
		}
	})

	t.Run("routes update and delete by path id", func(t *testing.T) {
		t.Parallel()
		stub := &rcpServiceStub{}
		router := NewRouter(RouterConfig{Rcps: NewRcpHandler(stub, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/rcps/rcp1",
			strings.NewReader(`{"name":"RCP Pneumo","frequency":"WEEKLY","day":"THURSDAY","period":"MORNING"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.updatedID != "rcp1" {
			t.Fatalf("expected path id forwarded, got %q", stub.updatedID)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/rcps/rcp1", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 on delete, got %d", rec.Code)
		}
		if stub.deletedID != "rcp1" {
			t.Fatalf("expected path id forwarded, got %q", stub.deletedID)
		}
	})

	t.Run("maps a missing definition to 404", func(t *testing.T) {
		t.Parallel()
		stub := &rcpServiceStub{err: application.ErrNotFound}
		router := NewRouter(RouterConfig{Rcps: NewRcpHandler(stub, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/rcps/ghost", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var response errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if response.Message != "La ressource demandée est introuvable." {
			t.Fatalf("unexpected message: %q", response.Message)
		}
	})

	t.Run("advertises allowed methods", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Rcps: NewRcpHandler(&rcpServiceStub{}, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/rcps/rcp1", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != "PUT, DELETE" {
			t.Fatalf("unexpected Allow header: %q", allow)
		}
	})
}

func TestRouter_ExceptionDispatch(t *testing.T) {
	t.Parallel()

	t.Run("deletes by template id and date", func(t *testing.T) {
		t.Parallel()
		stub := &exceptionServiceStub{}
		router := NewRouter(RouterConfig{Exceptions: NewExceptionHandler(stub, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/exceptions/t1/2025-06-02", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.deletedTemplateID != "t1" || !stub.deletedDate.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected delete key: %s %v", stub.deletedTemplateID, stub.deletedDate)
		}
	})

	t.Run("rejects a malformed date segment", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Exceptions: NewExceptionHandler(&exceptionServiceStub{}, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/exceptions/t1/juin", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("stores an override", func(t *testing.T) {
		t.Parallel()
		stub := &exceptionServiceStub{stored: recurrence.Exception{
			ID:         "e1",
			TemplateID: "t1",
		}}
		router := NewRouter(RouterConfig{Exceptions: NewExceptionHandler(stub, nil)})

		body := `{"template_id":"t1","original_date":"2025-06-02","is_cancelled":true}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exceptions", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRouter_DoctorDispatch(t *testing.T) {
	t.Parallel()

	t.Run("serves the directory", func(t *testing.T) {
		t.Parallel()
		stub := &doctorServiceStub{doctors: []application.Doctor{
			{ID: "d1", Name: "Dr Morel", Color: "#2e7d32"},
		}}
		router := NewRouter(RouterConfig{Doctors: NewDoctorHandler(stub, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var response doctorListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(response.Doctors) != 1 || response.Doctors[0].ID != "d1" {
			t.Fatalf("unexpected payload: %+v", response)
		}
	})

	t.Run("maps an absence conflict to 409", func(t *testing.T) {
		t.Parallel()
		stub := &doctorServiceStub{err: application.ErrConflict}
		router := NewRouter(RouterConfig{Doctors: NewDoctorHandler(stub, nil)})

		body := `{"doctor_id":"d1","start_date":"2025-06-02","end_date":"2025-06-06"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/unavailabilities", strings.NewReader(body)))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("deletes an absence by id", func(t *testing.T) {
		t.Parallel()
		stub := &doctorServiceStub{}
		router := NewRouter(RouterConfig{Doctors: NewDoctorHandler(stub, nil)})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/unavailabilities/u1", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if stub.deletedID != "u1" {
			t.Fatalf("expected path id forwarded, got %q", stub.deletedID)
		}
	})
}

func TestRequestLoggerWrapsHandlers(t *testing.T) {
	t.Parallel()

	var sawLogger bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	})

	handler := RequestLogger(nil)(inner)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/planning", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected wrapped handler to run, got %d", rec.Code)
	}
	if !sawLogger {
		t.Fatal("expected a request scoped logger in the context")
	}
}
