package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/clinic-planner/internal/application"
	"github.com/example/clinic-planner/internal/recurrence"
)

type attendanceService interface {
	RecordDecision(ctx context.Context, occurrenceID, doctorID string, status recurrence.AttendanceStatus) error
	Snapshot(ctx context.Context) (application.AttendanceSnapshot, error)
	PendingForDoctor(ctx context.Context, doctorID string, today time.Time) ([]recurrence.Occurrence, error)
}

type AttendanceHandler struct {
	service   attendanceService
	now       func() time.Time
	responder responder
}

func NewAttendanceHandler(service attendanceService, now func() time.Time, logger *slog.Logger) *AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &AttendanceHandler{service: service, now: now, responder: newResponder(logger)}
}

// List returns every recorded decision grouped by occurrence.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := attendanceResponse{Attendance: make(map[string]map[string]string, len(snapshot))}
	for occurrenceID, doctors := range snapshot {
		statuses := make(map[string]string, len(doctors))
		for doctorID, status := range doctors {
			statuses[doctorID] = string(status)
		}
		response.Attendance[occurrenceID] = statuses
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

// Record stores one doctor's decision for one occurrence.
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request, occurrenceID, doctorID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(occurrenceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOccurrenceID)
		return
	}
	if strings.TrimSpace(doctorID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDoctorID)
		return
	}

	var req recordDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	err := h.service.RecordDecision(r.Context(), occurrenceID, doctorID, recurrence.AttendanceStatus(req.Status))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Pending returns the occurrences in the notification window that still
// await the doctor's decision.
func (h *AttendanceHandler) Pending(w http.ResponseWriter, r *http.Request, doctorID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(doctorID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDoctorID)
		return
	}

	today := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("today")); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateRange)
			return
		}
		today = parsed
	}

	pending, err := h.service.PendingForDoctor(r.Context(), doctorID, today)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, pendingResponse{
		Occurrences:  toOccurrenceDTOs(pending),
		PendingCount: len(pending),
	})
}

type attendanceResponse struct {
	Attendance map[string]map[string]string `json:"attendance"`
}

type recordDecisionRequest struct {
	Status string `json:"status"`
}

type pendingResponse struct {
	Occurrences  []occurrenceDTO `json:"occurrences"`
	PendingCount int             `json:"pending_count"`
}
