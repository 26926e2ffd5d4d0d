package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/clinic-planner/internal/conflict"
	"github.com/example/clinic-planner/internal/recurrence"
)

type planningService interface {
	ResolveWindow(ctx context.Context, start, end time.Time) ([]recurrence.Occurrence, error)
	NotificationOccurrences(ctx context.Context, today time.Time) ([]recurrence.Occurrence, error)
	AssignmentConflicts(ctx context.Context, start, end time.Time) ([]conflict.Conflict, error)
}

type PlanningHandler struct {
	service   planningService
	now       func() time.Time
	responder responder
}

func NewPlanningHandler(service planningService, now func() time.Time, logger *slog.Logger) *PlanningHandler {
	if now == nil {
		now = time.Now
	}
	return &PlanningHandler{service: service, now: now, responder: newResponder(logger)}
}

// Window resolves the occurrences between the start and end query dates.
func (h *PlanningHandler) Window(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	start, startErr := parseDateParam(r.URL.Query().Get("start"))
	end, endErr := parseDateParam(r.URL.Query().Get("end"))
	if startErr != nil || endErr != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateRange)
		return
	}

	occurrences, err := h.service.ResolveWindow(r.Context(), start, end)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, planningResponse{
		Occurrences: toOccurrenceDTOs(occurrences),
	})
}

// Notifications resolves the two week notification window.
func (h *PlanningHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
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

	occurrences, err := h.service.NotificationOccurrences(r.Context(), today)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, planningResponse{
		Occurrences: toOccurrenceDTOs(occurrences),
	})
}

// Conflicts reports assignment problems in the requested window.
func (h *PlanningHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	start, startErr := parseDateParam(r.URL.Query().Get("start"))
	end, endErr := parseDateParam(r.URL.Query().Get("end"))
	if startErr != nil || endErr != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateRange)
		return
	}

	conflicts, err := h.service.AssignmentConflicts(r.Context(), start, end)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictsResponse{
		Conflicts: toConflictDTOs(conflicts),
	})
}

type planningResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
}

type conflictsResponse struct {
	Conflicts []conflictDTO `json:"conflicts"`
}

func parseDateParam(value string) (time.Time, error) {
	return time.Parse(recurrence.ISODate, strings.TrimSpace(value))
}
