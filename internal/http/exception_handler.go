package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/clinic-planner/internal/recurrence"
)

type exceptionService interface {
	List(ctx context.Context) ([]recurrence.Exception, error)
	Put(ctx context.Context, exception recurrence.Exception) (recurrence.Exception, error)
	Delete(ctx context.Context, templateID string, originalDate time.Time) error
}

type ExceptionHandler struct {
	service   exceptionService
	responder responder
}

func NewExceptionHandler(service exceptionService, logger *slog.Logger) *ExceptionHandler {
	return &ExceptionHandler{service: service, responder: newResponder(logger)}
}

func (h *ExceptionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	exceptions, err := h.service.List(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]exceptionDTO, 0, len(exceptions))
	for _, exception := range exceptions {
		out = append(out, toExceptionDTO(exception))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, exceptionListResponse{Exceptions: out})
}

func (h *ExceptionHandler) Put(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req exceptionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	stored, err := h.service.Put(r.Context(), req.toException())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExceptionDTO(stored))
}

func (h *ExceptionHandler) Delete(w http.ResponseWriter, r *http.Request, templateID, date string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	originalDate, err := parseDateParam(date)
	if strings.TrimSpace(templateID) == "" || err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateRange)
		return
	}

	if err := h.service.Delete(r.Context(), templateID, originalDate); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type exceptionListResponse struct {
	Exceptions []exceptionDTO `json:"exceptions"`
}
