package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/clinic-planner/internal/application"
)

type doctorService interface {
	ListDoctors(ctx context.Context) ([]application.Doctor, error)
	GetDoctor(ctx context.Context, id string) (application.Doctor, error)
	ListUnavailabilities(ctx context.Context) ([]application.Unavailability, error)
	CreateUnavailability(ctx context.Context, unavailability application.Unavailability) (application.Unavailability, error)
	DeleteUnavailability(ctx context.Context, id string) error
}

type DoctorHandler struct {
	service   doctorService
	responder responder
}

func NewDoctorHandler(service doctorService, logger *slog.Logger) *DoctorHandler {
	return &DoctorHandler{service: service, responder: newResponder(logger)}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	doctors, err := h.service.ListDoctors(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]doctorDTO, 0, len(doctors))
	for _, doctor := range doctors {
		out = append(out, toDoctorDTO(doctor))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, doctorListResponse{Doctors: out})
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDoctorID)
		return
	}

	doctor, err := h.service.GetDoctor(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDoctorDTO(doctor))
}

func (h *DoctorHandler) ListUnavailabilities(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	unavailabilities, err := h.service.ListUnavailabilities(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]unavailabilityDTO, 0, len(unavailabilities))
	for _, unavailability := range unavailabilities {
		out = append(out, toUnavailabilityDTO(unavailability))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, unavailabilityListResponse{Unavailabilities: out})
}

func (h *DoctorHandler) CreateUnavailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req unavailabilityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	created, err := h.service.CreateUnavailability(r.Context(), req.toUnavailability())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toUnavailabilityDTO(created))
}

func (h *DoctorHandler) DeleteUnavailability(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.DeleteUnavailability(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type doctorListResponse struct {
	Doctors []doctorDTO `json:"doctors"`
}

type unavailabilityListResponse struct {
	Unavailabilities []unavailabilityDTO `json:"unavailabilities"`
}
