package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/clinic-planner/internal/recurrence"
)

type rcpService interface {
	List(ctx context.Context) ([]recurrence.RcpDefinition, error)
	Create(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error)
	Update(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error)
	Delete(ctx context.Context, id string) error
}

type RcpHandler struct {
	service   rcpService
	responder responder
}

func NewRcpHandler(service rcpService, logger *slog.Logger) *RcpHandler {
	return &RcpHandler{service: service, responder: newResponder(logger)}
}

func (h *RcpHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	definitions, err := h.service.List(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]rcpDefinitionDTO, 0, len(definitions))
	for _, definition := range definitions {
		out = append(out, toRcpDefinitionDTO(definition))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, rcpListResponse{Definitions: out})
}

func (h *RcpHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req rcpDefinitionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	created, err := h.service.Create(r.Context(), req.toDefinition())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRcpDefinitionDTO(created))
}

func (h *RcpHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRcpID)
		return
	}

	var req rcpDefinitionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	definition := req.toDefinition()
	definition.ID = id

	updated, err := h.service.Update(r.Context(), definition)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRcpDefinitionDTO(updated))
}

func (h *RcpHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRcpID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type rcpListResponse struct {
	Definitions []rcpDefinitionDTO `json:"definitions"`
}
