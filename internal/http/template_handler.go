package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/clinic-planner/internal/application"
	"github.com/example/clinic-planner/internal/recurrence"
)

type templateService interface {
	Template(ctx context.Context) ([]recurrence.TemplateSlot, error)
	Sync(ctx context.Context, local []application.LocalSlot) (application.SyncResult, error)
}

type TemplateHandler struct {
	service   templateService
	responder responder
}

func NewTemplateHandler(service templateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{service: service, responder: newResponder(logger)}
}

// Get returns the stored weekly template.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slots, err := h.service.Template(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, templateResponse{
		Slots: toTemplateSlotDTOs(slots),
	})
}

// Sync reconciles the caller's template against the store and reports the
// authoritative state back.
func (h *TemplateHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	local := make([]application.LocalSlot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		local = append(local, slot.toLocalSlot())
	}

	result, err := h.service.Sync(r.Context(), local)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, syncResponse{
		Slots:    toTemplateSlotDTOs(result.Template),
		Failed:   result.Failed,
		Warnings: toSyncWarningDTOs(result.Warnings),
	})
}

type templateResponse struct {
	Slots []templateSlotDTO `json:"slots"`
}

type syncRequest struct {
	Slots []templateSlotDTO `json:"slots"`
}

type syncResponse struct {
	Slots    []templateSlotDTO `json:"slots"`
	Failed   bool              `json:"failed"`
	Warnings []syncWarningDTO  `json:"warnings,omitempty"`
}

type syncWarningDTO struct {
	Phase   string `json:"phase"`
	SlotID  string `json:"slot_id,omitempty"`
	Message string `json:"message"`
}

func toSyncWarningDTOs(warnings []application.SyncWarning) []syncWarningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]syncWarningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, syncWarningDTO{
			Phase:   warning.Phase,
			SlotID:  warning.SlotID,
			Message: warning.Message,
		})
	}
	return out
}
