package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

const (
	syncPhaseDelete = "delete"
	syncPhaseUpdate = "update"
)

// TemplateService reconciles a client-held weekly template against the store.
type TemplateService struct {
	templates   persistence.TemplateRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTemplateService wires dependencies for template operations.
func NewTemplateService(templates persistence.TemplateRepository, idGenerator func() string, now func() time.Time) *TemplateService {
	return NewTemplateServiceWithLogger(templates, idGenerator, now, nil)
}

// NewTemplateServiceWithLogger constructs a template service with a specified logger.
func NewTemplateServiceWithLogger(templates persistence.TemplateRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TemplateService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TemplateService{templates: templates, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TemplateService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TemplateService", operation, attrs...)
}

// Template returns every stored template slot.
func (s *TemplateService) Template(ctx context.Context) ([]recurrence.TemplateSlot, error) {
	if s == nil {
		return nil, fmt.Errorf("TemplateService is nil")
	}
	logger := s.loggerWith(ctx, "Template")

	rows, err := s.templates.ListTemplateSlots(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list template", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	slots := make([]recurrence.TemplateSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, templateSlotFromRow(row))
	}
	logger.With("result_count", len(slots)).InfoContext(ctx, "template listed")
	return slots, nil
}

// Sync makes the store match the caller's local template. Slots the caller
// dropped are deleted, slots it kept are updated, and drafts are created in
// one atomic batch. Delete and update failures degrade to warnings; a create
// failure aborts and echoes the local state back so nothing is lost.
func (s *TemplateService) Sync(ctx context.Context, local []LocalSlot) (SyncResult, error) {
	if s == nil {
		return SyncResult{}, fmt.Errorf("TemplateService is nil")
	}
	logger := s.loggerWith(ctx, "Sync", "local_count", len(local))

	vErr := &ValidationError{}
	for i, item := range local {
		validateLocalSlot(i, item, vErr)
	}
	if vErr.HasErrors() {
		return SyncResult{}, vErr
	}

	storedIDs, err := s.templates.ListTemplateSlotIDs(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list stored slot ids", "error", err, "error_kind", ErrorKind(err))
		return SyncResult{}, err
	}

	keep := make(map[string]struct{}, len(local))
	for _, item := range local {
		if !item.ID.IsDraft() {
			keep[item.ID.String()] = struct{}{}
		}
	}

	var warnings []SyncWarning

	var stale []string
	for _, id := range storedIDs {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := s.templates.DeleteTemplateSlots(ctx, stale); err != nil {
			// Orphaned slots are harmless; the next sync retries the delete.
			logger.WarnContext(ctx, "failed to delete stale slots", "error", err, "stale_count", len(stale))
			warnings = append(warnings, SyncWarning{
				Phase:   syncPhaseDelete,
				Message: fmt.Sprintf("failed to delete %d stale slots", len(stale)),
			})
		}
	}

	now := s.now()
	template := make([]recurrence.TemplateSlot, len(local))
	var draftIndexes []int
	var draftRows []persistence.TemplateSlotRow

	for i, item := range local {
		slot := item.Slot
		if item.ID.IsDraft() {
			// Echo the client id so a failed create hands the draft back intact.
			slot.ID = item.ID.String()
			template[i] = slot
			draftIndexes = append(draftIndexes, i)
			row := templateSlotToRow(slot, now, now)
			row.ID = ""
			draftRows = append(draftRows, row)
			continue
		}

		slot.ID = item.ID.String()
		template[i] = slot
		if err := s.templates.UpdateTemplateSlot(ctx, templateSlotToRow(slot, now, now)); err != nil {
			logger.WarnContext(ctx, "failed to update slot", "error", err, "slot_id", slot.ID)
			warnings = append(warnings, SyncWarning{
				Phase:   syncPhaseUpdate,
				SlotID:  slot.ID,
				Message: err.Error(),
			})
		}
	}

	if len(draftRows) > 0 {
		for i := range draftRows {
			draftRows[i].ID = s.idGenerator()
		}
		created, err := s.templates.UpsertTemplateSlots(ctx, draftRows)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create slots, keeping local state", "error", err, "draft_count", len(draftRows))
			return SyncResult{Template: template, Failed: true, Warnings: warnings}, nil
		}
		for j, index := range draftIndexes {
			template[index] = templateSlotFromRow(created[j])
		}
	}

	logger.With("warning_count", len(warnings)).InfoContext(ctx, "template synchronized")
	return SyncResult{Template: template, Warnings: warnings}, nil
}

func validateLocalSlot(index int, item LocalSlot, vErr *ValidationError) {
	field := func(name string) string {
		return fmt.Sprintf("slots[%d].%s", index, name)
	}
	slot := item.Slot
	if item.ID.String() == "" {
		vErr.add(field("id"), "id is required")
	}
	if _, ok := slot.Day.Weekday(); !ok {
		vErr.add(field("day"), "unknown day of week")
	}
	switch slot.Period {
	case recurrence.PeriodMorning, recurrence.PeriodAfternoon:
	case recurrence.PeriodCustom:
		if slot.Time == "" {
			vErr.add(field("time"), "custom period requires a time")
		}
	default:
		vErr.add(field("period"), "unknown period")
	}
	if slot.Location == "" {
		vErr.add(field("location"), "location is required")
	}
	switch slot.Type {
	case recurrence.SlotConsultation, recurrence.SlotAstreinte, recurrence.SlotRCP:
	default:
		vErr.add(field("type"), "unknown slot type")
	}
	if slot.Frequency != "" && slot.Frequency != recurrence.FrequencyWeekly {
		vErr.add(field("frequency"), "template slots recur weekly")
	}
}
