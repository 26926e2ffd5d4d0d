package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/conflict"
	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// PlanningService derives the concrete schedule for arbitrary date windows.
type PlanningService struct {
	templates        persistence.TemplateRepository
	rcps             persistence.RcpRepository
	exceptions       persistence.ExceptionRepository
	unavailabilities persistence.UnavailabilityRepository
	logger           *slog.Logger
}

// NewPlanningService wires dependencies for schedule resolution.
func NewPlanningService(templates persistence.TemplateRepository, rcps persistence.RcpRepository, exceptions persistence.ExceptionRepository, unavailabilities persistence.UnavailabilityRepository) *PlanningService {
	return NewPlanningServiceWithLogger(templates, rcps, exceptions, unavailabilities, nil)
}

// NewPlanningServiceWithLogger constructs a planning service with a specified logger.
func NewPlanningServiceWithLogger(templates persistence.TemplateRepository, rcps persistence.RcpRepository, exceptions persistence.ExceptionRepository, unavailabilities persistence.UnavailabilityRepository, logger *slog.Logger) *PlanningService {
	return &PlanningService{
		templates:        templates,
		rcps:             rcps,
		exceptions:       exceptions,
		unavailabilities: unavailabilities,
		logger:           defaultLogger(logger),
	}
}

func (s *PlanningService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlanningService", operation, attrs...)
}

// ResolveWindow derives every occurrence between start and end (inclusive)
// with stored exceptions applied.
func (s *PlanningService) ResolveWindow(ctx context.Context, start, end time.Time) ([]recurrence.Occurrence, error) {
	if s == nil {
		return nil, fmt.Errorf("PlanningService is nil")
	}
	logger := s.loggerWith(ctx, "ResolveWindow",
		"start", start.Format(recurrence.ISODate),
		"end", end.Format(recurrence.ISODate))

	templateRows, err := s.templates.ListTemplateSlots(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to load template", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	rcpRows, err := s.rcps.ListRcpDefinitions(ctx, true)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to load rcp definitions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	exceptionRows, err := s.exceptions.ListExceptions(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to load exceptions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	templates := make([]recurrence.TemplateSlot, 0, len(templateRows))
	for _, row := range templateRows {
		templates = append(templates, templateSlotFromRow(row))
	}
	definitions := make([]recurrence.RcpDefinition, 0, len(rcpRows))
	for _, row := range rcpRows {
		definition, err := rcpDefinitionFromRow(row)
		if err != nil {
			logger.ErrorContext(ctx, "corrupt rcp definition", "error", err, "rcp_id", row.ID)
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	exceptions := make([]recurrence.Exception, 0, len(exceptionRows))
	for _, row := range exceptionRows {
		exception, err := exceptionFromRow(row)
		if err != nil {
			logger.ErrorContext(ctx, "corrupt exception", "error", err, "exception_id", row.ID)
			return nil, err
		}
		exceptions = append(exceptions, exception)
	}

	resolved, err := recurrence.Resolve(templates, definitions, start, end)
	if err != nil {
		logger.ErrorContext(ctx, "failed to resolve window", "error", err)
		return nil, err
	}

	occurrences, warnings := recurrence.ApplyExceptions(resolved, exceptions)
	for _, warning := range warnings {
		logger.WarnContext(ctx, "duplicate exceptions for occurrence",
			"template_id", warning.TemplateID,
			"original_date", warning.OriginalDate.Format(recurrence.ISODate),
			"rows", warning.Rows)
	}

	logger.With("result_count", len(occurrences)).InfoContext(ctx, "window resolved")
	return occurrences, nil
}

// NotificationOccurrences derives the two week notification window anchored
// on the Monday of the week containing today.
func (s *PlanningService) NotificationOccurrences(ctx context.Context, today time.Time) ([]recurrence.Occurrence, error) {
	start, end := recurrence.NotificationWindow(today)
	return s.ResolveWindow(ctx, start, end)
}

// AssignmentConflicts resolves the window and reports doctors scheduled
// during a declared absence or double booked on blocking duties.
func (s *PlanningService) AssignmentConflicts(ctx context.Context, start, end time.Time) ([]conflict.Conflict, error) {
	if s == nil {
		return nil, fmt.Errorf("PlanningService is nil")
	}
	logger := s.loggerWith(ctx, "AssignmentConflicts",
		"start", start.Format(recurrence.ISODate),
		"end", end.Format(recurrence.ISODate))

	occurrences, err := s.ResolveWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.unavailabilities.ListUnavailabilities(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to load unavailabilities", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	absences := make([]conflict.Absence, 0, len(rows))
	for _, row := range rows {
		absence, err := absenceFromRow(row)
		if err != nil {
			logger.ErrorContext(ctx, "corrupt unavailability", "error", err, "unavailability_id", row.ID)
			return nil, err
		}
		absences = append(absences, absence)
	}

	conflicts := conflict.Detect(occurrences, absences)
	logger.With("result_count", len(conflicts)).InfoContext(ctx, "conflicts detected")
	return conflicts, nil
}
