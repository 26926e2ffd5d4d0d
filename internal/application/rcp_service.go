package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// RcpService manages multidisciplinary meeting definitions.
type RcpService struct {
	rcps        persistence.RcpRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRcpService wires dependencies for RCP definition operations.
func NewRcpService(rcps persistence.RcpRepository, idGenerator func() string, now func() time.Time) *RcpService {
	return NewRcpServiceWithLogger(rcps, idGenerator, now, nil)
}

// NewRcpServiceWithLogger constructs an RCP service with a specified logger.
func NewRcpServiceWithLogger(rcps persistence.RcpRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RcpService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RcpService{rcps: rcps, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RcpService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RcpService", operation, attrs...)
}

// List returns every definition with its manual instances attached.
func (s *RcpService) List(ctx context.Context) ([]recurrence.RcpDefinition, error) {
	if s == nil {
		return nil, fmt.Errorf("RcpService is nil")
	}
	logger := s.loggerWith(ctx, "List")

	rows, err := s.rcps.ListRcpDefinitions(ctx, true)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list rcp definitions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	definitions := make([]recurrence.RcpDefinition, 0, len(rows))
	for _, row := range rows {
		definition, err := rcpDefinitionFromRow(row)
		if err != nil {
			logger.ErrorContext(ctx, "corrupt rcp definition", "error", err, "rcp_id", row.ID)
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	logger.With("result_count", len(definitions)).InfoContext(ctx, "rcp definitions listed")
	return definitions, nil
}

// Create validates and stores a new definition, assigning ids to the
// definition and any manual instances that lack one.
func (s *RcpService) Create(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error) {
	if s == nil {
		return recurrence.RcpDefinition{}, fmt.Errorf("RcpService is nil")
	}
	logger := s.loggerWith(ctx, "Create", "name", definition.Name)

	if vErr := validateDefinition(definition); vErr.HasErrors() {
		return recurrence.RcpDefinition{}, vErr
	}

	definition.ID = s.idGenerator()
	for i := range definition.ManualInstances {
		if definition.ManualInstances[i].ID == "" {
			definition.ManualInstances[i].ID = s.idGenerator()
		}
	}

	now := s.now()
	if _, err := s.rcps.CreateRcpDefinition(ctx, rcpDefinitionToRow(definition, now, now)); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create rcp definition", "error", err, "error_kind", ErrorKind(err))
		return recurrence.RcpDefinition{}, err
	}

	if len(definition.ManualInstances) > 0 {
		if err := s.replaceInstances(ctx, logger, definition); err != nil {
			return recurrence.RcpDefinition{}, err
		}
	}

	logger.With("rcp_id", definition.ID).InfoContext(ctx, "rcp definition created")
	return definition, nil
}

// Update validates and stores a changed definition. Manual instances are
// replaced wholesale: the stored set is deleted and the given set inserted.
func (s *RcpService) Update(ctx context.Context, definition recurrence.RcpDefinition) (recurrence.RcpDefinition, error) {
	if s == nil {
		return recurrence.RcpDefinition{}, fmt.Errorf("RcpService is nil")
	}
	logger := s.loggerWith(ctx, "Update", "rcp_id", definition.ID)

	vErr := validateDefinition(definition)
	if definition.ID == "" {
		vErr.add("id", "id is required")
	}
	if vErr.HasErrors() {
		return recurrence.RcpDefinition{}, vErr
	}

	for i := range definition.ManualInstances {
		if definition.ManualInstances[i].ID == "" {
			definition.ManualInstances[i].ID = s.idGenerator()
		}
	}

	now := s.now()
	if _, err := s.rcps.UpdateRcpDefinition(ctx, rcpDefinitionToRow(definition, now, now)); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update rcp definition", "error", err, "error_kind", ErrorKind(err))
		return recurrence.RcpDefinition{}, err
	}

	if err := s.replaceInstances(ctx, logger, definition); err != nil {
		return recurrence.RcpDefinition{}, err
	}

	logger.InfoContext(ctx, "rcp definition updated")
	return definition, nil
}

// Delete removes a definition; manual instances cascade with it.
func (s *RcpService) Delete(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("RcpService is nil")
	}
	logger := s.loggerWith(ctx, "Delete", "rcp_id", id)

	if err := s.rcps.DeleteRcpDefinition(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete rcp definition", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "rcp definition deleted")
	return nil
}

func (s *RcpService) replaceInstances(ctx context.Context, logger *slog.Logger, definition recurrence.RcpDefinition) error {
	rows := make([]persistence.ManualInstanceRow, 0, len(definition.ManualInstances))
	for _, instance := range definition.ManualInstances {
		rows = append(rows, manualInstanceToRow(definition.ID, instance))
	}
	if err := s.rcps.ReplaceManualInstances(ctx, definition.ID, rows); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to replace manual instances", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	return nil
}

func validateDefinition(definition recurrence.RcpDefinition) *ValidationError {
	vErr := &ValidationError{}
	if definition.Name == "" {
		vErr.add("name", "name is required")
	}

	switch definition.Frequency {
	case recurrence.FrequencyWeekly:
		requireRecurringFields(definition, vErr)
	case recurrence.FrequencyBiweekly:
		requireRecurringFields(definition, vErr)
		if definition.WeekParity != recurrence.ParityEven && definition.WeekParity != recurrence.ParityOdd {
			vErr.add("week_parity", "biweekly definitions need EVEN or ODD parity")
		}
	case recurrence.FrequencyMonthly:
		requireRecurringFields(definition, vErr)
		if definition.MonthlyWeekNumber < 1 || definition.MonthlyWeekNumber > 5 {
			vErr.add("monthly_week_number", "monthly definitions need a week number between 1 and 5")
		}
	case recurrence.FrequencyManual:
		for i, instance := range definition.ManualInstances {
			if instance.Date.IsZero() {
				vErr.add(fmt.Sprintf("manual_instances[%d].date", i), "date is required")
			}
		}
	default:
		vErr.add("frequency", "unknown frequency")
	}
	return vErr
}

func requireRecurringFields(definition recurrence.RcpDefinition, vErr *ValidationError) {
	if _, ok := definition.Day.Weekday(); !ok {
		vErr.add("day", "recurring definitions need a day of week")
	}
	switch definition.Period {
	case recurrence.PeriodMorning, recurrence.PeriodAfternoon:
	case recurrence.PeriodCustom:
		if definition.Time == "" {
			vErr.add("time", "custom period requires a time")
		}
	default:
		vErr.add("period", "unknown period")
	}
}
