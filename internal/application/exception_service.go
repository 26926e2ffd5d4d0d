package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// ExceptionService manages per-occurrence overrides.
type ExceptionService struct {
	exceptions  persistence.ExceptionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewExceptionService wires dependencies for exception operations.
func NewExceptionService(exceptions persistence.ExceptionRepository, idGenerator func() string, now func() time.Time) *ExceptionService {
	return NewExceptionServiceWithLogger(exceptions, idGenerator, now, nil)
}

// NewExceptionServiceWithLogger constructs an exception service with a specified logger.
func NewExceptionServiceWithLogger(exceptions persistence.ExceptionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ExceptionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ExceptionService{exceptions: exceptions, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ExceptionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ExceptionService", operation, attrs...)
}

// List returns every stored exception, oldest write first.
func (s *ExceptionService) List(ctx context.Context) ([]recurrence.Exception, error) {
	if s == nil {
		return nil, fmt.Errorf("ExceptionService is nil")
	}
	logger := s.loggerWith(ctx, "List")

	rows, err := s.exceptions.ListExceptions(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list exceptions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	exceptions := make([]recurrence.Exception, 0, len(rows))
	for _, row := range rows {
		exception, err := exceptionFromRow(row)
		if err != nil {
			logger.ErrorContext(ctx, "corrupt exception", "error", err, "exception_id", row.ID)
			return nil, err
		}
		exceptions = append(exceptions, exception)
	}
	return exceptions, nil
}

// Put stores an exception, replacing any existing one for the same
// (template, original date) occurrence.
func (s *ExceptionService) Put(ctx context.Context, exception recurrence.Exception) (recurrence.Exception, error) {
	if s == nil {
		return recurrence.Exception{}, fmt.Errorf("ExceptionService is nil")
	}
	logger := s.loggerWith(ctx, "Put", "template_id", exception.TemplateID)

	vErr := &ValidationError{}
	if exception.TemplateID == "" {
		vErr.add("template_id", "template id is required")
	}
	if exception.OriginalDate.IsZero() {
		vErr.add("original_date", "original date is required")
	}
	if exception.IsCancelled && exception.NewDate != nil {
		vErr.add("new_date", "a cancelled occurrence cannot also be rescheduled")
	}
	if vErr.HasErrors() {
		return recurrence.Exception{}, vErr
	}

	if exception.ID == "" {
		exception.ID = s.idGenerator()
	}
	exception.OriginalDate = recurrence.Midnight(exception.OriginalDate)
	if exception.NewDate != nil {
		newDate := recurrence.Midnight(*exception.NewDate)
		exception.NewDate = &newDate
	}

	if err := s.exceptions.UpsertException(ctx, exceptionToRow(exception, s.now())); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to store exception", "error", err, "error_kind", ErrorKind(err))
		return recurrence.Exception{}, err
	}

	logger.With("original_date", exception.OriginalDate.Format(recurrence.ISODate)).
		InfoContext(ctx, "exception stored")
	return exception, nil
}

// Delete removes the exception for an occurrence, restoring its derived
// state. Deleting an absent exception is not an error.
func (s *ExceptionService) Delete(ctx context.Context, templateID string, originalDate time.Time) error {
	if s == nil {
		return fmt.Errorf("ExceptionService is nil")
	}
	logger := s.loggerWith(ctx, "Delete", "template_id", templateID)

	err := s.exceptions.DeleteException(ctx, templateID, recurrence.Midnight(originalDate).Format(recurrence.ISODate))
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete exception", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "exception deleted")
	return nil
}
