package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// DoctorService exposes the physician directory and absence periods.
type DoctorService struct {
	doctors          persistence.DoctorRepository
	unavailabilities persistence.UnavailabilityRepository
	idGenerator      func() string
	logger           *slog.Logger
}

// NewDoctorService wires dependencies for directory operations.
func NewDoctorService(doctors persistence.DoctorRepository, unavailabilities persistence.UnavailabilityRepository, idGenerator func() string) *DoctorService {
	return NewDoctorServiceWithLogger(doctors, unavailabilities, idGenerator, nil)
}

// NewDoctorServiceWithLogger constructs a doctor service with a specified logger.
func NewDoctorServiceWithLogger(doctors persistence.DoctorRepository, unavailabilities persistence.UnavailabilityRepository, idGenerator func() string, logger *slog.Logger) *DoctorService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &DoctorService{
		doctors:          doctors,
		unavailabilities: unavailabilities,
		idGenerator:      idGenerator,
		logger:           defaultLogger(logger),
	}
}

func (s *DoctorService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DoctorService", operation, attrs...)
}

// ListDoctors returns the directory ordered by name.
func (s *DoctorService) ListDoctors(ctx context.Context) ([]Doctor, error) {
	if s == nil {
		return nil, fmt.Errorf("DoctorService is nil")
	}
	logger := s.loggerWith(ctx, "ListDoctors")

	rows, err := s.doctors.ListDoctors(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list doctors", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	doctors := make([]Doctor, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, doctorFromRow(row))
	}
	return doctors, nil
}

// GetDoctor returns one directory entry.
func (s *DoctorService) GetDoctor(ctx context.Context, id string) (Doctor, error) {
	if s == nil {
		return Doctor{}, fmt.Errorf("DoctorService is nil")
	}
	logger := s.loggerWith(ctx, "GetDoctor", "doctor_id", id)

	row, err := s.doctors.GetDoctor(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to get doctor", "error", err, "error_kind", ErrorKind(err))
		return Doctor{}, err
	}
	return doctorFromRow(row), nil
}

// ListUnavailabilities returns every stored absence period.
func (s *DoctorService) ListUnavailabilities(ctx context.Context) ([]Unavailability, error) {
	if s == nil {
		return nil, fmt.Errorf("DoctorService is nil")
	}
	logger := s.loggerWith(ctx, "ListUnavailabilities")

	rows, err := s.unavailabilities.ListUnavailabilities(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to list unavailabilities", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	unavailabilities := make([]Unavailability, 0, len(rows))
	for _, row := range rows {
		unavailabilities = append(unavailabilities, unavailabilityFromRow(row))
	}
	return unavailabilities, nil
}

// CreateUnavailability validates and stores an absence period.
func (s *DoctorService) CreateUnavailability(ctx context.Context, unavailability Unavailability) (Unavailability, error) {
	if s == nil {
		return Unavailability{}, fmt.Errorf("DoctorService is nil")
	}
	logger := s.loggerWith(ctx, "CreateUnavailability", "doctor_id", unavailability.DoctorID)

	vErr := &ValidationError{}
	if unavailability.DoctorID == "" {
		vErr.add("doctor_id", "doctor id is required")
	}
	start, startErr := parseISODate(unavailability.StartDate)
	if startErr != nil {
		vErr.add("start_date", "start date must be YYYY-MM-DD")
	}
	end, endErr := parseISODate(unavailability.EndDate)
	if endErr != nil {
		vErr.add("end_date", "end date must be YYYY-MM-DD")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		vErr.add("end_date", "end date must not precede start date")
	}
	switch unavailability.Period {
	case "", recurrence.PeriodMorning, recurrence.PeriodAfternoon:
	default:
		vErr.add("period", "period must be MORNING or AFTERNOON")
	}
	if vErr.HasErrors() {
		return Unavailability{}, vErr
	}

	unavailability.ID = s.idGenerator()
	created, err := s.unavailabilities.CreateUnavailability(ctx, unavailabilityToRow(unavailability))
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create unavailability", "error", err, "error_kind", ErrorKind(err))
		return Unavailability{}, err
	}

	logger.With("unavailability_id", created.ID).InfoContext(ctx, "unavailability created")
	return unavailabilityFromRow(created), nil
}

// DeleteUnavailability removes an absence period.
func (s *DoctorService) DeleteUnavailability(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("DoctorService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteUnavailability", "unavailability_id", id)

	if err := s.unavailabilities.DeleteUnavailability(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete unavailability", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "unavailability deleted")
	return nil
}
