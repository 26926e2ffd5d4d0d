package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/persistence"
	"github.com/example/clinic-planner/internal/recurrence"
)

// AttendanceService records and aggregates per-occurrence presence decisions.
type AttendanceService struct {
	attendance persistence.AttendanceRepository
	planning   *PlanningService
	now        func() time.Time
	logger     *slog.Logger
}

// NewAttendanceService wires dependencies for attendance operations.
func NewAttendanceService(attendance persistence.AttendanceRepository, planning *PlanningService, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(attendance, planning, now, nil)
}

// NewAttendanceServiceWithLogger constructs an attendance service with a specified logger.
func NewAttendanceServiceWithLogger(attendance persistence.AttendanceRepository, planning *PlanningService, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{attendance: attendance, planning: planning, now: now, logger: defaultLogger(logger)}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// RecordDecision stores a doctor's decision for one occurrence. Re-recording
// replaces the previous decision.
func (s *AttendanceService) RecordDecision(ctx context.Context, occurrenceID, doctorID string, status recurrence.AttendanceStatus) error {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	logger := s.loggerWith(ctx, "RecordDecision",
		"occurrence_id", occurrenceID, "doctor_id", doctorID)

	vErr := &ValidationError{}
	if occurrenceID == "" {
		vErr.add("occurrence_id", "occurrence id is required")
	}
	if doctorID == "" {
		vErr.add("doctor_id", "doctor id is required")
	}
	if status != recurrence.Present && status != recurrence.Absent {
		vErr.add("status", "status must be PRESENT or ABSENT")
	}
	if vErr.HasErrors() {
		return vErr
	}

	err := s.attendance.UpsertAttendance(ctx, persistence.AttendanceRow{
		OccurrenceID: occurrenceID,
		DoctorID:     doctorID,
		Status:       string(status),
		UpdatedAt:    s.now(),
	})
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to record decision", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.With("status", string(status)).InfoContext(ctx, "decision recorded")
	return nil
}

// Snapshot loads every recorded decision indexed by occurrence then doctor.
func (s *AttendanceService) Snapshot(ctx context.Context) (AttendanceSnapshot, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	logger := s.loggerWith(ctx, "Snapshot")

	rows, err := s.attendance.ListAttendance(ctx)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to load attendance", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	snapshot := make(AttendanceSnapshot)
	for _, row := range rows {
		doctors, ok := snapshot[row.OccurrenceID]
		if !ok {
			doctors = make(map[string]recurrence.AttendanceStatus)
			snapshot[row.OccurrenceID] = doctors
		}
		doctors[row.DoctorID] = recurrence.AttendanceStatus(row.Status)
	}
	return snapshot, nil
}

// PendingCount counts the occurrences that involve the doctor and carry no
// recorded decision for them.
func PendingCount(doctorID string, occurrences []recurrence.Occurrence, snapshot AttendanceSnapshot) int {
	count := 0
	for _, occ := range occurrences {
		if !occ.Involves(doctorID) {
			continue
		}
		if _, ok := snapshot.Status(occ.ID, doctorID); !ok {
			count++
		}
	}
	return count
}

// PendingForDoctor returns the meeting occurrences in the notification window
// that still await the doctor's decision.
func (s *AttendanceService) PendingForDoctor(ctx context.Context, doctorID string, today time.Time) ([]recurrence.Occurrence, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if s.planning == nil {
		return nil, fmt.Errorf("planning service not configured")
	}
	logger := s.loggerWith(ctx, "PendingForDoctor", "doctor_id", doctorID)

	if doctorID == "" {
		vErr := &ValidationError{}
		vErr.add("doctor_id", "doctor id is required")
		return nil, vErr
	}

	occurrences, err := s.planning.NotificationOccurrences(ctx, today)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var pending []recurrence.Occurrence
	for _, occ := range occurrences {
		if occ.Type != recurrence.SlotRCP {
			continue
		}
		if !occ.Involves(doctorID) {
			continue
		}
		if _, ok := snapshot.Status(occ.ID, doctorID); ok {
			continue
		}
		pending = append(pending, occ)
	}

	logger.With("pending_count", len(pending)).InfoContext(ctx, "pending occurrences listed")
	return pending, nil
}
