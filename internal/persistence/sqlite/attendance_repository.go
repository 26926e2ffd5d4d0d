package sqlite

import (
	"context"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// AttendanceRepository persists per-occurrence, per-doctor decisions.
type AttendanceRepository struct {
	storage *Storage
}

func NewAttendanceRepository(storage *Storage) *AttendanceRepository {
	return &AttendanceRepository{storage: storage}
}

var _ persistence.AttendanceRepository = (*AttendanceRepository)(nil)

func (r *AttendanceRepository) ListAttendance(ctx context.Context) ([]persistence.AttendanceRow, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT occurrence_id, doctor_id, status, updated_at
		FROM rcp_attendance ORDER BY occurrence_id, doctor_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", mapError(err))
	}
	defer rows.Close()

	var records []persistence.AttendanceRow
	for rows.Next() {
		var (
			record    persistence.AttendanceRow
			updatedAt string
		)
		if err := rows.Scan(&record.OccurrenceID, &record.DoctorID, &record.Status, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		record.UpdatedAt = parseTime(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", mapError(err))
	}
	return records, nil
}

func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, row persistence.AttendanceRow) error {
	_, err := r.storage.db.ExecContext(ctx, `INSERT INTO rcp_attendance
			(occurrence_id, doctor_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (occurrence_id, doctor_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		row.OccurrenceID, row.DoctorID, row.Status, formatTime(row.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance record: %w", mapError(err))
	}
	return nil
}
