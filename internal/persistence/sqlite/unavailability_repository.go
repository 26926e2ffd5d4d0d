package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// UnavailabilityRepository persists doctor absence periods.
type UnavailabilityRepository struct {
	storage *Storage
}

func NewUnavailabilityRepository(storage *Storage) *UnavailabilityRepository {
	return &UnavailabilityRepository{storage: storage}
}

var _ persistence.UnavailabilityRepository = (*UnavailabilityRepository)(nil)

func (r *UnavailabilityRepository) ListUnavailabilities(ctx context.Context) ([]persistence.UnavailabilityRow, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT id, doctor_id, start_date, end_date, period, reason
		FROM unavailabilities ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unavailabilities: %w", mapError(err))
	}
	defer rows.Close()

	var unavailabilities []persistence.UnavailabilityRow
	for rows.Next() {
		var (
			unavailability persistence.UnavailabilityRow
			period         sql.NullString
			reason         sql.NullString
		)
		if err := rows.Scan(&unavailability.ID, &unavailability.DoctorID,
			&unavailability.StartDate, &unavailability.EndDate, &period, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability: %w", err)
		}
		unavailability.Period = stringPtr(period)
		unavailability.Reason = stringPtr(reason)
		unavailabilities = append(unavailabilities, unavailability)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unavailabilities: %w", mapError(err))
	}
	return unavailabilities, nil
}

func (r *UnavailabilityRepository) CreateUnavailability(ctx context.Context, row persistence.UnavailabilityRow) (persistence.UnavailabilityRow, error) {
	_, err := r.storage.db.ExecContext(ctx, `INSERT INTO unavailabilities
			(id, doctor_id, start_date, end_date, period, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.DoctorID, row.StartDate, row.EndDate,
		nullString(row.Period), nullString(row.Reason),
	)
	if err != nil {
		return persistence.UnavailabilityRow{}, fmt.Errorf("failed to create unavailability: %w", mapError(err))
	}
	return row, nil
}

func (r *UnavailabilityRepository) DeleteUnavailability(ctx context.Context, id string) error {
	result, err := r.storage.db.ExecContext(ctx, `DELETE FROM unavailabilities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unavailability: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
