package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// ExceptionRepository persists per-occurrence overrides.
type ExceptionRepository struct {
	storage *Storage
}

func NewExceptionRepository(storage *Storage) *ExceptionRepository {
	return &ExceptionRepository{storage: storage}
}

var _ persistence.ExceptionRepository = (*ExceptionRepository)(nil)

func (r *ExceptionRepository) ListExceptions(ctx context.Context) ([]persistence.ExceptionRow, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT id, template_id, original_date,
			new_date, new_period, new_time, is_cancelled, custom_doctor_ids, updated_at
		FROM rcp_exceptions ORDER BY updated_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", mapError(err))
	}
	defer rows.Close()

	var exceptions []persistence.ExceptionRow
	for rows.Next() {
		var (
			exception   persistence.ExceptionRow
			newDate     sql.NullString
			newPeriod   sql.NullString
			newTime     sql.NullString
			doctorsJSON string
			updatedAt   string
		)
		if err := rows.Scan(&exception.ID, &exception.TemplateID, &exception.OriginalDate,
			&newDate, &newPeriod, &newTime, &exception.IsCancelled,
			&doctorsJSON, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exception: %w", err)
		}
		exception.NewDate = stringPtr(newDate)
		exception.NewPeriod = stringPtr(newPeriod)
		exception.NewTime = stringPtr(newTime)
		exception.CustomDoctorIDs = decodeStringList(doctorsJSON)
		exception.UpdatedAt = parseTime(updatedAt)
		exceptions = append(exceptions, exception)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exceptions: %w", mapError(err))
	}
	return exceptions, nil
}

func (r *ExceptionRepository) UpsertException(ctx context.Context, row persistence.ExceptionRow) error {
	_, err := r.storage.db.ExecContext(ctx, `INSERT INTO rcp_exceptions
			(id, template_id, original_date, new_date, new_period, new_time,
			is_cancelled, custom_doctor_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (template_id, original_date) DO UPDATE SET
			new_date = excluded.new_date,
			new_period = excluded.new_period,
			new_time = excluded.new_time,
			is_cancelled = excluded.is_cancelled,
			custom_doctor_ids = excluded.custom_doctor_ids,
			updated_at = excluded.updated_at`,
		row.ID, row.TemplateID, row.OriginalDate, nullString(row.NewDate),
		nullString(row.NewPeriod), nullString(row.NewTime), row.IsCancelled,
		encodeStringList(row.CustomDoctorIDs), formatTime(row.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exception: %w", mapError(err))
	}
	return nil
}

func (r *ExceptionRepository) DeleteException(ctx context.Context, templateID, originalDate string) error {
	result, err := r.storage.db.ExecContext(ctx,
		`DELETE FROM rcp_exceptions WHERE template_id = ? AND original_date = ?`,
		templateID, originalDate)
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", mapError(err))
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
