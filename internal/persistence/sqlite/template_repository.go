package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// TemplateRepository persists recurring duty definitions.
type TemplateRepository struct {
	storage *Storage
}

func NewTemplateRepository(storage *Storage) *TemplateRepository {
	return &TemplateRepository{storage: storage}
}

var _ persistence.TemplateRepository = (*TemplateRepository)(nil)

const templateColumns = `id, day, period, time, location, type, default_doctor_id,
	secondary_doctor_ids, doctor_ids, backup_doctor_id, sub_type,
	is_required, is_blocking, frequency, created_at, updated_at`

func (r *TemplateRepository) ListTemplateSlots(ctx context.Context) ([]persistence.TemplateSlotRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_templates ORDER BY day, period, location, type`, templateColumns)
	rows, err := r.storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list template slots: %w", mapError(err))
	}
	defer rows.Close()

	var slots []persistence.TemplateSlotRow
	for rows.Next() {
		slot, err := scanTemplateSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template slots: %w", mapError(err))
	}
	return slots, nil
}

func (r *TemplateRepository) ListTemplateSlotIDs(ctx context.Context) ([]string, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT id FROM schedule_templates`)
	if err != nil {
		return nil, fmt.Errorf("failed to list template slot ids: %w", mapError(err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan template slot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template slot ids: %w", mapError(err))
	}
	return ids, nil
}

func (r *TemplateRepository) UpsertTemplateSlots(ctx context.Context, slots []persistence.TemplateSlotRow) ([]persistence.TemplateSlotRow, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	result := make([]persistence.TemplateSlotRow, len(slots))
	err := r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		upsert := `INSERT INTO schedule_templates (id, day, period, time, location, type,
				default_doctor_id, secondary_doctor_ids, doctor_ids, backup_doctor_id,
				sub_type, is_required, is_blocking, frequency, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (day, period, location, type) DO UPDATE SET
				time = excluded.time,
				default_doctor_id = excluded.default_doctor_id,
				secondary_doctor_ids = excluded.secondary_doctor_ids,
				doctor_ids = excluded.doctor_ids,
				backup_doctor_id = excluded.backup_doctor_id,
				sub_type = excluded.sub_type,
				is_required = excluded.is_required,
				is_blocking = excluded.is_blocking,
				frequency = excluded.frequency,
				updated_at = excluded.updated_at`
		for i, slot := range slots {
			if _, err := tx.ExecContext(ctx, upsert,
				slot.ID, slot.Day, slot.Period, nullString(slot.Time),
				slot.Location, slot.Type, nullString(slot.DefaultDoctorID),
				encodeStringList(slot.SecondaryDoctorIDs), encodeStringList(slot.DoctorIDs),
				nullString(slot.BackupDoctorID), nullString(slot.SubType),
				slot.IsRequired, slot.IsBlocking, slot.Frequency,
				formatTime(slot.CreatedAt), formatTime(slot.UpdatedAt),
			); err != nil {
				return fmt.Errorf("failed to upsert template slot: %w", mapError(err))
			}

			// A conflict keeps the existing row's id, so re-read by the
			// natural key to report the id the store actually holds.
			query := fmt.Sprintf(`SELECT %s FROM schedule_templates
				WHERE day = ? AND period = ? AND location = ? AND type = ?`, templateColumns)
			stored, err := scanTemplateSlot(tx.QueryRowContext(ctx, query,
				slot.Day, slot.Period, slot.Location, slot.Type))
			if err != nil {
				return fmt.Errorf("failed to read back template slot: %w", mapError(err))
			}
			result[i] = stored
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *TemplateRepository) UpdateTemplateSlot(ctx context.Context, slot persistence.TemplateSlotRow) error {
	result, err := r.storage.db.ExecContext(ctx, `UPDATE schedule_templates SET
			day = ?, period = ?, time = ?, location = ?, type = ?,
			default_doctor_id = ?, secondary_doctor_ids = ?, doctor_ids = ?,
			backup_doctor_id = ?, sub_type = ?, is_required = ?, is_blocking = ?,
			frequency = ?, updated_at = ?
		WHERE id = ?`,
		slot.Day, slot.Period, nullString(slot.Time), slot.Location, slot.Type,
		nullString(slot.DefaultDoctorID), encodeStringList(slot.SecondaryDoctorIDs),
		encodeStringList(slot.DoctorIDs), nullString(slot.BackupDoctorID),
		nullString(slot.SubType), slot.IsRequired, slot.IsBlocking,
		slot.Frequency, formatTime(slot.UpdatedAt), slot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template slot: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) DeleteTemplateSlots(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_templates WHERE id = ?`, id); err != nil {
				return fmt.Errorf("failed to delete template slot %s: %w", id, mapError(err))
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplateSlot(scanner rowScanner) (persistence.TemplateSlotRow, error) {
	var (
		slot                 persistence.TemplateSlotRow
		timeOfDay            sql.NullString
		defaultDoctorID      sql.NullString
		secondaryDoctorsJSON string
		doctorsJSON          string
		backupDoctorID       sql.NullString
		subType              sql.NullString
		createdAt            string
		updatedAt            string
	)
	err := scanner.Scan(
		&slot.ID, &slot.Day, &slot.Period, &timeOfDay, &slot.Location, &slot.Type,
		&defaultDoctorID, &secondaryDoctorsJSON, &doctorsJSON, &backupDoctorID,
		&subType, &slot.IsRequired, &slot.IsBlocking, &slot.Frequency,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.TemplateSlotRow{}, mapError(err)
	}
	slot.Time = stringPtr(timeOfDay)
	slot.DefaultDoctorID = stringPtr(defaultDoctorID)
	slot.SecondaryDoctorIDs = decodeStringList(secondaryDoctorsJSON)
	slot.DoctorIDs = decodeStringList(doctorsJSON)
	slot.BackupDoctorID = stringPtr(backupDoctorID)
	slot.SubType = stringPtr(subType)
	slot.CreatedAt = parseTime(createdAt)
	slot.UpdatedAt = parseTime(updatedAt)
	return slot, nil
}
