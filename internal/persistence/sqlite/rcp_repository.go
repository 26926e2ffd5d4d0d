package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// RcpRepository persists meeting definitions and their manual instances.
type RcpRepository struct {
	storage *Storage
}

func NewRcpRepository(storage *Storage) *RcpRepository {
	return &RcpRepository{storage: storage}
}

var _ persistence.RcpRepository = (*RcpRepository)(nil)

const rcpColumns = `id, name, day, period, time, frequency, week_parity,
	monthly_week_number, doctor_ids, backup_doctor_id, created_at, updated_at`

func (r *RcpRepository) ListRcpDefinitions(ctx context.Context, withManualInstances bool) ([]persistence.RcpDefinitionRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM rcp_definitions ORDER BY name, id`, rcpColumns)
	rows, err := r.storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rcp definitions: %w", mapError(err))
	}
	defer rows.Close()

	var definitions []persistence.RcpDefinitionRow
	for rows.Next() {
		definition, err := scanRcpDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rcp definition: %w", err)
		}
		definitions = append(definitions, definition)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rcp definitions: %w", mapError(err))
	}

	if withManualInstances {
		instancesByRcp, err := r.listManualInstances(ctx)
		if err != nil {
			return nil, err
		}
		for i := range definitions {
			definitions[i].ManualInstances = instancesByRcp[definitions[i].ID]
		}
	}
	return definitions, nil
}

func (r *RcpRepository) CreateRcpDefinition(ctx context.Context, row persistence.RcpDefinitionRow) (persistence.RcpDefinitionRow, error) {
	_, err := r.storage.db.ExecContext(ctx, `INSERT INTO rcp_definitions
			(id, name, day, period, time, frequency, week_parity,
			monthly_week_number, doctor_ids, backup_doctor_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Name, nullString(row.Day), nullString(row.Period),
		nullString(row.Time), row.Frequency, nullString(row.WeekParity),
		nullInt(row.MonthlyWeekNumber), encodeStringList(row.DoctorIDs),
		nullString(row.BackupDoctorID), formatTime(row.CreatedAt), formatTime(row.UpdatedAt),
	)
	if err != nil {
		return persistence.RcpDefinitionRow{}, fmt.Errorf("failed to create rcp definition: %w", mapError(err))
	}
	return row, nil
}

func (r *RcpRepository) UpdateRcpDefinition(ctx context.Context, row persistence.RcpDefinitionRow) (persistence.RcpDefinitionRow, error) {
	result, err := r.storage.db.ExecContext(ctx, `UPDATE rcp_definitions SET
			name = ?, day = ?, period = ?, time = ?, frequency = ?,
			week_parity = ?, monthly_week_number = ?, doctor_ids = ?,
			backup_doctor_id = ?, updated_at = ?
		WHERE id = ?`,
		row.Name, nullString(row.Day), nullString(row.Period), nullString(row.Time),
		row.Frequency, nullString(row.WeekParity), nullInt(row.MonthlyWeekNumber),
		encodeStringList(row.DoctorIDs), nullString(row.BackupDoctorID),
		formatTime(row.UpdatedAt), row.ID,
	)
	if err != nil {
		return persistence.RcpDefinitionRow{}, fmt.Errorf("failed to update rcp definition: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.RcpDefinitionRow{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return persistence.RcpDefinitionRow{}, persistence.ErrNotFound
	}
	return row, nil
}

func (r *RcpRepository) ReplaceManualInstances(ctx context.Context, rcpID string, rows []persistence.ManualInstanceRow) error {
	return r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM rcp_manual_instances WHERE rcp_definition_id = ?`, rcpID); err != nil {
			return fmt.Errorf("failed to clear manual instances: %w", mapError(err))
		}
		for _, instance := range rows {
			if _, err := tx.ExecContext(ctx, `INSERT INTO rcp_manual_instances
					(id, rcp_definition_id, date, time, doctor_ids, backup_doctor_id)
				VALUES (?, ?, ?, ?, ?, ?)`,
				instance.ID, rcpID, instance.Date, nullString(instance.Time),
				encodeStringList(instance.DoctorIDs), nullString(instance.BackupDoctorID),
			); err != nil {
				return fmt.Errorf("failed to insert manual instance: %w", mapError(err))
			}
		}
		return nil
	})
}

func (r *RcpRepository) DeleteRcpDefinition(ctx context.Context, id string) error {
	result, err := r.storage.db.ExecContext(ctx, `DELETE FROM rcp_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rcp definition: %w", mapError(err))
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

func (r *RcpRepository) listManualInstances(ctx context.Context) (map[string][]persistence.ManualInstanceRow, error) {
	rows, err := r.storage.db.QueryContext(ctx, `SELECT id, rcp_definition_id, date, time,
			doctor_ids, backup_doctor_id
		FROM rcp_manual_instances ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list manual instances: %w", mapError(err))
	}
	defer rows.Close()

	instances := make(map[string][]persistence.ManualInstanceRow)
	for rows.Next() {
		var (
			instance       persistence.ManualInstanceRow
			timeOfDay      sql.NullString
			doctorsJSON    string
			backupDoctorID sql.NullString
		)
		if err := rows.Scan(&instance.ID, &instance.RcpDefinitionID, &instance.Date,
			&timeOfDay, &doctorsJSON, &backupDoctorID); err != nil {
			return nil, fmt.Errorf("failed to scan manual instance: %w", err)
		}
		instance.Time = stringPtr(timeOfDay)
		instance.DoctorIDs = decodeStringList(doctorsJSON)
		instance.BackupDoctorID = stringPtr(backupDoctorID)
		instances[instance.RcpDefinitionID] = append(instances[instance.RcpDefinitionID], instance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manual instances: %w", mapError(err))
	}
	return instances, nil
}

func scanRcpDefinition(scanner rowScanner) (persistence.RcpDefinitionRow, error) {
	var (
		definition        persistence.RcpDefinitionRow
		day               sql.NullString
		period            sql.NullString
		timeOfDay         sql.NullString
		weekParity        sql.NullString
		monthlyWeekNumber sql.NullInt64
		doctorsJSON       string
		backupDoctorID    sql.NullString
		createdAt         string
		updatedAt         string
	)
	err := scanner.Scan(
		&definition.ID, &definition.Name, &day, &period, &timeOfDay,
		&definition.Frequency, &weekParity, &monthlyWeekNumber,
		&doctorsJSON, &backupDoctorID, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.RcpDefinitionRow{}, mapError(err)
	}
	definition.Day = stringPtr(day)
	definition.Period = stringPtr(period)
	definition.Time = stringPtr(timeOfDay)
	definition.WeekParity = stringPtr(weekParity)
	definition.MonthlyWeekNumber = intPtr(monthlyWeekNumber)
	definition.DoctorIDs = decodeStringList(doctorsJSON)
	definition.BackupDoctorID = stringPtr(backupDoctorID)
	definition.CreatedAt = parseTime(createdAt)
	definition.UpdatedAt = parseTime(updatedAt)
	return definition, nil
}
