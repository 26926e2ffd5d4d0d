package sqlite

import (
	"context"
	"fmt"

	"github.com/example/clinic-planner/internal/persistence"
)

// DoctorRepository exposes the physician directory.
type DoctorRepository struct {
	storage *Storage
}

func NewDoctorRepository(storage *Storage) *DoctorRepository {
	return &DoctorRepository{storage: storage}
}

var _ persistence.DoctorRepository = (*DoctorRepository)(nil)

const doctorColumns = `id, name, color, specialties, excluded_days,
	excluded_activities, excluded_slot_types`

func (r *DoctorRepository) ListDoctors(ctx context.Context) ([]persistence.DoctorRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors ORDER BY name, id`, doctorColumns)
	rows, err := r.storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", mapError(err))
	}
	defer rows.Close()

	var doctors []persistence.DoctorRow
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate doctors: %w", mapError(err))
	}
	return doctors, nil
}

func (r *DoctorRepository) GetDoctor(ctx context.Context, id string) (persistence.DoctorRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE id = ?`, doctorColumns)
	doctor, err := scanDoctor(r.storage.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.DoctorRow{}, fmt.Errorf("failed to get doctor %s: %w", id, err)
	}
	return doctor, nil
}

// UpsertDoctor seeds or refreshes a directory entry.
func (r *DoctorRepository) UpsertDoctor(ctx context.Context, row persistence.DoctorRow) error {
	_, err := r.storage.db.ExecContext(ctx, `INSERT INTO doctors
			(id, name, color, specialties, excluded_days, excluded_activities, excluded_slot_types)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			specialties = excluded.specialties,
			excluded_days = excluded.excluded_days,
			excluded_activities = excluded.excluded_activities,
			excluded_slot_types = excluded.excluded_slot_types`,
		row.ID, row.Name, row.Color, encodeStringList(row.Specialties),
		encodeStringList(row.ExcludedDays), encodeStringList(row.ExcludedActivities),
		encodeStringList(row.ExcludedSlotTypes),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert doctor: %w", mapError(err))
	}
	return nil
}

func scanDoctor(scanner rowScanner) (persistence.DoctorRow, error) {
	var (
		doctor            persistence.DoctorRow
		specialtiesJSON   string
		excludedDaysJSON  string
		excludedActsJSON  string
		excludedTypesJSON string
	)
	err := scanner.Scan(&doctor.ID, &doctor.Name, &doctor.Color,
		&specialtiesJSON, &excludedDaysJSON, &excludedActsJSON, &excludedTypesJSON)
	if err != nil {
		return persistence.DoctorRow{}, mapError(err)
	}
	doctor.Specialties = decodeStringList(specialtiesJSON)
	doctor.ExcludedDays = decodeStringList(excludedDaysJSON)
	doctor.ExcludedActivities = decodeStringList(excludedActsJSON)
	doctor.ExcludedSlotTypes = decodeStringList(excludedTypesJSON)
	return doctor, nil
}
