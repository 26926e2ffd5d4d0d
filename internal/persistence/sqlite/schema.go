package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; the schema version stored in
// PRAGMA user_version tracks how many have run.
var migrations = []string{
	`CREATE TABLE schedule_templates (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		period TEXT NOT NULL,
		time TEXT,
		location TEXT NOT NULL,
		type TEXT NOT NULL,
		default_doctor_id TEXT,
		secondary_doctor_ids TEXT NOT NULL DEFAULT '[]',
		doctor_ids TEXT NOT NULL DEFAULT '[]',
		backup_doctor_id TEXT,
		sub_type TEXT,
		is_required INTEGER NOT NULL DEFAULT 1,
		is_blocking INTEGER NOT NULL DEFAULT 1,
		frequency TEXT NOT NULL DEFAULT 'WEEKLY',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (day, period, location, type)
	)`,
	`CREATE TABLE rcp_definitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		day TEXT,
		period TEXT,
		time TEXT,
		frequency TEXT NOT NULL,
		week_parity TEXT,
		monthly_week_number INTEGER,
		doctor_ids TEXT NOT NULL DEFAULT '[]',
		backup_doctor_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE rcp_manual_instances (
		id TEXT PRIMARY KEY,
		rcp_definition_id TEXT NOT NULL REFERENCES rcp_definitions(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		time TEXT,
		doctor_ids TEXT NOT NULL DEFAULT '[]',
		backup_doctor_id TEXT
	)`,
	`CREATE TABLE rcp_exceptions (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		original_date TEXT NOT NULL,
		new_date TEXT,
		new_period TEXT,
		new_time TEXT,
		is_cancelled INTEGER NOT NULL DEFAULT 0,
		custom_doctor_ids TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL,
		UNIQUE (template_id, original_date)
	)`,
	`CREATE TABLE rcp_attendance (
		occurrence_id TEXT NOT NULL,
		doctor_id TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('PRESENT', 'ABSENT')),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (occurrence_id, doctor_id)
	)`,
	`CREATE TABLE doctors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		specialties TEXT NOT NULL DEFAULT '[]',
		excluded_days TEXT NOT NULL DEFAULT '[]',
		excluded_activities TEXT NOT NULL DEFAULT '[]',
		excluded_slot_types TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE unavailabilities (
		id TEXT PRIMARY KEY,
		doctor_id TEXT NOT NULL REFERENCES doctors(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		period TEXT,
		reason TEXT
	)`,
	`CREATE INDEX idx_manual_instances_definition ON rcp_manual_instances(rcp_definition_id)`,
	`CREATE INDEX idx_unavailabilities_doctor ON unavailabilities(doctor_id)`,
}

// Migrate brings the schema up to the current version.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		var version int
		if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if version > len(migrations) {
			return fmt.Errorf("database schema version %d is newer than this binary supports", version)
		}
		for i := version; i < len(migrations); i++ {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return fmt.Errorf("migration %d failed: %w", i+1, mapError(err))
			}
		}
		if version < len(migrations) {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
				return fmt.Errorf("failed to record schema version: %w", err)
			}
		}
		return nil
	})
}
