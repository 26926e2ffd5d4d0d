package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/clinic-planner/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// storage instance for integration-style tests. The fields are the concrete
// repositories so tests can reach seeding helpers the service interfaces do
// not expose.
type SQLiteHarness struct {
	Templates        *sqlite.TemplateRepository
	Rcps             *sqlite.RcpRepository
	Exceptions       *sqlite.ExceptionRepository
	Attendance       *sqlite.AttendanceRepository
	Doctors          *sqlite.DoctorRepository
	Unavailabilities *sqlite.UnavailabilityRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "planner.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Templates:        sqlite.NewTemplateRepository(storage),
		Rcps:             sqlite.NewRcpRepository(storage),
		Exceptions:       sqlite.NewExceptionRepository(storage),
		Attendance:       sqlite.NewAttendanceRepository(storage),
		Doctors:          sqlite.NewDoctorRepository(storage),
		Unavailabilities: sqlite.NewUnavailabilityRepository(storage),
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedDoctors stores the given directory entries, failing the test on error.
func (h *SQLiteHarness) SeedDoctors(tb testing.TB, doctors ...DoctorFixture) {
	tb.Helper()
	for _, doctor := range doctors {
		if err := h.Doctors.UpsertDoctor(context.Background(), doctor.Row()); err != nil {
			tb.Fatalf("failed to seed doctor %s: %v", doctor.ID, err)
		}
	}
}
