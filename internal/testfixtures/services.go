package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/clinic-planner/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger attaches a logger to every service the factory builds.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles the full application layer wired against one store.
type Services struct {
	Planning   *application.PlanningService
	Template   *application.TemplateService
	Attendance *application.AttendanceService
	Rcps       *application.RcpService
	Exceptions *application.ExceptionService
	Doctors    *application.DoctorService
}

// Build constructs every application service on top of the harness
// repositories, sharing the factory's clock and identifier sequence.
func (f *ServiceFactory) Build(h *SQLiteHarness) *Services {
	idGen := f.IDGenerator.NextFunc()
	now := f.Clock.NowFunc()

	planning := application.NewPlanningServiceWithLogger(h.Templates, h.Rcps, h.Exceptions, h.Unavailabilities, f.Logger)
	return &Services{
		Planning:   planning,
		Template:   application.NewTemplateServiceWithLogger(h.Templates, idGen, now, f.Logger),
		Attendance: application.NewAttendanceServiceWithLogger(h.Attendance, planning, now, f.Logger),
		Rcps:       application.NewRcpServiceWithLogger(h.Rcps, idGen, now, f.Logger),
		Exceptions: application.NewExceptionServiceWithLogger(h.Exceptions, idGen, now, f.Logger),
		Doctors:    application.NewDoctorServiceWithLogger(h.Doctors, h.Unavailabilities, idGen, f.Logger),
	}
}
