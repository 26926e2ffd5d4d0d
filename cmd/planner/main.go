package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/clinic-planner/internal/application"
	"github.com/example/clinic-planner/internal/config"
	httptransport "github.com/example/clinic-planner/internal/http"
	"github.com/example/clinic-planner/internal/logging"
	"github.com/example/clinic-planner/internal/persistence/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.SlogLevel())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	templateRepo := sqlite.NewTemplateRepository(storage)
	rcpRepo := sqlite.NewRcpRepository(storage)
	exceptionRepo := sqlite.NewExceptionRepository(storage)
	attendanceRepo := sqlite.NewAttendanceRepository(storage)
	doctorRepo := sqlite.NewDoctorRepository(storage)
	unavailabilityRepo := sqlite.NewUnavailabilityRepository(storage)

	planningService := application.NewPlanningServiceWithLogger(templateRepo, rcpRepo, exceptionRepo, unavailabilityRepo, logger)
	templateService := application.NewTemplateServiceWithLogger(templateRepo, idGenerator, now, logger)
	attendanceService := application.NewAttendanceServiceWithLogger(attendanceRepo, planningService, now, logger)
	rcpService := application.NewRcpServiceWithLogger(rcpRepo, idGenerator, now, logger)
	exceptionService := application.NewExceptionServiceWithLogger(exceptionRepo, idGenerator, now, logger)
	doctorService := application.NewDoctorServiceWithLogger(doctorRepo, unavailabilityRepo, idGenerator, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Planning:   httptransport.NewPlanningHandler(planningService, now, logger),
		Template:   httptransport.NewTemplateHandler(templateService, logger),
		Attendance: httptransport.NewAttendanceHandler(attendanceService, now, logger),
		Rcps:       httptransport.NewRcpHandler(rcpService, logger),
		Exceptions: httptransport.NewExceptionHandler(exceptionService, logger),
		Doctors:    httptransport.NewDoctorHandler(doctorService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
