package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointage/internal/domain/attendance"
	"pointage/internal/domain/documents"
	"pointage/internal/domain/employees"
	"pointage/internal/domain/leave"
	"pointage/internal/domain/notifications"
	"pointage/internal/platform/config"
	"pointage/internal/platform/db"
	"pointage/internal/platform/email"
	"pointage/internal/platform/jobs"
	"pointage/internal/platform/metrics"
	"pointage/internal/platform/storage"
	"pointage/internal/transport/http/api"
	attendancehandler "pointage/internal/transport/http/handlers/attendance"
	authhandler "pointage/internal/transport/http/handlers/auth"
	documentshandler "pointage/internal/transport/http/handlers/documents"
	employeeshandler "pointage/internal/transport/http/handlers/employees"
	leavehandler "pointage/internal/transport/http/handlers/leave"
	notificationshandler "pointage/internal/transport/http/handlers/notifications"
	"pointage/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler

	jobsCancel context.CancelFunc
}

// New wires the full application: database, stores, services, background
// jobs, and the HTTP router. Callers own the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	employeeStore := employees.NewStore(pool)
	attendanceStore := attendance.NewStore(pool)
	notificationStore := notifications.NewStore(pool)
	leaveStore := leave.NewStore(pool)

	notificationSvc := notifications.New(notificationStore, email.New(cfg), cfg.EmailFrom, cfg.EmailTimeout)
	qrCodec := attendance.NewQRCodec(cfg.JWTSecret, cfg.QRFallbackValidity)
	attendanceSvc := attendance.NewService(attendanceStore, employeeStore, notificationSvc, qrCodec, cfg)
	leaveSvc := leave.NewService(leaveStore, notificationSvc)

	uploader := storage.Disabled()
	if cfg.StorageEndpoint != "" {
		store, err := storage.New(cfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("object storage bucket: %w", err)
		}
		uploader = store
	} else {
		slog.Warn("object storage not configured; document generation is disabled")
	}
	documentsSvc := documents.NewService(uploader)

	jobsCtx, jobsCancel := context.WithCancel(context.Background())
	jobs.New(notificationSvc, cfg).Start(jobsCtx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, "metrics", collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(employeeStore, cfg).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeStore, qrCodec, cfg).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
		documentshandler.NewHandler(documentsSvc, attendanceSvc, employeeStore).RegisterRoutes(r)
	})

	return &App{
		Config:     cfg,
		DB:         pool,
		Router:     router,
		jobsCancel: jobsCancel,
	}, nil
}

func (a *App) Close() {
	if a.jobsCancel != nil {
		a.jobsCancel()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("attendance server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
