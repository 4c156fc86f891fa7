package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"event-service/internal/attendance"
	"event-service/internal/auth"
	"event-service/internal/college"
	"event-service/internal/config"
	"event-service/internal/db"
	"event-service/internal/event"
	"event-service/internal/feedback"
	"event-service/internal/health"
	"event-service/internal/kafka"
	"event-service/internal/logger"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/middleware"
	"event-service/internal/registration"
	"event-service/internal/report"
	"event-service/internal/telemetry"
	"event-service/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
)

const tokenPurgeInterval = time.Hour

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	telemetry *telemetry.Telemetry
	publisher messaging.Publisher
	auth      *auth.Service
	stop      context.CancelFunc
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env)
	slog.SetDefault(slogLogger)
	slogLogger.Info("initializing application", buildAttrs()...)

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx, database,
		(*user.User)(nil),
		(*auth.RefreshToken)(nil),
		(*college.College)(nil),
		(*event.Event)(nil),
		(*registration.Registration)(nil),
		(*attendance.Attendance)(nil),
		(*feedback.Feedback)(nil),
	); err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := tel.Metrics.Database.RegisterDB(database.DB, tel.Meter()); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	publisher := newPublisher(cfg.Messaging, slogLogger)

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    slogLogger,
		db:        database,
		telemetry: tel,
		publisher: publisher,
	}
	app.routes(tel.Metrics)

	slogLogger.Info("application initialized successfully")
	return app, nil
}

// newPublisher falls back to Noop when the broker is unreachable so the API
// still serves without domain events.
func newPublisher(cfg config.MessagingConfig, logger *slog.Logger) messaging.Publisher {
	switch cfg.Driver {
	case "nats":
		p, err := messaging.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS publisher", "error", err)
			return messaging.Noop{}
		}
		logger.Info("NATS publisher initialized", "url", cfg.NATS.URL, "prefix", cfg.NATS.SubjectPrefix)
		return p
	case "kafka":
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("failed to initialize Kafka producer", "error", err)
			return messaging.Noop{}
		}
		logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		return p
	default:
		logger.Info("domain event publishing disabled")
		return messaging.Noop{}
	}
}

func (a *App) routes(m *metrics.Metrics) {
	log := a.logger

	userRepo := user.NewRepository(a.db, m)
	authRepo := auth.NewRepository(a.db, m)
	collegeRepo := college.NewRepository(a.db, m)
	eventRepo := event.NewRepository(a.db, m)
	registrationRepo := registration.NewRepository(a.db, m)
	attendanceRepo := attendance.NewRepository(a.db, m)
	feedbackRepo := feedback.NewRepository(a.db, m)
	reportRepo := report.NewRepository(a.db, m)

	tokens := auth.NewTokenManager(a.config.Auth.JWTSecret, time.Duration(a.config.Auth.AccessTokenTTLMinutes)*time.Minute)
	refreshTTL := time.Duration(a.config.Auth.RefreshTokenTTLHours) * time.Hour
	a.auth = auth.NewService(authRepo, userRepo, tokens, refreshTTL, m)

	feedbackService := feedback.NewService(feedbackRepo, eventRepo, a.publisher, m, log)
	eventService := event.NewService(eventRepo, collegeRepo, feedbackService, a.publisher, m, log)
	registrationService := registration.NewService(registrationRepo, eventRepo, a.publisher, m, log)
	attendanceService := attendance.NewService(attendanceRepo, eventRepo, registrationRepo, userRepo, a.publisher, m, log)

	healthHandler := health.NewHandler(a.db, log)
	authHandler := auth.NewHandler(a.auth, log, a.config.Env)
	userHandler := user.NewHandler(user.NewService(userRepo), log)
	collegeHandler := college.NewHandler(college.NewService(collegeRepo), log)
	eventHandler := event.NewHandler(eventService, log)
	registrationHandler := registration.NewHandler(registrationService, log)
	attendanceHandler := attendance.NewHandler(attendanceService, log)
	feedbackHandler := feedback.NewHandler(feedbackService, log)
	reportHandler := report.NewHandler(report.NewService(reportRepo), log)

	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(middleware.CORS(a.config.Server.CORSOrigins))

	// Public endpoints
	healthHandler.RegisterRoutes(a.router)
	authHandler.RegisterRoutes(a.router)
	collegeHandler.RegisterRoutes(a.router)
	eventHandler.RegisterPublicRoutes(a.router)
	feedbackHandler.RegisterPublicRoutes(a.router)

	a.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(tokens, log))

		authHandler.RegisterProtectedRoutes(r)
		eventHandler.RegisterRoutes(r)
		registrationHandler.RegisterRoutes(r)
		attendanceHandler.RegisterRoutes(r)
		feedbackHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(log, user.RoleAdmin))
			userHandler.RegisterRoutes(r)
		})
	})
}

// Handler exposes the router for in-process tests
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	go a.purgeRefreshTokens(ctx)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) purgeRefreshTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.auth.PurgeExpired(ctx)
			if err != nil {
				a.logger.Error("failed to purge expired refresh tokens", "error", err)
				continue
			}
			if n > 0 {
				a.logger.Info("purged expired refresh tokens", "count", n)
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.stop != nil {
		a.stop()
	}

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if closer, ok := a.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("publisher close error", "error", err)
		}
	}

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}

	db.Close(a.db)
	return errors.Join(errs...)
}
