package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-doctor-scheduling/config"
	deliveryHttp "go-doctor-scheduling/internal/delivery/http"
	"go-doctor-scheduling/internal/delivery/http/handler"
	"go-doctor-scheduling/internal/delivery/http/middleware"
	"go-doctor-scheduling/internal/infrastructure/cache"
	"go-doctor-scheduling/internal/infrastructure/database"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/internal/repository"
	"go-doctor-scheduling/internal/service"
	"go-doctor-scheduling/internal/usecase"
	"go-doctor-scheduling/pkg/jwt"
	"go-doctor-scheduling/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	LockService *service.ScheduleLockService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.Log)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) {
	log := logrus.StandardLogger()

	// Metrics live on their own registry so /metrics only shows what we export
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	recurringRepo := repository.NewRecurringScheduleRepository()
	breakRepo := repository.NewRecurringBreakRepository()
	oneTimeRepo := repository.NewOneTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	removalRepo := repository.NewSlotRemovalRequestRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	app.LockService = service.NewScheduleLockService(redisClient, log, schedulingMetrics, cfg.Lock)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorProfileRepo, recurringRepo, breakRepo, oneTimeRepo, appointmentRepo, schedulingMetrics, cfg.Schedule)
	doctorScheduleUsecase := usecase.NewDoctorScheduleUsecase(db, log, doctorProfileRepo, recurringRepo, breakRepo, oneTimeRepo, auditService, app.LockService, schedulingMetrics, cfg.Schedule)
	slotRemovalUsecase := usecase.NewSlotRemovalUsecase(db, log, doctorProfileRepo, removalRepo, recurringRepo, breakRepo, oneTimeRepo, auditService, app.LockService, schedulingMetrics, cfg.Schedule)
	bookingUsecase := usecase.NewAppointmentBookingUsecase(db, log, appointmentRepo, availabilityUsecase, auditService, schedulingMetrics)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	doctorScheduleHandler := handler.NewDoctorScheduleHandler(doctorScheduleUsecase, availabilityUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, cfg.Schedule.SlotDuration)
	slotRemovalHandler := handler.NewSlotRemovalHandler(slotRemovalUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		doctorScheduleHandler,
		availabilityHandler,
		slotRemovalHandler,
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	httpRouter := router.Setup()

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.LockService != nil {
		app.LockService.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
