package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-staffing/config"
	deliveryHttp "clinic-staffing/internal/delivery/http"
	"clinic-staffing/internal/delivery/http/handler"
	"clinic-staffing/internal/delivery/http/middleware"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/infrastructure/cache"
	"clinic-staffing/internal/infrastructure/database"
	"clinic-staffing/internal/repository"
	"clinic-staffing/internal/service"
	"clinic-staffing/internal/usecase"
	"clinic-staffing/pkg/jwt"
	"clinic-staffing/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database migrated successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// migrate creates the schema and seeds the fixed role set
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Modality{},
		&entity.Doctor{},
		&entity.ScheduleEntry{},
		&entity.Ticket{},
		&entity.StudyCount{},
		&entity.AuditLog{},
	); err != nil {
		return err
	}

	roles := []entity.Role{
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor, Description: "Radiology doctor"},
		{ID: entity.RoleIDHR, RoleName: entity.RoleHR, Description: "HR staff"},
		{ID: entity.RoleIDManager, RoleName: entity.RoleManager, Description: "Department manager"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorRepo := repository.NewDoctorRepository()
	modalityRepo := repository.NewModalityRepository()
	scheduleRepo := repository.NewScheduleRepository()
	ticketRepo := repository.NewTicketRepository()
	studyCountRepo := repository.NewStudyCountRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	predictor := service.NewHTTPPredictor(cfg.Predictor)

	var notifier service.Notifier
	if cfg.SMTP.Enabled() {
		notifier = service.NewMailNotifier(cfg.SMTP, log)
	} else {
		notifier = service.NewLogNotifier(log)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, ticketRepo, auditService, jwtService, redisClient)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, modalityRepo, ticketRepo, roleRepo, auditService, notifier)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, scheduleRepo, doctorRepo, auditService)
	ticketUsecase := usecase.NewTicketUsecase(db, log, ticketRepo, userRepo, doctorRepo, modalityRepo, scheduleRepo, auditService, notifier)
	staffingUsecase := usecase.NewStaffingUsecase(db, log, redisClient, cfg.Analyzer.CacheTTL, studyCountRepo, doctorRepo, predictor, cfg.Predictor.Timeout)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	ticketHandler := handler.NewTicketHandler(ticketUsecase, customValidator)
	staffingHandler := handler.NewStaffingHandler(staffingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.App.RequestsPerSecond, cfg.App.RequestBurst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		scheduleHandler,
		ticketHandler,
		staffingHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		rateLimitMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
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

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
