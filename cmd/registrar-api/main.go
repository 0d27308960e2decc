package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/bgarcia-dev/shs-registrar-api/api/swagger"
	"github.com/bgarcia-dev/shs-registrar-api/internal/handler"
	"github.com/bgarcia-dev/shs-registrar-api/internal/middleware"
	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/repository"
	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/cache"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/config"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/database"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/export"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/logger"
	corsmiddleware "github.com/bgarcia-dev/shs-registrar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bgarcia-dev/shs-registrar-api/pkg/middleware/requestid"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/storage"
)

// @title SHS Registrar API
// @version 1.0.0
// @description Senior high school enrollment and registrar records service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The dashboard cache degrades to direct queries without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare document storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	validate := validator.New()
	exporter := export.NewCSVExporter()

	personRepo := repository.NewPersonRepository(db)
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	parentRepo := repository.NewParentRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	queryTimeout := cfg.Database.QueryTimeout

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		QueryTimeout:      queryTimeout,
	})
	userService := service.NewUserService(userRepo, validate, logr, queryTimeout)
	studentService := service.NewStudentService(studentRepo, userRepo, store, validate, logr, queryTimeout)
	guardianService := service.NewGuardianService(parentRepo, userRepo, validate, logr, queryTimeout)
	personService := service.NewPersonService(personRepo, validate, logr, queryTimeout)
	reportService := service.NewReportService(reportRepo, exporter, logr, queryTimeout)
	lookupService := service.NewLookupService(lookupRepo, logr, queryTimeout)
	metricsService := service.NewMetricsService()
	dashboardService := service.NewDashboardService(studentRepo, userRepo, reportRepo, cacheRepo, metricsService, logr, cfg.Dashboard.CacheTTL)

	if err := bootstrapAdmin(userRepo, cfg.Bootstrap, logr); err != nil {
		logr.Sugar().Fatalw("failed to seed default admin", "error", err)
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	studentHandler := handler.NewStudentHandler(studentService, dashboardService, metricsService, store, signer, cfg.Documents.MaxFileSizeBytes)
	guardianHandler := handler.NewGuardianHandler(guardianService)
	personHandler := handler.NewPersonHandler(personService)
	reportHandler := handler.NewReportHandler(reportService)
	lookupHandler := handler.NewLookupHandler(lookupService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg.APIPrefix, authService, authHandler, userHandler, studentHandler, guardianHandler, personHandler, reportHandler, lookupHandler, dashboardHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerRoutes(
	r *gin.Engine,
	prefix string,
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	studentHandler *handler.StudentHandler,
	guardianHandler *handler.GuardianHandler,
	personHandler *handler.PersonHandler,
	reportHandler *handler.ReportHandler,
	lookupHandler *handler.LookupHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	api := r.Group(prefix)

	api.POST("/auth/login", authHandler.Login)
	// Document downloads authenticate through the signed token instead of a JWT,
	// so browsers can follow the link directly.
	api.GET("/documents/download", studentHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/password", authHandler.ChangePassword)

	// Staff may read their own account record; everything else under /users
	// stays admin-only.
	authed.GET("/users/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)

	staff := authed.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	{
		staff.POST("/students", studentHandler.Register)
		staff.GET("/students", studentHandler.List)
		staff.GET("/students/counts", studentHandler.Counts)
		staff.GET("/students/:id", studentHandler.Get)
		staff.PUT("/students/:id", studentHandler.Update)
		staff.DELETE("/students/:id", studentHandler.Delete)
		staff.GET("/students/:id/documents", studentHandler.Documents)

		staff.POST("/students/:id/guardians", guardianHandler.Add)
		staff.GET("/students/:id/guardians", guardianHandler.ListByStudent)
		staff.GET("/guardians/:id", guardianHandler.Get)
		staff.PUT("/guardians/:id", guardianHandler.Update)
		staff.DELETE("/guardians/links/:id", guardianHandler.Remove)

		staff.POST("/persons", personHandler.Create)
		staff.GET("/persons/:id", personHandler.Get)
		staff.PUT("/persons/:id", personHandler.Update)

		staff.GET("/strands", lookupHandler.Strands)
		staff.GET("/grade-levels", lookupHandler.GradeLevels)
		staff.GET("/departments", lookupHandler.Departments)

		staff.GET("/dashboard", dashboardHandler.Overview)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/users", userHandler.Create)
		admin.GET("/users", userHandler.List)
		admin.GET("/users/counts", userHandler.Counts)
		admin.PUT("/users/:id", userHandler.Update)
		admin.PUT("/users/:id/status", userHandler.SetStatus)

		admin.GET("/reports/students", reportHandler.Students)
		admin.GET("/reports/students/export", reportHandler.StudentsCSV)
		admin.GET("/reports/strand-enrollment", reportHandler.EnrollmentByStrand)
		admin.GET("/reports/registrations", reportHandler.Registrations)
		admin.GET("/reports/pending", reportHandler.Pending)
		admin.GET("/reports/staff", reportHandler.Staff)
		admin.GET("/reports/staff/export", reportHandler.StaffCSV)
		admin.GET("/reports/audit-logs", reportHandler.AuditTrail)
	}
}

// bootstrapAdmin creates the default admin account when the configured
// username does not exist yet. A blank password disables seeding.
func bootstrapAdmin(users *repository.UserRepository, cfg config.BootstrapConfig, logr *zap.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := users.ExistsByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	id, err := users.Create(ctx, &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}, nil)
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logr.Sugar().Infow("seeded default admin account", "username", cfg.AdminUsername, "id", id)
	return nil
}
