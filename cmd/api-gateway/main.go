package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/zideo/fintrack-api/api/swagger"
	"github.com/zideo/fintrack-api/internal/handler"
	"github.com/zideo/fintrack-api/internal/middleware"
	"github.com/zideo/fintrack-api/internal/models"
	"github.com/zideo/fintrack-api/internal/repository"
	"github.com/zideo/fintrack-api/internal/service"
	"github.com/zideo/fintrack-api/pkg/cache"
	"github.com/zideo/fintrack-api/pkg/config"
	"github.com/zideo/fintrack-api/pkg/database"
	"github.com/zideo/fintrack-api/pkg/logger"
	corsmiddleware "github.com/zideo/fintrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/zideo/fintrack-api/pkg/middleware/requestid"
)

// @title FinTrack API
// @version 1.0.0
// @description Expense tracking API: submission, approval workflow, aggregation and reporting
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	// Repositories.
	expenseRepo := repository.NewExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	notificationService := service.NewNotificationService(notificationRepo, logr)
	expenseService := service.NewExpenseService(expenseRepo, notificationService, userRepo, validate, logr)
	dashboardService := service.NewDashboardService(expenseRepo, departmentRepo, cacheService, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	departmentService := service.NewDepartmentService(departmentRepo, validate, logr)
	categoryService := service.NewCategoryService(categoryRepo, validate, logr)
	userService := service.NewUserService(userRepo, validate, logr)
	reportService := service.NewReportService(reportRepo, expenseRepo, validate, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService, dashboardService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	userHandler := handler.NewUserHandler(userService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(reportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	expenses := protected.Group("/expenses")
	{
		expenses.GET("", expenseHandler.List)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.POST("", expenseHandler.Create)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)

		approvals := expenses.Group("")
		approvals.Use(middleware.RequireRoles(models.RoleManager, models.RoleAdmin))
		{
			approvals.PUT("/:id/approve", expenseHandler.Approve)
			approvals.PUT("/:id/reject", expenseHandler.Reject)
		}
	}

	departments := protected.Group("/departments")
	{
		departments.GET("", departmentHandler.List)
		departments.GET("/:id", departmentHandler.Get)

		admin := departments.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("", departmentHandler.Create)
			admin.PUT("/:id", departmentHandler.Update)
			admin.DELETE("/:id", departmentHandler.Delete)
		}
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)

		admin := categories.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("", categoryHandler.Create)
			admin.PUT("/:id", categoryHandler.Update)
			admin.DELETE("/:id", categoryHandler.Delete)
		}
	}

	users := protected.Group("/users")
	{
		users.GET("/me", userHandler.Me)

		admin := users.Group("")
		admin.Use(middleware.RBAC(string(models.RoleAdmin), middleware.SelfMarker))
		{
			admin.GET("/:id", userHandler.Get)
			admin.PUT("/:id", userHandler.Update)
		}

		adminOnly := users.Group("")
		adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			adminOnly.GET("", userHandler.List)
			adminOnly.POST("", userHandler.Create)
			adminOnly.DELETE("/:id", userHandler.Delete)
		}
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
	}

	if cfg.Dashboard.Enabled {
		protected.GET("/dashboard", dashboardHandler.Summary)
	}

	if cfg.Reports.Enabled {
		reports := protected.Group("/reports")
		reports.Use(middleware.RequireRoles(models.RoleManager, models.RoleAdmin))
		{
			reports.GET("", reportHandler.List)
			reports.GET("/:id", reportHandler.Get)
			reports.POST("", reportHandler.Create)
			reports.DELETE("/:id", reportHandler.Delete)
			reports.POST("/:id/generate", reportHandler.Generate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
