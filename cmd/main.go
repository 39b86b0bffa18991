package main

import (
	"context"

	"github.com/haoran-tse/tramcar/internal/handler"
	"github.com/haoran-tse/tramcar/internal/mailer"
	mid "github.com/haoran-tse/tramcar/internal/middleware"
	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"github.com/haoran-tse/tramcar/internal/service"
	"github.com/haoran-tse/tramcar/internal/sweeper"
	"github.com/haoran-tse/tramcar/pkg/config"
	"github.com/haoran-tse/tramcar/pkg/database"
	"github.com/haoran-tse/tramcar/pkg/logger"
	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting tramcar",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Site{},
		&model.SiteConfig{},
		&model.Country{},
		&model.Category{},
		&model.Company{},
		&model.Job{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Outbound mail: real SMTP when configured, logged otherwise
	var mail mailer.Mailer
	if appConfig.SMTP.Host != "" {
		smtpMailer, err := mailer.NewSMTPMailer(&appConfig.SMTP)
		if err != nil {
			log.Fatal("Failed to configure SMTP mailer", zap.Error(err))
		}
		mail = smtpMailer
		log.Info("SMTP mailer configured", zap.String("host", appConfig.SMTP.Host))
	} else {
		mail = mailer.NewLogMailer(log)
		log.Info("SMTP not configured, expiration notices will be logged")
	}

	// Repositories
	siteRepo := repository.NewSiteRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Services
	siteService := service.NewSiteService(siteRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, jobRepo, log)
	countryService := service.NewCountryService(countryRepo, log)
	companyService := service.NewCompanyService(companyRepo, countryRepo, jobRepo, log)
	jobService := service.NewJobService(jobRepo, categoryRepo, companyRepo, countryRepo, siteRepo, mail, log)

	// Sites written before provisioning owned the config row may lack one
	if err := siteService.EnsureAllConfigs(context.Background()); err != nil {
		log.Fatal("Failed to backfill site configs", zap.Error(err))
	}

	// Handlers
	siteHandler := handler.NewSiteHandler(siteService)
	countryHandler := handler.NewCountryHandler(countryService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	companyHandler := handler.NewCompanyHandler(companyService)
	jobHandler := handler.NewJobHandler(jobService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Site registry routes, not scoped to a board
	e.POST("/sites", siteHandler.CreateSite)
	e.GET("/sites", siteHandler.ListSites)
	e.GET("/sites/:id/config", siteHandler.GetSiteConfig)
	e.PATCH("/sites/:id/config", siteHandler.UpdateSiteConfig)

	// Countries are shared across all boards
	e.POST("/countries", countryHandler.CreateCountry)
	e.GET("/countries", countryHandler.ListCountries)

	// Board routes resolve the owning site from the Host header
	board := e.Group("", mid.ResolveSite(siteRepo))

	board.POST("/categories", categoryHandler.CreateCategory)
	board.GET("/categories", categoryHandler.ListCategories)
	board.GET("/categories/:id", categoryHandler.GetCategory)
	board.GET("/categories/:id/jobs", categoryHandler.CategoryJobs)

	board.POST("/companies", companyHandler.CreateCompany)
	board.GET("/companies", companyHandler.ListCompanies)
	board.GET("/companies/:id", companyHandler.GetCompany)
	board.GET("/companies/:id/jobs", companyHandler.CompanyJobs)
	board.GET("/companies/:id/jobs/paid", companyHandler.CompanyPaidJobs)

	board.GET("/jobs", jobHandler.ListJobs)
	board.GET("/jobs/:id", jobHandler.GetJob)
	board.POST("/jobs/:id/activate", jobHandler.ActivateJob)
	board.POST("/jobs/:id/expire", jobHandler.ExpireJob)

	// Job submission gets a per-IP rate limit when Redis is configured
	if appConfig.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     appConfig.Redis.Host + ":" + appConfig.Redis.Port,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		limiter := mid.RateLimit(redisClient, mid.RateLimitConfig{
			MaxRequests: appConfig.RateLimit.MaxRequests,
			Window:      appConfig.RateLimit.Window,
			KeyPrefix:   "ratelimit:jobs",
		}, log)
		board.POST("/jobs", jobHandler.CreateJob, limiter)
		log.Info("Rate limiting enabled for job submissions",
			zap.Int("max_requests", appConfig.RateLimit.MaxRequests),
			zap.Duration("window", appConfig.RateLimit.Window))
	} else {
		board.POST("/jobs", jobHandler.CreateJob)
	}

	// Background expiration sweep
	if appConfig.Sweeper.Enabled {
		sw := sweeper.New(jobService, appConfig.Sweeper.Interval, log)
		if err := sw.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweeper", zap.Error(err))
		}
		defer sw.Stop()
	}

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
