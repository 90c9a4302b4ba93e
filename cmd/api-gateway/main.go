package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/russ8887/coach-tool-api/api/swagger"
	"github.com/russ8887/coach-tool-api/internal/handler"
	"github.com/russ8887/coach-tool-api/internal/middleware"
	"github.com/russ8887/coach-tool-api/internal/models"
	"github.com/russ8887/coach-tool-api/internal/repository"
	"github.com/russ8887/coach-tool-api/internal/service"
	"github.com/russ8887/coach-tool-api/pkg/cache"
	"github.com/russ8887/coach-tool-api/pkg/config"
	"github.com/russ8887/coach-tool-api/pkg/database"
	"github.com/russ8887/coach-tool-api/pkg/jobs"
	"github.com/russ8887/coach-tool-api/pkg/logger"
	corsmiddleware "github.com/russ8887/coach-tool-api/pkg/middleware/cors"
	reqidmiddleware "github.com/russ8887/coach-tool-api/pkg/middleware/requestid"
	"github.com/russ8887/coach-tool-api/pkg/storage"
)

// @title Coach Tool API
// @version 1.0.0
// @description Scheduling, attendance and fill-in recommendations for a coaching business
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, fill-in caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.FillIn.CacheTTL, logr, cfg.FillIn.CacheEnabled)
	}

	studentRepo := repository.NewStudentRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	slotSvc := service.NewSlotService(slotRepo, studentRepo, cacheSvc, validate, logr)
	blockSvc := service.NewBlockService(blockRepo, cacheSvc, validate, logr)
	fillInSvc := service.NewFillInService(slotRepo, studentRepo, blockRepo, cacheSvc, metricsSvc, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, slotRepo, blockRepo, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(fillInSvc, cfg.Exports.MaxRows, logr)

	var exportJobSvc *service.ExportJobService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStore(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewTokenSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobRepo := repository.NewExportJobRepository(db)
		worker := service.NewExportWorker(exportJobRepo, exportSvc, exportStore, signer, cfg.APIPrefix, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(context.Background())
		defer queue.Stop()

		exportJobSvc = service.NewExportJobService(exportJobRepo, queue, exportStore, signer, service.ExportJobConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		}, logr)
		exportJobSvc.RecoverPendingJobs(context.Background())
		exportJobSvc.StartCleanup(context.Background())
	}

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	slotHandler := handler.NewSlotHandler(slotSvc)
	blockHandler := handler.NewBlockHandler(blockSvc)
	fillInHandler := handler.NewFillInHandler(fillInSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	exportHandler := handler.NewExportHandler(exportSvc, exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		}

		protected := api.Group("", middleware.JWT(authSvc))
		{
			protected.GET("/fill-ins", fillInHandler.ListForDate)

			students := protected.Group("/students")
			{
				students.GET("", studentHandler.List)
				students.GET("/:id", studentHandler.Get)
				students.POST("", studentHandler.Create)
				students.PUT("/:id", studentHandler.Update)
				students.DELETE("/:id", studentHandler.Delete)
				students.PATCH("/:id/lessons-owed", studentHandler.AdjustLessonsOwed)
			}

			schedules := protected.Group("/schedules")
			{
				schedules.GET("", slotHandler.List)
				schedules.GET("/:id", slotHandler.Get)
				schedules.GET("/:id/instance", slotHandler.GetInstance)
				schedules.POST("", middleware.RequireRoles(models.RoleAdmin), slotHandler.Create)
				schedules.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), slotHandler.Update)
				schedules.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), slotHandler.Delete)
				schedules.PUT("/:id/members", slotHandler.ReplaceMembers)

				schedules.GET("/:id/fill-ins", fillInHandler.ForSlot)
				schedules.POST("/:id/fill-ins", attendanceHandler.AssignFillIn)
				schedules.DELETE("/:id/fill-ins/:studentId", attendanceHandler.RemoveFillIn)
				schedules.POST("/:id/absences", attendanceHandler.MarkAbsent)
				schedules.DELETE("/:id/absences/:studentId", attendanceHandler.ClearAbsence)
			}

			blocks := protected.Group("/blocks")
			{
				blocks.GET("", blockHandler.List)
				blocks.GET("/:id", blockHandler.Get)
				blocks.POST("", blockHandler.Create)
				blocks.PUT("/:id", blockHandler.Update)
				blocks.DELETE("/:id", blockHandler.Delete)
			}

			if cfg.Exports.Enabled {
				protected.GET("/exports/fill-ins", exportHandler.FillInReport)
				protected.POST("/exports/fill-ins/jobs", exportHandler.CreateJob)
				protected.GET("/exports/jobs/:id", exportHandler.JobStatus)
			}
		}

		if cfg.Exports.Enabled {
			// Download links carry a signed token, no session required.
			api.GET("/exports/downloads/:token", exportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	srv := &http.Server{Addr: addr, Handler: r}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
