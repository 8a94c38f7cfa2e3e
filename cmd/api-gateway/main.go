package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/akademia-dev/attendance-api/api/swagger"
	"github.com/akademia-dev/attendance-api/internal/handler"
	internalmiddleware "github.com/akademia-dev/attendance-api/internal/middleware"
	"github.com/akademia-dev/attendance-api/internal/repository"
	"github.com/akademia-dev/attendance-api/internal/service"
	"github.com/akademia-dev/attendance-api/pkg/cache"
	"github.com/akademia-dev/attendance-api/pkg/clock"
	"github.com/akademia-dev/attendance-api/pkg/config"
	"github.com/akademia-dev/attendance-api/pkg/database"
	"github.com/akademia-dev/attendance-api/pkg/jobs"
	"github.com/akademia-dev/attendance-api/pkg/logger"
	corsmiddleware "github.com/akademia-dev/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/akademia-dev/attendance-api/pkg/middleware/requestid"
)

// @title Attendance API
// @version 1.0.0
// @description Session and attendance reconciliation service
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Report caching degrades to pass-through without Redis.
		logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
		redisClient = nil
	}

	civil := clock.NewCivil(cfg.Attendance.UTCOffsetHours)
	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	sectionRepo := repository.NewSectionRepository(db)
	sessionLogRepo := repository.NewSessionLogRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	rosterSvc := service.NewRosterService(enrollmentRepo)
	sessionSvc := service.NewSessionService(sectionRepo, sessionLogRepo, civil, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, rosterSvc, cacheRepo, civil, validate, logr)
	sweepSvc := service.NewSweepService(sessionSvc, sessionLogRepo, sectionRepo, attendanceSvc, metricsSvc, civil, logr)
	reportSvc := service.NewReportService(attendanceRepo, catalogRepo, rosterSvc, cacheRepo, cfg.Reports.CacheTTL, metricsSvc, civil, validate, logr)

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	sweepHandler := handler.NewSweepHandler(sweepSvc)
	var reportHandler *handler.ReportHandler
	if cfg.Reports.ExportEnabled {
		reportHandler = handler.NewReportHandler(reportSvc, service.NewExportService(reportSvc, logr))
	} else {
		reportHandler = handler.NewReportHandler(reportSvc, nil)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

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
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/attendance", attendanceHandler.Submit)
		api.POST("/attendance/list", attendanceHandler.List)
		api.POST("/attendance/correct", attendanceHandler.Correct)
		api.GET("/attendance/sweep", sweepHandler.Trigger)
		api.POST("/sessions", sessionHandler.Record)
		api.GET("/sessions/ensure", sessionHandler.EnsureDefaults)
		api.POST("/reports/daily", reportHandler.Daily)
		api.GET("/reports/daily/export", reportHandler.Export)
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sweepQueue *jobs.Queue
	if cfg.Attendance.SweepEnabled {
		sweepQueue = jobs.NewQueue("absence-sweep", func(ctx context.Context, job jobs.Job) error {
			_, err := sweepSvc.Run(ctx)
			return err
		}, jobs.QueueConfig{Workers: 1, Logger: logr})
		sweepQueue.Start(rootCtx)
		sweepQueue.EnqueueEvery(cfg.Attendance.SweepInterval, "absence-sweep")
		logr.Sugar().Infow("absence sweep scheduled", "interval", cfg.Attendance.SweepInterval)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Sugar().Infow("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if sweepQueue != nil {
		sweepQueue.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
