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

	_ "github.com/VWTAlpine/Gradevue2UI-sub000/api/swagger"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/handler"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/middleware"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/repository"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/synergy"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/cache"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/config"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/database"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/jobs"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/logger"
	corsmiddleware "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/middleware/requestid"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/secrets"
)

// @title GradeVue API
// @version 0.1.0
// @description StudentVue gradebook client with what-if grade simulation
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

	metricsSvc := service.NewMetricsService()

	// Redis and Postgres are optional: without them the service still
	// works, minus the parsed-gradebook cache and restart persistence.
	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, gradebook cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	var snapshots service.SnapshotStore
	if db, err := database.NewPostgres(cfg.Database); err != nil {
		logr.Warn("postgres unavailable, snapshot persistence disabled", zap.Error(err))
	} else {
		snapshots = repository.NewSnapshotRepository(db, logr)
	}

	var sealer *secrets.Sealer
	if cfg.Secrets.SealKey != "" {
		sealer, err = secrets.NewSealer(cfg.Secrets.SealKey)
		if err != nil {
			logr.Fatal("invalid credential seal key", zap.Error(err))
		}
	}

	synergyClient := synergy.NewClient(cfg.Synergy, logr)
	parser := service.NewGradebookParser(logr)
	gradebookSvc := service.NewGradebookService(synergyClient, parser, cacheSvc, metricsSvc, logr)
	engine := service.NewHypotheticalEngine(logr)
	detector := service.NewChangeDetector()
	validate := validator.New()

	manager := service.NewSessionManager(gradebookSvc, engine, detector, snapshots, sealer, validate, cfg.JWT, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Refresh.Enabled {
		startBackgroundRefresh(ctx, cfg.Refresh, manager, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), manager)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerRoutes(api *gin.RouterGroup, manager *service.SessionManager) {
	authHandler := handler.NewAuthHandler(manager)
	gradebookHandler := handler.NewGradebookHandler(manager)
	hypotheticalHandler := handler.NewHypotheticalHandler()
	changesHandler := handler.NewChangesHandler()

	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Session(manager))

	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/gradebook", gradebookHandler.Get)
	protected.POST("/gradebook/refresh", gradebookHandler.Refresh)
	protected.PUT("/gradebook/period", gradebookHandler.SelectPeriod)

	protected.PUT("/hypothetical/mode", hypotheticalHandler.SetMode)
	protected.POST("/hypothetical/courses/:id/assignments", hypotheticalHandler.AddAssignment)
	protected.PUT("/hypothetical/courses/:id/assignments/:index", hypotheticalHandler.UpdateScore)
	protected.DELETE("/hypothetical/courses/:id/assignments/:assignmentId", hypotheticalHandler.RemoveAssignment)

	protected.GET("/changes", changesHandler.List)
	protected.DELETE("/changes", changesHandler.Clear)
}

// startBackgroundRefresh periodically re-fetches every live session's
// gradebook through a worker queue so grade changes surface without a
// client asking.
func startBackgroundRefresh(ctx context.Context, cfg config.RefreshConfig, manager *service.SessionManager, logr *zap.Logger) {
	queue := jobs.NewQueue("session-refresh", func(ctx context.Context, job jobs.Job) error {
		sessionID, ok := job.Payload.(string)
		if !ok {
			return nil
		}
		return manager.Refresh(ctx, sessionID)
	}, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: 1,
		RetryDelay: 30 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				queue.Stop()
				return
			case <-ticker.C:
				for _, id := range manager.SessionIDs() {
					job := jobs.Job{ID: id, Type: "refresh", Payload: id}
					if err := queue.Enqueue(job); err != nil {
						logr.Warn("failed to enqueue refresh", zap.Error(err))
					}
				}
			}
		}
	}()
}
