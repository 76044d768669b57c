// cmd/ats-console/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ats-console/internal/api"
	"ats-console/internal/backend"
	"ats-console/internal/common/config"
	"ats-console/internal/common/database"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/logger"
	"ats-console/internal/common/observability"
	"ats-console/internal/inbox"
	"ats-console/internal/jobs"
	"ats-console/internal/pipeline"
	"ats-console/internal/resumefilter"
	"ats-console/internal/schedule"
	"ats-console/internal/upload"
	"ats-console/internal/verification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ATS console",
		zap.String("environment", cfg.App.Environment),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Backend client ---
	hc := httpclient.NewClient(cfg.Backend.BaseURL, config.GetDuration(cfg.Backend.Timeout),
		httpclient.WithLogger(log),
		httpclient.WithTracer(obs.Tracer()),
		httpclient.WithCredentials(cfg.Backend.WithCredentials),
	)
	be := backend.New(hc)

	// --- Job list cache ---
	var (
		cache jobs.Cache = jobs.NewMemoryCache()
		redis *database.RedisClient
	)
	if cfg.Redis.Enabled {
		redis = database.NewRedis(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redis.Ping(ctx)
		cancel()
		if err != nil {
			zapLog.Fatal("redis ping failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redis.Close()
		cache = jobs.NewRedisCache(redis)
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis disabled, caching job lists in memory")
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Services ---
	sched := schedule.NewService(be, log)
	srv := api.NewServer(api.Deps{
		Home: jobs.HomeDeps{
			Service:       jobs.NewService(be, log),
			Cache:         cache,
			TTL:           config.GetDuration(cfg.Cache.JobListTTL),
			KeyPrefix:     cfg.Cache.KeyPrefix,
			Observability: obs,
			Logger:        log,
		},
		Applications: jobs.NewApplications(be, log),
		Pipeline: pipeline.Deps{
			Backend:        be,
			Filters:        resumefilter.NewService(be, log),
			Schedule:       sched,
			Uploader:       upload.NewUploader(be, cfg.Uploads, log),
			Uploads:        cfg.Uploads,
			InterviewNotes: cfg.Schedule.DefaultDescription,
			Observability:  obs,
			Logger:         log,
		},
		Inbox:         inbox.NewService(be, log),
		Schedule:      sched,
		Verification:  verification.NewService(be, log),
		Observability: obs,
		Logger:        log,
		Ready: func(ctx context.Context) error {
			if redis == nil {
				return nil
			}
			return redis.Ping(ctx)
		},
		AllowOrigin:        cfg.Server.AllowOrigin,
		MaxMultipartMemory: cfg.Uploads.MaxFileBytes * 4,
		SessionIdleTimeout: config.GetDuration(cfg.Server.SessionIdleTimeout),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	zapLog.Info("Shutdown signal received, draining requests...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	srv.Close()
	if err := obs.Shutdown(ctx); err != nil {
		zapLog.Warn("observability shutdown failed", zap.Error(err))
	}
	zapLog.Info("ATS console stopped")
}
