package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recommend-course/config"
	"github.com/d60-Lab/recommend-course/internal/api"
	"github.com/d60-Lab/recommend-course/internal/api/handler"
	"github.com/d60-Lab/recommend-course/internal/authz"
	"github.com/d60-Lab/recommend-course/internal/model"
	"github.com/d60-Lab/recommend-course/internal/repository"
	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/database"
	"github.com/d60-Lab/recommend-course/pkg/logger"
	"github.com/d60-Lab/recommend-course/pkg/monitoring"
	"github.com/d60-Lab/recommend-course/pkg/tracing"
)

// @title Recommend Course API
// @version 1.0
// @description 课程推荐服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	sentryOn, err := monitoring.Init(cfg.Sentry)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	if sentryOn {
		defer monitoring.Flush()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.Database.MigrateHostTables {
		if err := model.MigrateHost(db); err != nil {
			return fmt.Errorf("migrate host tables: %w", err)
		}
	}
	if err := model.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	enforcer, err := authz.NewEnforcer(cfg.Authz.ModelPath, cfg.Authz.PolicyPath)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Site.Timezone))
		loc = time.UTC
	}

	var exports service.ExportWriter = service.LogExportWriter{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, privacy exports go to log", zap.Error(err))
		} else {
			exports = service.NewRedisExportWriter(rdb, cfg.Redis.ExportKey)
		}
	}

	recRepo := repository.NewRecommendationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)
	links := service.NewLinks(cfg.Site.BaseURL, cfg.Site.DashboardPath)

	h := handler.NewHandler(handler.Services{
		Search:          service.NewSearchService(courseRepo, userRepo),
		Recommendations: service.NewRecommendationService(recRepo, time.Now),
		Reader:          service.NewReaderService(recRepo, courseRepo, enforcer, links, service.DefaultImageChain(links), loc),
		Stats:           service.NewStatsService(recRepo, links, cfg.Stats.Limit),
		Privacy:         service.NewPrivacyService(recRepo, exports, time.Now),
		Authorizer:      enforcer,
		Links:           links,
		Ping:            func(ctx context.Context) error { return database.Ping(ctx, db) },
	})

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(cfg, h, api.Options{Sentry: sentryOn, Tracing: cfg.Tracing.Enabled})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
