package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/boost-ledger/config"
	"github.com/d60-Lab/boost-ledger/internal/api"
	"github.com/d60-Lab/boost-ledger/internal/api/handler"
	"github.com/d60-Lab/boost-ledger/internal/api/middleware"
	"github.com/d60-Lab/boost-ledger/internal/cache"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/monitor"
	"github.com/d60-Lab/boost-ledger/pkg/tracing"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func newProfileCache(ctx context.Context, cfg config.RedisConfig) (cache.ProfileCache, func() error, error) {
	if !cfg.Enabled {
		return cache.NopProfileCache{}, func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return cache.NewRedisProfileCache(client, cfg.ProfileTTL), client.Close, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer monitor.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	profileCache, closeCache, err := newProfileCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()

	invalidator := service.NewCacheInvalidator(profileCache, 10000)
	stopInvalidator := invalidator.Start(2)

	profiles := service.NewProfileService(db, profileCache, invalidator)
	accounts := service.NewAccountService(db, profiles)
	audit := service.NewAuditService(db)
	h := handler.New(handler.Services{
		Claims:   service.NewClaimService(db, cfg.Credits.EngagementReward, profiles),
		Boosts:   service.NewBoostService(db, cfg.Credits.BoostCost, cfg.Credits.DefaultTargetEngagements, profiles),
		Bonuses:  service.NewBonusService(db, cfg.Credits.SignupBonus, profiles),
		Profiles: profiles,
		Posts:    service.NewPostService(db),
		Accounts: accounts,
		Audit:    audit,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute)
	defer stopCleanup()

	gin.SetMode(cfg.Server.Mode)
	opts := api.Options{JWTSecret: cfg.JWT.Secret, JWTIssuer: cfg.JWT.Issuer, RateLimiter: limiter}
	if cfg.Tracing.Enabled {
		opts.ServiceName = cfg.Tracing.ServiceName
	}
	router, err := api.NewRouter(h, accounts, opts)
	if err != nil {
		return err
	}

	if cfg.Audit.Enabled {
		scheduler, err := audit.Schedule(cfg.Audit.Cron)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := stopInvalidator(shutdownCtx); err != nil {
		logger.Warn("invalidator shutdown", zap.Error(err))
	}
	return nil
}
