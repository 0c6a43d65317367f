package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/exercise"
	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/relation"
	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/workoutexercise"
	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/workoutplan"
	"github.com/fitforge/fitplan-backend/internal/cache"
	"github.com/fitforge/fitplan-backend/internal/config"
	"github.com/fitforge/fitplan-backend/internal/loader"
	planservice "github.com/fitforge/fitplan-backend/internal/service/workoutplan"
	"github.com/fitforge/fitplan-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger and storage, wires the workout plan aggregate service, and
// serves HTTP until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	gateway, closeCache, err := newCache(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer closeCache()

	txm := postgres.NewTxManager(pool)
	planRepo := workoutplan.New(pool)
	childRepo := workoutexercise.New(pool)
	catalogRepo := exercise.New(pool)
	tagRepo := relation.NewTagRepo(pool)
	mgRepo := relation.NewMuscleGroupRepo(pool)
	eqRepo := relation.NewEquipmentRepo(pool)
	relations := loader.New(tagRepo, mgRepo, eqRepo)

	svc := planservice.NewService(logger, planservice.Deps{
		Plans:        planRepo,
		Children:     childRepo,
		Catalog:      catalogRepo,
		Relations:    relations,
		Tags:         tagRepo,
		MuscleGroups: mgRepo,
		Equipment:    eqRepo,
		Cache:        gateway,
		Tx:           txm,
	}, planservice.Config{
		DefaultPageSize:          cfg.Plans.DefaultPageSize,
		MaxPageSize:              cfg.Plans.MaxPageSize,
		DefaultEstimatedDuration: cfg.Plans.DefaultEstimatedDuration,
		MaxExercisesPerPlan:      cfg.Plans.MaxExercisesPerPlan,
		EntityTTL:                cfg.Cache.EntityTTL,
		ListTTL:                  cfg.Cache.ListTTL,
	})

	router := rest.NewRouter(logger, svc, pool, rest.RouterConfig{
		CORS:               cfg.CORS,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Version:            BuildVersion(),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// newCache picks the redis backend when configured, otherwise the in-process
// fallback.
func newCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (cache.Cache, func(), error) {
	if cfg.Addr == "" {
		log.Info("redis not configured, using in-process cache")
		return cache.NewMemory(), func() {}, nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis cache connected", slog.String("addr", cfg.Addr))
	return redisCache, func() { _ = redisCache.Close() }, nil
}
