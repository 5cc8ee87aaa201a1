package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/questforge/backend/api/handler"
	"github.com/questforge/backend/internal/config"
	"github.com/questforge/backend/internal/infrastructure/localstore"
	"github.com/questforge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/questforge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/questforge/backend/internal/infrastructure/redis"
	"github.com/questforge/backend/internal/middleware"
	"github.com/questforge/backend/internal/router"
	"github.com/questforge/backend/internal/services"
	"github.com/questforge/backend/internal/services/lifecycle"
	"github.com/questforge/backend/pkg/httpcontext"
	"github.com/questforge/backend/pkg/logger"
	localRepo "github.com/questforge/backend/repository/local"
	"github.com/questforge/backend/repository/postgres"
	redisRepo "github.com/questforge/backend/repository/redis"
	authUC "github.com/questforge/backend/usecase/auth"
	trackerUC "github.com/questforge/backend/usecase/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	localStore, err := localstore.Open(cfg.LocalStore.Path, "snapshots")
	if err != nil {
		zapLogger.Fatal("failed to open local store", zap.Error(err))
	}
	manager.Register("local_store", func(ctx context.Context) error {
		return localStore.Close()
	})

	mon := monitor.New(pool, redisClient, localStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	localSnapshotRepo := localRepo.NewSnapshotRepository(localStore)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	resetRepo := redisRepo.NewResetTokenRepository(redisClient)

	container := services.NewStateContainer(
		snapshotRepo,
		localSnapshotRepo,
		mon,
		zapLogger,
		services.ContainerConfig{
			Debounce:    cfg.Engine.DebounceWindow,
			OfflineMode: cfg.Engine.OfflineMode,
		},
	)
	manager.Register("state_container", func(ctx context.Context) error {
		return container.FlushAll(ctx)
	})

	refresher := services.NewRefresher(
		container,
		localStore,
		snapshotRepo,
		localSnapshotRepo,
		mon,
		zapLogger,
		services.RefresherConfig{
			ChallengeSchedule: cfg.Engine.ChallengeSchedule,
			DrainInterval:     cfg.Engine.DrainInterval,
		},
	)
	refresher.Start()
	manager.Register("refresher", func(ctx context.Context) error {
		refresher.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, resetRepo, zapLogger, authUC.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
	})
	trackerUseCase := trackerUC.New(container, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, trackerUseCase, ctxAdapter, zapLogger),
		State:  apiHandler.NewStateHandler(trackerUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(trackerUseCase, ctxAdapter, zapLogger),
		Record: apiHandler.NewRecordHandler(trackerUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
