package main

import (
	"context"
	"log"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/users/api/handler"
	"github.com/fastygo/users/internal/config"
	"github.com/fastygo/users/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/users/internal/infrastructure/redis"
	"github.com/fastygo/users/internal/lifecycle"
	"github.com/fastygo/users/internal/middleware"
	"github.com/fastygo/users/internal/router"
	"github.com/fastygo/users/pkg/httpcontext"
	"github.com/fastygo/users/pkg/logger"
	"github.com/fastygo/users/repository"
	redisRepo "github.com/fastygo/users/repository/redis"
	userUC "github.com/fastygo/users/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	users, err := openStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("store initialization failed", zap.Error(err))
	}
	storePinger, _ := users.(repository.Pinger)

	var cacheClient redislib.UniversalClient
	if cfg.Cache.Enabled {
		client, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return client.Close()
		})
		cacheClient = client
		users = redisRepo.NewCachedUserRepository(users, client, cfg.Cache.TTL, zapLogger)
	}

	mon := monitor.New(storePinger, cacheClient, cfg.Health.Interval, zapLogger)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	userUseCase := userUC.New(users, zapLogger)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:     apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Fallback: apiHandler.NewFallbackHandler(zapLogger),
	}

	opts := router.Options{
		Logger: zapLogger,
		Auth:   middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger),
	}
	if cfg.HTTP.EnableMetrics {
		opts.Metrics = middleware.NewMetrics("users")
	}

	server := &fasthttp.Server{
		Handler:         router.New(handlers, opts),
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:   cfg.HTTP.MaxConn,
		Name:            cfg.AppName,
		CloseOnShutdown: true,
	}

	manager.Go("http_server", cancel, func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("cache", cfg.Cache.Enabled),
			zap.Bool("auth", cfg.JWT.Secret != ""))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
