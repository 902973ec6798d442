package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appGraphql "github.com/taskdesk/backend/api/graphql"
	apiHandler "github.com/taskdesk/backend/api/handler"
	"github.com/taskdesk/backend/internal/config"
	"github.com/taskdesk/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdesk/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdesk/backend/internal/infrastructure/redis"
	"github.com/taskdesk/backend/internal/middleware"
	"github.com/taskdesk/backend/internal/router"
	"github.com/taskdesk/backend/internal/services/lifecycle"
	"github.com/taskdesk/backend/pkg/httpcontext"
	"github.com/taskdesk/backend/pkg/logger"
	"github.com/taskdesk/backend/repository"
	boltRepo "github.com/taskdesk/backend/repository/bolt"
	"github.com/taskdesk/backend/repository/postgres"
	redisRepo "github.com/taskdesk/backend/repository/redis"
	authUC "github.com/taskdesk/backend/usecase/auth"
	taskUC "github.com/taskdesk/backend/usecase/task"
	userUC "github.com/taskdesk/backend/usecase/user"
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

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)

	// The task store backend is swappable; users and sessions always live
	// in Postgres and Redis.
	var taskRepo repository.TaskRepository
	if cfg.Storage.Driver == config.DriverBolt {
		repo, closeFn, err := boltRepo.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt task store", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return closeFn()
		})
		taskRepo = repo
	} else {
		taskRepo = postgres.NewTaskRepository(pool)
	}

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.TokenExpiration)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenExpiration, zapLogger)
	userUseCase := userUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	schema, err := appGraphql.NewSchema(taskUseCase)
	if err != nil {
		zapLogger.Fatal("failed to build graphql schema", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		GraphQL: apiHandler.NewGraphQLHandler(schema, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(authUseCase, zapLogger)
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
