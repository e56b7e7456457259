package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"richman_server/internal/config"
	"richman_server/internal/db"
	httpServer "richman_server/internal/http"
	"richman_server/internal/http/handlers"
	"richman_server/internal/http/middleware"
	"richman_server/internal/logger"
	"richman_server/internal/repository"
	"richman_server/internal/service"
	"richman_server/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogJSON); err != nil {
		logger.Fatal("failed to init logger", "error", err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage: postgres when configured, memory otherwise
	var (
		archive interface {
			service.Archive
			handlers.HistoryStore
		}
		players interface {
			repository.ProfileSource
			handlers.PlayerStore
		}
		pingers = map[string]handlers.Pinger{}
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		archive = repository.NewArchiveRepository(pool)
		players = repository.NewPlayerRepository(pool)
		pingers["database"] = pool
	} else {
		log.Warn("DATABASE_URL is empty, game archive and player directory kept in memory")
		dir := repository.NewMemoryDirectory()
		archive = repository.NewMemoryArchive(dir)
		players = dir
	}

	rdb, err := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
		pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	directory := repository.NewCachedDirectory(rdb, players, cfg.DirectoryTTL)

	manager := service.NewGameManager(service.ManagerOptions{
		Logger:      log.Named("manager"),
		Archive:     archive,
		Directory:   directory,
		Defaults:    cfg.GameSettings(),
		IdleTimeout: cfg.IdleTimeout,
		EventBuffer: cfg.EventBuffer,
		InboxSize:   cfg.InboxSize,
	})
	manager.StartCleanup(ctx, cfg.CleanupInterval)

	hub := ws.NewHub(manager, log.Named("ws"))
	go hub.Run(ctx)

	api := handlers.NewHandler(manager, players, archive)
	api.Cache = directory

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(log.Named("http")))
	httpServer.RegisterRoutes(r, httpServer.Deps{
		API:           api,
		Health:        handlers.NewHealthHandler(version, pingers),
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("port", cfg.AppPort), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	// партии закрываются после HTTP, чтобы новые действия уже не приходили
	if err := manager.Close(shutdownCtx); err != nil {
		log.Error("game manager close", zap.Error(err))
	}
	stop()

	log.Info("server exited")
}
