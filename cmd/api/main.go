package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/useradmin/user-admin/backend/internal/config"
	"github.com/useradmin/user-admin/backend/internal/handler"
	"github.com/useradmin/user-admin/backend/internal/model/user"
	"github.com/useradmin/user-admin/backend/internal/service/events"
	userService "github.com/useradmin/user-admin/backend/internal/service/user"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	store := user.NewMemoryStore(cfg.Store.Seed(), cfg.Store.IDStrategy)
	if store.Strategy() == user.IDStrategyLength {
		logger.Warn("USER_ID_STRATEGY=length can reuse ids after a delete; set USER_ID_STRATEGY=sequence to avoid it")
	}

	hub := events.NewHub(logger.Named("hub"))
	users := userService.NewService(store, hub, logger.Named("service"))

	router := handler.NewRouter(users, hub, handler.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	if err := startServer(ctx, cfg.Server, router, hub, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, hub *events.Hub, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("user admin backend listening", zap.String("addr", serverCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Closing the hub ends every open change feed so Shutdown does not wait on them.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
