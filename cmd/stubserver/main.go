package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskgo/client/internal/config"
	"github.com/taskgo/client/internal/lifecycle"
	"github.com/taskgo/client/internal/stubapi"
	"github.com/taskgo/client/pkg/logger"
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

	stub := stubapi.NewServer(cfg.Stub.Secret, zapLogger)
	if cfg.Stub.SeedEmail != "" && cfg.Stub.SeedPassword != "" {
		if user, ok := stub.Store().CreateUser(cfg.Stub.SeedName, cfg.Stub.SeedEmail, cfg.Stub.SeedPassword, ""); ok {
			zapLogger.Info("seeded demo account", zap.String("email", user.Email))
		}
	}

	server := &fasthttp.Server{
		Handler: stub.Handler(),
		Name:    cfg.AppName + "-stub",
	}

	go func() {
		zapLogger.Info("stub server started", zap.String("address", cfg.Stub.Addr))
		if err := server.ListenAndServe(cfg.Stub.Addr); err != nil {
			zapLogger.Fatal("stub server crashed", zap.Error(err))
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
