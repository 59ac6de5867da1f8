package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/internal/stub"
	"github.com/fastygo/taskflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   os.Stdout,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.WithSignals(context.Background())
	defer cancel()

	server := stub.New(stub.Options{
		Name:            cfg.AppName + "-stub",
		JWTSecret:       cfg.Stub.JWTSecret,
		JWTIssuer:       cfg.Stub.JWTIssuer,
		TokenTTL:        cfg.Stub.TokenTTL,
		ReadTimeout:     cfg.Stub.ReadTimeout,
		WriteTimeout:    cfg.Stub.WriteTimeout,
		IdleTimeout:     cfg.Stub.IdleTimeout,
		WrapCollections: cfg.Stub.WrapCollections,
	}, zapLogger)

	go func() {
		if err := server.ListenAndServe(cfg.StubAddress()); err != nil {
			zapLogger.Fatal("stub crashed", zap.Error(err))
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
