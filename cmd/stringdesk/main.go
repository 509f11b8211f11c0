package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/racketdesk/stringdesk/internal/config"
	"github.com/racketdesk/stringdesk/internal/config/db"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
	"github.com/racketdesk/stringdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		logger.Log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run() error {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf := config.InitConfig()
	if err := logger.Initialize(conf.LogLevel); err != nil {
		logger.Log.Warn(err.Error())
	}
	defer logger.Log.Sync()

	storage, err := db.NewDB(rootCtx, conf.DatabaseDNS)
	if err != nil {
		logger.Log.Error(
			"Unable to connect to database",
			zap.String("path", conf.DatabaseDNS),
			zap.Error(err),
		)
		return err
	}
	defer storage.Close()

	serverService := service.NewServerService(rootCtx, conf.Address, storage)
	serverService.SetRouter()

	serverErr := make(chan error, 1)
	logger.Log.Info("Running Server on", zap.String("address", conf.Address))
	go serverService.RunServer(serverErr)

	select {
	case <-rootCtx.Done():
		logger.Log.Info("Received shutdown signal, shutting down.")
	case err = <-serverErr:
		logger.Log.Error("Server error", zap.Error(err))
	}

	if shutdownErr := serverService.Shutdown(); shutdownErr != nil {
		logger.Log.Error("Server shutdown error", zap.Error(shutdownErr))
	}

	return err
}
