package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"terras/config"
	"terras/di"
	"terras/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeActivityConsumer()
	go consumer.Run(ctx)

	http := di.InitializeService()
	http.Serve()
}
