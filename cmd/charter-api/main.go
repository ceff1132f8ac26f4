// README: Entry point; loads config, wires services, serves the chat API until signalled.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"charterdesk/internal/config"
	httptransport "charterdesk/internal/http"
	"charterdesk/internal/infra"
	"charterdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := service.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build app", zap.Error(err))
	}
	defer app.Close()
	if app.Verifier == nil {
		logger.Warn("firebase auth disabled; roles come from the X-Terminal-Role header")
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Concierge: app.Concierge,
		Toolbox:   app.Toolbox,
		Metrics:   app.Metrics,
		Verifier:  app.Verifier,
		Logger:    logger.Named("http"),
	})
	server := httptransport.NewServer(cfg.HTTP.Addr, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("http server", zap.Error(err))
	}
}
