package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kateder/internal/app"
	"github.com/shrimpsizemoose/kateder/internal/handlers"
)

func main() {
	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Bootstrap(context.Background()); err != nil {
		logger.Error.Fatalf("Failed to bootstrap service: %v", err)
	}

	mux := http.NewServeMux()

	recordHandler := handlers.NewRecordHandler(service)
	recordHandler.Register(mux)

	authHandler := handlers.NewAuthHandler(service)
	authHandler.Register(mux)

	mux.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting kateder server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("Kateder server failed: %v", err)
	}
}
