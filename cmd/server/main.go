// Command server runs the sneaker closet HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sneakercloset/internal/config"
	"sneakercloset/internal/middleware"
	"sneakercloset/internal/observability"
	"sneakercloset/internal/server"
)

// @title Sneaker Closet API
// @version 1.0
// @description Sneaker catalog with personal closets, wishlists, rotations, follows and an activity feed

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)
	slog.SetDefault(middleware.Logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "sneakercloset-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		middleware.Logger.Error("Failed to initialise tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("Tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		middleware.Logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
