// Command billed-server runs the development stub backend for the billed
// client: SQLite-backed users and bills, JWT login, receipt uploads, and
// Prometheus metrics.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/config"
	"github.com/billed-app/billed/internal/server"
	"github.com/billed-app/billed/internal/storage/sqlite"
	"github.com/billed-app/billed/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.Seed {
		if err := server.Seed(context.Background(), store); err != nil {
			slog.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(store, jwtManager, cfg.UploadDir)

	// h2c allows HTTP/2 without TLS for local development.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	slog.Info("Stub server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
