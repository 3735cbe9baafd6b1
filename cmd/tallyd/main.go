package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kotan/tally/internal/api"
	"github.com/kotan/tally/internal/bot"
	"github.com/kotan/tally/internal/config"
	"github.com/kotan/tally/internal/metrics"
	"github.com/kotan/tally/internal/storage/sqlite"
	"github.com/kotan/tally/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogJSON)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	m := metrics.New()
	b := bot.New(store, m, cfg.RecentLimit)
	a := api.New(b)

	// h2c allows cleartext HTTP/2 from a fronting proxy.
	handler := h2c.NewHandler(a.Handler(), &http2.Server{})

	slog.Info("Event ingest starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
