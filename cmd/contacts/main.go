// Command contacts prints every stored contact submission as one JSON
// object per line.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/metrixmedia/backend/internal/config"
	"github.com/metrixmedia/backend/internal/logging"
	"github.com/metrixmedia/backend/internal/repository"
	"github.com/metrixmedia/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.SetDefault(logging.New(os.Stdout, "INFO"))
		logging.Fatal("failed to load config", "error", err)
	}
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))

	if repository.KindOf(cfg.DatabaseURL) == repository.KindMemory {
		logging.Fatal("DATABASE_URL is not set; the in-memory store is per process and has nothing to list")
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to open submission store", "error", err)
	}
	defer store.Close()

	subs, err := service.NewContactService(store, nil, service.ContactConfig{}, nil).List(ctx)
	if err != nil {
		logging.Fatal("failed to list submissions", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, s := range subs {
		if err := enc.Encode(s); err != nil {
			logging.Fatal("failed to write submission", "error", err)
		}
	}
}
