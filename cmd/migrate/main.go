package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/metrixmedia/backend/internal/config"
	"github.com/metrixmedia/backend/internal/logging"
	"github.com/metrixmedia/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)  apply pending migrations
  status        show applied and pending migrations
  reset         roll back every migration, then apply all again`)
	os.Exit(1)
}

// gooseLogger forwards goose output to slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logging.Fatal(fmt.Sprintf(format, v...))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.SetDefault(logging.New(os.Stdout, "INFO"))
		logging.Fatal("failed to load config", "error", err)
	}
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var steps []string
	switch cmd {
	case "up", "status":
		steps = []string{cmd}
	case "reset":
		steps = []string{"reset", "up"}
	default:
		usage()
	}

	db, kind, err := repository.OpenMigrationDB(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, step := range steps {
		slog.Info("running migrations", "command", step, "store", kind)
		if err := repository.RunMigrations(ctx, db, kind, step, gooseLogger{}); err != nil {
			logging.Fatal("migration failed", "command", step, "error", err)
		}
	}
	slog.Info("migrations completed", "command", cmd)
}
