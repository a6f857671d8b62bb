package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aegis-dashboard/internal/infrastructure/migration"
	"aegis-dashboard/internal/output"
	"aegis-dashboard/utils/logger"

	"github.com/joho/godotenv"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command (up, down, status)")
		steps   = flag.Int("steps", 1, "Number of steps for down migration")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	level := os.Getenv("LOG_LEVEL")
	if *verbose {
		level = "debug"
	}
	appLogger := logger.New(os.Stdout, level, false)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		appLogger.Error("DATABASE_URL cannot be empty")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := migration.Open(databaseURL)
	if err != nil {
		appLogger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := migration.NewMigrator(db, appLogger, migration.SchemaFS())

	switch *command {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			appLogger.Error("migration up failed", "error", err)
			os.Exit(1)
		}
		appLogger.Info("migrations applied", "count", n)

	case "down":
		if *steps <= 0 {
			*steps = 1
		}
		for i := 0; i < *steps; i++ {
			if err := migrator.Down(ctx); err != nil {
				appLogger.Error("migration down failed", "error", err, "step", i+1)
				os.Exit(1)
			}
		}
		appLogger.Info("migrations rolled back", "steps", *steps)

	case "status":
		migrations, err := migrator.Status(ctx)
		if err != nil {
			appLogger.Error("migration status failed", "error", err)
			os.Exit(1)
		}
		table := output.NewTable(os.Stdout, []string{"VERSION", "NAME", "APPLIED"})
		for _, m := range migrations {
			applied := "pending"
			if m.Applied() {
				applied = m.AppliedAt.Format(time.RFC3339)
			}
			table.AddRow([]string{fmt.Sprintf("%03d", m.Version), m.Name, applied})
		}
		if err := table.Render(); err != nil {
			appLogger.Error("failed to render status", "error", err)
			os.Exit(1)
		}

	default:
		appLogger.Error("unknown command", "command", *command)
		fmt.Println("Available commands: up, down, status")
		os.Exit(1)
	}
}
