// Package main applies and inspects catalog schema migrations.
//
// Usage:
//
//	go run ./cmd/migrate up [--db-path ~/Bibliohome/bibliohome.db]
//	go run ./cmd/migrate down
//	go run ./cmd/migrate status
//	go run ./cmd/migrate version
//
// Flags and environment variables are the server's (see internal/config),
// including the .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bibliohome/bibliohome-server/internal/config"
	"github.com/bibliohome/bibliohome-server/internal/logger"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

const usage = "usage: migrate <up|down|status|version> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format:      cfg.Logger.Format,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, cfg.Database.Path, log); err != nil {
		log.Fatal("Migration failed", "command", command, "db_path", cfg.Database.Path, "error", err)
	}
}

func run(ctx context.Context, command, dbPath string, log *logger.Logger) error {
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := sqlite.NewMigrationProvider(db)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.Info("Applied migration", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
		}
		if len(results) == 0 {
			log.Info("Database is up to date")
		}

	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		log.Info("Rolled back migration", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-8d %-10s %-20s %s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}

	case "version":
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Println(version)

	default:
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}
	return nil
}
