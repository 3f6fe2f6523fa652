package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db"
	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/migrate"
)

func main() {
	var (
		cmd     = flag.String("cmd", "up", "migration command: up | down | status | version | up-to")
		dir     = flag.String("dir", migrate.DefaultDir, "migrations directory")
		version = flag.String("version", "", "target version for up-to")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(context.Background(), "failed to get sql handle", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"cmd": *cmd, "dir": *dir})
	switch *cmd {
	case "up", "down", "status", "version":
		err = migrate.Run(ctx, sqlDB, *dir, *cmd)
	case "up-to":
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, *version)
	default:
		logg.Error(ctx, "unknown migration command", nil)
		os.Exit(2)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "migration complete")
}
