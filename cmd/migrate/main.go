package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.SQLDB()
	if err != nil {
		logg.Error(ctx, "failed to get sql handle", err)
		os.Exit(1)
	}

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, *dir, *cmd)
	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version")
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, *version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *cmd)
		os.Exit(1)
	}

	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration complete")
}
