package migrate

import (
	"context"
	"fmt"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db"
	"github.com/skburgers/backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot when SKB_AUTO_MIGRATE is
// set. Intended for dev; production deploys run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.Flags.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		return fmt.Errorf("auto-migrate must not be enabled in prod")
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("getting sql handle for migrations: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "running pending migrations (auto-migrate)")
	}
	return Run(ctx, sqlDB, DefaultDir, "up")
}
