package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/songdb/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	r.config = config

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if steps := cmd.Int("rollback"); steps != 0 {
		return r.rollback(db, steps)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Catalog ready at %s (%d migrations applied)\n", config.Database.Path, len(versions))
	return nil
}

// rollback undoes the newest steps migrations, stopping early once none are left.
func (r *Runner) rollback(db *sql.DB, steps int) error {
	if steps < 0 {
		return fmt.Errorf("%w: --rollback must be positive, got %d", shared.ErrInvalidFlag, steps)
	}

	for range steps {
		m, err := shared.RollbackMigration(db)
		if errors.Is(err, shared.ErrNoMigrations) {
			r.writePlainln("Nothing to roll back")
			break
		}
		if err != nil {
			return err
		}
		r.logger.Info("migration rolled back", "version", m.Version, "name", m.Name)
		r.writePlain("✓ Rolled back %04d_%s\n", m.Version, m.Name)
	}
	return nil
}

// SetupConfig writes the embedded example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set library.music_dir in %s\n", configPath)
	r.writePlain("2. Run 'songdb scan -c %s' to build the catalog\n", configPath)
	return nil
}
